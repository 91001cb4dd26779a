package gedcom

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	maxLevel      = 99
	maxLineLength = 1 << 20
)

// Parser reads GEDCOM lines from a reader. It is used like bufio.Scanner:
//
//	p := NewParser(r)
//	for p.Next() {
//		line := p.Line()
//	}
//	if err := p.Err(); err != nil { ... }
//
// The sequence is forward-only. Parsing stops for good at the first
// malformed line; Err then reports it.
type Parser struct {
	sc     *bufio.Scanner
	line   Line
	text   string
	lineNo int
	err    error
	done   bool
}

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Parser{sc: sc}
}

// Next advances to the next non-blank line. It returns false at the end of
// input or after an error.
func (p *Parser) Next() bool {
	if p.done {
		return false
	}
	for p.sc.Scan() {
		p.lineNo++
		text := p.sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		line, kind := parseLine(text)
		if kind != nil {
			p.fail(&ParseError{Kind: kind, LineNumber: p.lineNo, Text: text})
			return false
		}
		p.line = line
		p.text = text
		return true
	}
	if err := p.sc.Err(); err != nil {
		p.fail(&ParseError{Kind: ErrRead, LineNumber: p.lineNo + 1, Err: err})
		return false
	}
	p.done = true
	return false
}

func (p *Parser) fail(err error) {
	p.err = err
	p.done = true
	p.line = Line{}
	p.text = ""
}

// Line returns the line most recently read by Next.
func (p *Parser) Line() Line { return p.line }

// Err returns the error that stopped parsing, or nil at a clean end of input.
func (p *Parser) Err() error { return p.err }

// parseLine splits "LEVEL [@ID@] TAG [VALUE]". On failure it returns one of
// the structural sentinel errors.
func parseLine(text string) (Line, error) {
	rest := text

	sLevel, rest := nextToken(rest)
	level, err := strconv.Atoi(sLevel)
	if err != nil || level < 0 || level > maxLevel {
		return Line{}, ErrIllegalLevel
	}

	tok, rest := nextToken(rest)
	if tok == "" {
		return Line{}, ErrMissingTag
	}

	var sID, sTag string
	if tok[0] == '@' {
		sID = tok
		sTag, rest = nextToken(rest)
		if sTag == "" {
			return Line{}, ErrMissingTag
		}
	} else {
		sTag = tok
	}

	// The value is everything after the single separator following the tag,
	// but only when some non-blank text remains.
	value := ""
	if strings.TrimLeft(rest, whitespace) != "" {
		value = rest[1:]
	}

	line := NewLine(level, sID, sTag, value)
	if level > 0 && line.HasID() {
		return Line{}, ErrInvalidID
	}
	return line, nil
}

const whitespace = " \t\r\n\f"

// nextToken skips leading whitespace and returns the following token and
// the remainder of s starting at the delimiter after it.
func nextToken(s string) (string, string) {
	s = strings.TrimLeft(s, whitespace)
	i := strings.IndexAny(s, whitespace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}
