package gedcom

import (
	"strconv"
	"strings"
)

// Line is one parsed GEDCOM entry. It carries either a value or a pointer,
// never both; either may be empty. Line is an immutable value: folding a
// continuation produces a new Line.
type Line struct {
	level     int
	id        string
	tagString string
	tag       Tag
	value     string
	pointer   string
}

// NewLine builds a Line from its raw fields. The id and value are given as
// they appear in the file: "@I1@" is stored as the id "I1", a value of the
// form "@X@" becomes a pointer, and "@@" in a plain value unescapes to "@".
func NewLine(level int, id, tag, value string) Line {
	l := Line{
		level:     level,
		id:        pointerOf(id),
		tagString: tag,
		tag:       ParseTag(tag),
	}
	if p := pointerOf(value); p != "" {
		l.pointer = p
	} else {
		l.value = strings.ReplaceAll(value, "@@", "@")
	}
	return l
}

// pointerOf returns the label inside "@label@", or "" if s is not a well
// formed cross-reference.
func pointerOf(s string) string {
	if len(s) < 3 || s[0] != '@' || s[len(s)-1] != '@' {
		return ""
	}
	p := s[1 : len(s)-1]
	if strings.IndexByte(p, '@') >= 0 {
		return ""
	}
	return p
}

func (l Line) Level() int        { return l.level }
func (l Line) ID() string        { return l.id }
func (l Line) HasID() bool       { return l.id != "" }
func (l Line) Tag() Tag          { return l.tag }
func (l Line) TagString() string { return l.tagString }
func (l Line) Value() string     { return l.value }
func (l Line) Pointer() string   { return l.pointer }
func (l Line) IsPointer() bool   { return l.pointer != "" }

// withValue returns a copy of l carrying v as its value.
func (l Line) withValue(v string) Line {
	l.value = v
	return l
}

func (l Line) cont(s string) Line { return l.withValue(l.value + "\n" + s) }
func (l Line) conc(s string) Line { return l.withValue(l.value + s) }

func (l Line) String() string {
	var sb strings.Builder
	if l.HasID() {
		sb.WriteString(l.id)
		sb.WriteString(": ")
	}
	sb.WriteString(l.tagString)
	sb.WriteByte(' ')
	if l.IsPointer() {
		sb.WriteString("--> ")
		sb.WriteString(l.pointer)
	} else {
		sb.WriteString(escapeNewlines(l.value))
	}
	return sb.String()
}

// dump writes the debugging form used by Tree.Dump.
func (l Line) dump(sb *strings.Builder) {
	sb.WriteString(strconv.Itoa(l.level))
	sb.WriteByte(',')
	if l.HasID() {
		sb.WriteString("id=")
		sb.WriteString(l.id)
		sb.WriteByte(',')
	}
	sb.WriteString("tag=")
	sb.WriteString(l.tagString)
	sb.WriteByte(',')
	if l.IsPointer() {
		sb.WriteString("pointer=")
		sb.WriteString(l.pointer)
	} else {
		sb.WriteString(`value="`)
		sb.WriteString(escapeNewlines(l.value))
		sb.WriteByte('"')
	}
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "[NEWLINE]")
}
