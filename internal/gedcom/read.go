package gedcom

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadTree parses all of r into a Tree and folds its continuation lines.
// The first structural error aborts the read.
func ReadTree(r io.Reader) (*Tree, error) {
	p := NewParser(r)
	t := NewTree()
	for p.Next() {
		if err := t.Append(p.Line()); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.LineNumber = p.lineNo
				pe.Text = p.text
			}
			return nil, err
		}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	Concatenate(t)
	return t, nil
}

// ReadFile opens path and reads it with ReadTree.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gedcom: %w", err)
	}
	defer f.Close()

	t, err := ReadTree(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}
