package gedcom

import (
	"errors"
	"fmt"
)

// Structural errors. Any of them aborts the load of the file being read.
var (
	// ErrIllegalLevel: level token missing, not a number, or outside [0,99].
	ErrIllegalLevel = errors.New("illegal level")
	// ErrMissingTag: no tag token on a line.
	ErrMissingTag = errors.New("missing tag")
	// ErrInvalidID: an id on a line whose level is not 0.
	ErrInvalidID = errors.New("id not allowed above level 0")
	// ErrInvalidLevel: a line more than one level deeper than its predecessor.
	ErrInvalidLevel = errors.New("invalid level sequence")
	// ErrRead: the underlying reader failed.
	ErrRead = errors.New("read error")
)

// ParseError reports where a structural error occurred. Kind is one of the
// sentinel errors above and is what Unwrap returns, so callers can test it
// with errors.Is.
type ParseError struct {
	Kind       error
	LineNumber int    // 1-based physical line number, 0 if unknown
	Text       string // the offending physical line
	Err        error  // underlying cause, if any
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.LineNumber > 0 {
		return fmt.Sprintf("gedcom line %d: %s: %q", e.LineNumber, msg, e.Text)
	}
	if e.Text != "" {
		return fmt.Sprintf("gedcom: %s: %q", msg, e.Text)
	}
	return "gedcom: " + msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
