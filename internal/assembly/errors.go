package assembly

import (
	"errors"
	"fmt"
)

// Read-scoped failures detected while scanning.
var (
	ErrNoPlacement    = errors.New("no placement line for read")
	ErrTruncatedRead  = errors.New("truncated read record")
	ErrMissingRead    = errors.New("read entry or DNA not found")
	ErrPlacementShape = errors.New("placement reference and clip spans differ")
	ErrBadQuality     = errors.New("malformed quality values")
)

// SyntaxError is a header line that does not tokenize. The scanner cannot
// resynchronize after one, so it ends the whole file.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// RecordError is a malformed contig record under a valid header. The
// scanner is positioned after the record, so scanning may continue.
type RecordError struct {
	Header Header
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("contig %s (#%d): %v", e.Header.Name, e.Header.Number, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ReadError drops one read of a contig.
type ReadError struct {
	Read string
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s (line %d): %v", e.Read, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Read, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func syntaxErr(l rawLine, msg string) error {
	return &SyntaxError{Line: l.line, Text: l.text, Msg: msg}
}
