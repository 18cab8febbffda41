package jsonparser

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the sentinel all grammar/structural failures wrap. Once a
	// parser has returned an error satisfying errors.Is(err, ErrSyntax), it
	// is dead: IsDead reports true and Exec will refuse to make progress.
	ErrSyntax = errors.New("jsonparser: syntax error")

	// ErrClosed is returned by Exec once Close has been called.
	ErrClosed = errors.New("jsonparser: parser closed")
)

// SyntaxError reports the byte offset (relative to the buf passed to the
// Exec call that produced it) of the input byte that killed the parser.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonparser: syntax error at byte %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxErrorf(offset int, format string, args ...interface{}) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
