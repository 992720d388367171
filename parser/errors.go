package parser

import (
	"fmt"
	"unicode/utf8"
)

// LexError reports a line that could not be split into tokens.
type LexError struct {
	Pos  int
	Msg  string
	Text string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at column %d: %s", e.Column(), e.Msg)
}

// Column is the 1-based character column of Pos within Text.
func (e *LexError) Column() int {
	if e.Pos < 0 || e.Pos > len(e.Text) {
		return e.Pos + 1
	}
	return utf8.RuneCountInString(e.Text[:e.Pos]) + 1
}

// ParseError reports a token run that matches no statement or expression form.
type ParseError struct {
	Msg  string
	Text string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return "parse error: " + e.Msg
	}
	return fmt.Sprintf("parse error in %q: %s", e.Text, e.Msg)
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// LineError attaches the 1-based source line number and text to an error.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors.Cause reach the underlying error.
func (e *LineError) Cause() error {
	return e.Err
}
