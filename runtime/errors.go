package agruntime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gosuda/agscript/parser"
)

// UndefinedNameError reports a variable or function that was never defined.
type UndefinedNameError struct {
	Name string
	What string // variable|function|button
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("undefined %s %q", e.What, e.Name)
}

type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function %s expects %d arguments but got %d", e.Name, e.Want, e.Got)
}

type TypeConversionError struct {
	Value  Value
	Target string
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %q to %s", e.Value.Kind(), e.Value.String(), e.Target)
}

// EvaluationError reports an operator or builtin applied to values it does
// not accept.
type EvaluationError struct {
	Msg string
}

func (e *EvaluationError) Error() string {
	return e.Msg
}

func evalErrorf(format string, args ...any) error {
	return &EvaluationError{Msg: fmt.Sprintf(format, args...)}
}

// ErrorKind names the script error kind carried by err, or "Error" when err
// is not one of the interpreter's error types.
func ErrorKind(err error) string {
	var (
		lexErr   *parser.LexError
		parseErr *parser.ParseError
		undefErr *UndefinedNameError
		arityErr *ArityError
		convErr  *TypeConversionError
		evalErr  *EvaluationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &lexErr):
		return "LexError"
	case errors.As(err, &parseErr):
		return "ParseError"
	case errors.As(err, &undefErr):
		return "UndefinedNameError"
	case errors.As(err, &arityErr):
		return "ArityError"
	case errors.As(err, &convErr):
		return "TypeConversionError"
	case errors.As(err, &evalErr):
		return "EvaluationError"
	default:
		return "Error"
	}
}
