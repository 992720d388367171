package parser

import (
	"github.com/gosuda/agscript/ast"
)

// ParsedLine is a non-blank source line together with its statement.
type ParsedLine struct {
	Line
	Stmt ast.Statement
}

// ParseSource parses every statement line of a script. Blank and comment
// lines are skipped. The first failing line is returned as a *LineError.
func ParseSource(src string) ([]ParsedLine, error) {
	lines := ToLines(src)
	out := make([]ParsedLine, 0, len(lines))
	for _, l := range lines {
		stmt, err := ParseLine(l.Content)
		if err != nil {
			return nil, &LineError{Line: l.Number, Text: l.Content, Err: err}
		}
		if stmt == nil {
			continue
		}
		out = append(out, ParsedLine{Line: l, Stmt: stmt})
	}
	return out, nil
}

// CheckSource parses every line and returns all failures instead of
// stopping at the first one.
func CheckSource(src string) []error {
	var errs []error
	for _, l := range ToLines(src) {
		if _, err := ParseLine(l.Content); err != nil {
			errs = append(errs, &LineError{Line: l.Number, Text: l.Content, Err: err})
		}
	}
	return errs
}
