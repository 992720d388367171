package parser

import (
	"github.com/pkg/errors"

	"github.com/gosuda/agscript/ast"
)

// ParseLine tokenizes and parses one source line. Blank and comment lines
// return a nil statement and no error.
func ParseLine(line string) (ast.Statement, error) {
	toks, err := Tokenize(line)
	if err != nil {
		var lexErr *LexError
		if errors.As(err, &lexErr) {
			lexErr.Text = line
		}
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}
	stmt, err := ParseStatement(toks)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) && parseErr.Text == "" {
			parseErr.Text = line
		}
		return nil, err
	}
	return stmt, nil
}

// ParseStatement dispatches on the first token of a line.
func ParseStatement(toks []Token) (ast.Statement, error) {
	if len(toks) == 0 {
		return nil, parseErrorf("empty statement")
	}
	first := toks[0]
	if first.Kind == TokKeyword {
		switch first.Text {
		case "func":
			return parseFuncDef(toks)
		case "button":
			return parseButton(toks)
		case "if":
			return parseIf(toks)
		case "return":
			return nil, parseErrorf("return outside of func definition")
		}
	}
	if first.Kind == TokIdent && len(toks) > 1 && isOp(toks[1], "=") {
		if len(toks) == 2 {
			return nil, parseErrorf("missing value in assignment to %s", first.Text)
		}
		value, err := ParseExpr(toks[2:])
		if err != nil {
			return nil, err
		}
		return ast.AssignStmt{Name: first.Text, Expr: value}, nil
	}
	expr, err := ParseExpr(toks)
	if err != nil {
		return nil, err
	}
	return ast.ExprStmt{Expr: expr}, nil
}

func parseFuncDef(toks []Token) (ast.Statement, error) {
	if len(toks) < 2 || toks[1].Kind != TokIdent {
		return nil, parseErrorf("func requires a name")
	}
	name := toks[1].Text
	if len(toks) < 3 || !isPunct(toks[2], "(") {
		return nil, parseErrorf("func %s requires a parameter list", name)
	}
	params := []string{}
	seen := map[string]struct{}{}
	i := 3
	for {
		if i >= len(toks) {
			return nil, parseErrorf("missing ) in parameter list of %s", name)
		}
		if isPunct(toks[i], ")") && len(params) == 0 {
			i++
			break
		}
		if toks[i].Kind != TokIdent {
			return nil, parseErrorf("invalid parameter %q in %s", toks[i].Text, name)
		}
		param := toks[i].Text
		if _, dup := seen[param]; dup {
			return nil, parseErrorf("duplicate parameter %s in %s", param, name)
		}
		seen[param] = struct{}{}
		params = append(params, param)
		i++
		if i < len(toks) && isPunct(toks[i], ",") {
			i++
			continue
		}
		if i < len(toks) && isPunct(toks[i], ")") {
			i++
			break
		}
		return nil, parseErrorf("missing ) in parameter list of %s", name)
	}
	if i < len(toks) && toks[i].Kind == TokKeyword && toks[i].Text == "return" {
		i++
	}
	if i >= len(toks) {
		return nil, parseErrorf("func %s has no body expression", name)
	}
	body, err := ParseExpr(toks[i:])
	if err != nil {
		return nil, err
	}
	return ast.FuncDefStmt{Name: name, Params: params, Body: body}, nil
}

func parseButton(toks []Token) (ast.Statement, error) {
	if len(toks) < 2 || toks[1].Kind != TokIdent {
		return nil, parseErrorf("button requires a name")
	}
	name := toks[1].Text
	var label string
	i := 2
	switch {
	case i < len(toks) && toks[i].Kind == TokString:
		label = toks[i].Text
		i++
	case i+2 < len(toks) && isPunct(toks[i], "(") && toks[i+1].Kind == TokString && isPunct(toks[i+2], ")"):
		// legacy form: button NAME ("LABEL") ACTION
		label = toks[i+1].Text
		i += 3
	default:
		return nil, parseErrorf("button %s requires a quoted label", name)
	}
	if i >= len(toks) {
		return nil, parseErrorf("button %s requires an action", name)
	}
	action, err := ParseExpr(toks[i:])
	if err != nil {
		return nil, err
	}
	return ast.ButtonStmt{Name: name, Label: label, Action: action}, nil
}

func parseIf(toks []Token) (ast.Statement, error) {
	rest := toks[1:]
	split := splitCondition(rest)
	if split <= 0 {
		return nil, parseErrorf("if requires a condition followed by an action")
	}
	cond, err := ParseExpr(rest[:split])
	if err != nil {
		return nil, err
	}
	action, err := ParseStatement(rest[split:])
	if err != nil {
		return nil, err
	}
	return ast.IfStmt{Cond: cond, Action: action}, nil
}

// splitCondition returns the index of the first token that starts the action
// of an if statement, or -1. The action starts at a top-level identifier or
// statement keyword separated by whitespace from a token that ends an operand.
func splitCondition(toks []Token) int {
	depth := 0
	for i, t := range toks {
		if isPunct(t, "(") {
			depth++
			continue
		}
		if isPunct(t, ")") {
			if depth > 0 {
				depth--
			}
			continue
		}
		if i == 0 || depth != 0 || !t.Space {
			continue
		}
		if startsAction(t) && endsOperand(toks[i-1]) {
			return i
		}
	}
	return -1
}

func startsAction(t Token) bool {
	if t.Kind == TokIdent {
		return true
	}
	if t.Kind == TokKeyword {
		switch t.Text {
		case "if", "func", "button":
			return true
		}
	}
	return false
}

func endsOperand(t Token) bool {
	switch t.Kind {
	case TokNumber, TokString, TokIdent:
		return true
	case TokPunct:
		return t.Text == ")"
	case TokKeyword:
		switch t.Text {
		case "true", "false", "none", "True", "False", "None":
			return true
		}
	}
	return false
}

func isOp(t Token, text string) bool {
	return t.Kind == TokOperator && t.Text == text
}

func isPunct(t Token, text string) bool {
	return t.Kind == TokPunct && t.Text == text
}
