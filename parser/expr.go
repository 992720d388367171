package parser

import (
	"strconv"
	"strings"

	"github.com/gosuda/agscript/ast"
)

const maxExprDepth = 256

const unaryPrec = 6

// ParseExpr parses a complete token run as one expression.
func ParseExpr(toks []Token) (ast.Expr, error) {
	if len(toks) == 0 {
		return nil, parseErrorf("missing expression")
	}
	p := &exprParser{tokens: toks}
	expr, err := p.parse(1)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, parseErrorf("unexpected token %q", p.peek().Text)
	}
	return expr, nil
}

type exprParser struct {
	tokens []Token
	pos    int
	depth  int
}

func (p *exprParser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *exprParser) peek() Token {
	if p.atEnd() {
		return Token{}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) next() Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) peekPunct(text string) bool {
	if p.atEnd() {
		return false
	}
	t := p.peek()
	return t.Kind == TokPunct && t.Text == text
}

func (p *exprParser) parse(minPrec int) (ast.Expr, error) {
	p.depth++
	if p.depth > maxExprDepth {
		return nil, parseErrorf("expression nesting too deep near token %q", p.peek().Text)
	}
	defer func() { p.depth-- }()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() {
		op, ok := binaryOp(p.peek())
		if !ok {
			break
		}
		prec := opPrecedence(op)
		if prec < minPrec {
			break
		}
		p.next()
		right, err := p.parse(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parsePrefix() (ast.Expr, error) {
	if p.atEnd() {
		return nil, parseErrorf("unexpected end of expression")
	}
	t := p.next()
	switch t.Kind {
	case TokNumber:
		if strings.ContainsAny(t.Text, ".eE") {
			v, err := strconv.ParseFloat(t.Text, 64)
			if err != nil {
				return nil, parseErrorf("invalid number %q", t.Text)
			}
			return ast.FloatLit{Value: v}, nil
		}
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, parseErrorf("invalid integer %q", t.Text)
		}
		return ast.IntLit{Value: v}, nil
	case TokString:
		return ast.StringLit{Value: t.Text}, nil
	case TokKeyword:
		switch t.Text {
		case "true", "True":
			return ast.BoolLit{Value: true}, nil
		case "false", "False":
			return ast.BoolLit{Value: false}, nil
		case "none", "None":
			return ast.NoneLit{}, nil
		case "not":
			operand, err := p.parse(unaryPrec)
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Op: "!", Expr: operand}, nil
		}
	case TokIdent:
		if !p.peekPunct("(") {
			return ast.Ident{Name: t.Text}, nil
		}
		p.next()
		args, err := p.parseArgs(t.Text)
		if err != nil {
			return nil, err
		}
		return ast.CallExpr{Name: t.Text, Args: args}, nil
	case TokPunct:
		if t.Text == "(" {
			e, err := p.parse(1)
			if err != nil {
				return nil, err
			}
			if !p.peekPunct(")") {
				return nil, parseErrorf("missing )")
			}
			p.next()
			return e, nil
		}
	case TokOperator:
		if t.Text == "-" || t.Text == "!" {
			operand, err := p.parse(unaryPrec)
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Op: t.Text, Expr: operand}, nil
		}
	}
	return nil, parseErrorf("unexpected token %q", t.Text)
}

func (p *exprParser) parseArgs(name string) ([]ast.Expr, error) {
	args := []ast.Expr{}
	if p.peekPunct(")") {
		p.next()
		return args, nil
	}
	for {
		e, err := p.parse(1)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.peekPunct(",") {
			p.next()
			continue
		}
		if p.peekPunct(")") {
			p.next()
			return args, nil
		}
		return nil, parseErrorf("missing ) in call to %s", name)
	}
}

// binaryOp maps a token to its canonical binary operator.
func binaryOp(t Token) (string, bool) {
	switch t.Kind {
	case TokKeyword:
		switch t.Text {
		case "and":
			return "&&", true
		case "or":
			return "||", true
		}
	case TokOperator:
		if opPrecedence(t.Text) > 0 {
			return t.Text, true
		}
	}
	return "", false
}

func opPrecedence(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=", "<", "<=", ">", ">=":
		return 3
	case "+", "-":
		return 4
	case "*", "/", "%":
		return 5
	default:
		return 0
	}
}
