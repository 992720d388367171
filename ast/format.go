package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a statement as a compact s-expression for tooling output.
func Format(stmt Statement) string {
	switch s := stmt.(type) {
	case AssignStmt:
		return fmt.Sprintf("(assign %s %s)", s.Name, FormatExpr(s.Expr))
	case FuncDefStmt:
		return fmt.Sprintf("(func %s (%s) %s)", s.Name, strings.Join(s.Params, " "), FormatExpr(s.Body))
	case IfStmt:
		return fmt.Sprintf("(if %s %s)", FormatExpr(s.Cond), Format(s.Action))
	case ButtonStmt:
		return fmt.Sprintf("(button %s %s %s)", s.Name, strconv.Quote(s.Label), FormatExpr(s.Action))
	case ExprStmt:
		return FormatExpr(s.Expr)
	case nil:
		return "()"
	default:
		return fmt.Sprintf("<%T>", stmt)
	}
}

func FormatExpr(e Expr) string {
	switch ex := e.(type) {
	case IntLit:
		return strconv.FormatInt(ex.Value, 10)
	case FloatLit:
		return strconv.FormatFloat(ex.Value, 'g', -1, 64)
	case StringLit:
		return strconv.Quote(ex.Value)
	case BoolLit:
		return strconv.FormatBool(ex.Value)
	case NoneLit:
		return "none"
	case Ident:
		return ex.Name
	case UnaryExpr:
		return fmt.Sprintf("(%s %s)", ex.Op, FormatExpr(ex.Expr))
	case BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", ex.Op, FormatExpr(ex.Left), FormatExpr(ex.Right))
	case CallExpr:
		b := strings.Builder{}
		b.WriteString("(call ")
		b.WriteString(ex.Name)
		for _, a := range ex.Args {
			b.WriteByte(' ')
			b.WriteString(FormatExpr(a))
		}
		b.WriteByte(')')
		return b.String()
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
