package agruntime

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/gosuda/agscript/ast"
)

func (it *Interpreter) eval(e ast.Expr, locals map[string]Value) (Value, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return Int(ex.Value), nil
	case ast.FloatLit:
		return Float(ex.Value), nil
	case ast.StringLit:
		return Str(ex.Value), nil
	case ast.BoolLit:
		return Bool(ex.Value), nil
	case ast.NoneLit:
		return None(), nil
	case ast.Ident:
		return it.lookup(ex.Name, locals)
	case ast.UnaryExpr:
		v, err := it.eval(ex.Expr, locals)
		if err != nil {
			return Value{}, err
		}
		switch ex.Op {
		case "-":
			switch v.Kind() {
			case IntKind:
				if v.Int64() == math.MinInt64 {
					return Value{}, errIntOverflow("-")
				}
				return Int(-v.Int64()), nil
			case FloatKind:
				return Float(-v.Float64()), nil
			default:
				return Value{}, evalErrorf("bad operand type for unary -: %s", v.Kind())
			}
		case "!":
			return Bool(!v.Truthy()), nil
		default:
			return Value{}, evalErrorf("unsupported unary operator %q", ex.Op)
		}
	case ast.BinaryExpr:
		switch ex.Op {
		case "&&":
			left, err := it.eval(ex.Left, locals)
			if err != nil {
				return Value{}, err
			}
			if !left.Truthy() {
				return Bool(false), nil
			}
			right, err := it.eval(ex.Right, locals)
			if err != nil {
				return Value{}, err
			}
			return Bool(right.Truthy()), nil
		case "||":
			left, err := it.eval(ex.Left, locals)
			if err != nil {
				return Value{}, err
			}
			if left.Truthy() {
				return Bool(true), nil
			}
			right, err := it.eval(ex.Right, locals)
			if err != nil {
				return Value{}, err
			}
			return Bool(right.Truthy()), nil
		default:
			left, err := it.eval(ex.Left, locals)
			if err != nil {
				return Value{}, err
			}
			right, err := it.eval(ex.Right, locals)
			if err != nil {
				return Value{}, err
			}
			return evalBinary(ex.Op, left, right)
		}
	case ast.CallExpr:
		return it.evalCall(ex, locals)
	default:
		return Value{}, errors.Errorf("unsupported expression %T", e)
	}
}

func (it *Interpreter) lookup(name string, locals map[string]Value) (Value, error) {
	if v, ok := locals[name]; ok {
		return v, nil
	}
	if v, ok := it.env.GetVariable(name); ok {
		return v, nil
	}
	if it.lenient {
		return Str(name), nil
	}
	return Value{}, &UndefinedNameError{Name: name, What: "variable"}
}

func (it *Interpreter) evalCall(ex ast.CallExpr, locals map[string]Value) (Value, error) {
	fn, ok := it.env.LookupFunction(ex.Name)
	if !ok {
		return Value{}, &UndefinedNameError{Name: ex.Name, What: "function"}
	}
	args := make([]Value, 0, len(ex.Args))
	for _, ae := range ex.Args {
		v, err := it.eval(ae, locals)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return it.invoke(fn, args)
}

func (it *Interpreter) invoke(fn Function, args []Value) (Value, error) {
	switch f := fn.(type) {
	case NativeFunction:
		if f.Arity >= 0 && len(args) != f.Arity {
			return Value{}, &ArityError{Name: f.Name, Want: f.Arity, Got: len(args)}
		}
		return f.Impl(args)
	case UserFunction:
		if len(args) != len(f.Params) {
			return Value{}, &ArityError{Name: f.Name, Want: len(f.Params), Got: len(args)}
		}
		if it.depth >= maxCallDepth {
			return Value{}, evalErrorf("maximum call depth %d exceeded in %s", maxCallDepth, f.Name)
		}
		scope := make(map[string]Value, len(f.Params))
		for i, p := range f.Params {
			scope[p] = args[i]
		}
		it.depth++
		defer func() { it.depth-- }()
		v, err := it.eval(f.Body, scope)
		if err != nil {
			return Value{}, errors.WithMessagef(err, "in function %s", f.Name)
		}
		return v, nil
	default:
		return Value{}, errors.Errorf("unsupported function %T", fn)
	}
}

func evalBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return Bool(left.Equal(right)), nil
	case "!=":
		return Bool(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		c, err := compareValues(op, left, right)
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "<":
			return Bool(c < 0), nil
		case "<=":
			return Bool(c <= 0), nil
		case ">":
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}
	case "+":
		if left.Kind() == StringKind || right.Kind() == StringKind {
			return Str(left.String() + right.String()), nil
		}
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		return Value{}, evalErrorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
	if op == "/" {
		if right.Float64() == 0 {
			return Value{}, evalErrorf("division by zero")
		}
		return Float(left.Float64() / right.Float64()), nil
	}
	if left.Kind() == IntKind && right.Kind() == IntKind {
		a, b := left.Int64(), right.Int64()
		switch op {
		case "+", "-", "*":
			c, ok := checkedInt(op, a, b)
			if !ok {
				return Value{}, errIntOverflow(op)
			}
			return Int(c), nil
		case "%":
			if b == 0 {
				return Value{}, evalErrorf("modulo by zero")
			}
			m := a % b
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return Int(m), nil
		}
	} else {
		a, b := left.Float64(), right.Float64()
		switch op {
		case "+":
			return Float(a + b), nil
		case "-":
			return Float(a - b), nil
		case "*":
			return Float(a * b), nil
		case "%":
			if b == 0 {
				return Value{}, evalErrorf("modulo by zero")
			}
			m := math.Mod(a, b)
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return Float(m), nil
		}
	}
	return Value{}, evalErrorf("unsupported binary operator %q", op)
}

// checkedInt applies an integer operator and reports false when the result
// does not fit in 64 bits.
func checkedInt(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		c := a + b
		return c, (b >= 0) == (c >= a)
	case "-":
		c := a - b
		return c, (b >= 0) == (c <= a)
	case "*":
		if a == 0 || b == 0 {
			return 0, true
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, false
		}
		c := a * b
		return c, c/b == a
	}
	return 0, false
}

func errIntOverflow(op string) error {
	return evalErrorf("integer overflow in %s", op)
}

func compareValues(op string, left, right Value) (int, error) {
	switch {
	case left.Kind() == IntKind && right.Kind() == IntKind:
		a, b := left.Int64(), right.Int64()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case left.IsNumeric() && right.IsNumeric():
		a, b := left.Float64(), right.Float64()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case left.Kind() == StringKind && right.Kind() == StringKind:
		return strings.Compare(left.String(), right.String()), nil
	default:
		return 0, evalErrorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
}
