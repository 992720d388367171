package agruntime

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

func (it *Interpreter) registerNatives() {
	natives := []NativeFunction{
		{Name: "print", Arity: -1, Impl: it.nativePrint},
		{Name: "msgbox", Arity: 1, Impl: it.nativeMsgbox},
		{Name: "int", Arity: 1, Impl: nativeInt},
		{Name: "float", Arity: 1, Impl: nativeFloat},
		{Name: "str", Arity: 1, Impl: nativeStr},
		{Name: "len", Arity: 1, Impl: nativeLen},
	}
	for _, fn := range natives {
		it.env.DefineFunction(fn)
	}
}

func (it *Interpreter) nativePrint(args []Value) (Value, error) {
	it.out.Write(append([]Value(nil), args...))
	return None(), nil
}

func (it *Interpreter) nativeMsgbox(args []Value) (Value, error) {
	it.dialogs.ShowMessage("Message", args[0].String())
	return None(), nil
}

func nativeInt(args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case IntKind:
		return v, nil
	case BoolKind:
		return Int(v.Int64()), nil
	case FloatKind:
		if i, ok := truncFloat(v.Float64()); ok {
			return Int(i), nil
		}
	case StringKind:
		s := strings.TrimSpace(v.String())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if i, ok := truncFloat(f); ok {
				return Int(i), nil
			}
		}
	}
	return Value{}, &TypeConversionError{Value: v, Target: "integer"}
}

// truncFloat drops the fraction of f and reports false when the result is
// outside the int64 range.
func truncFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || f < -9.223372036854775808e18 || f >= 9.223372036854775808e18 {
		return 0, false
	}
	return int64(f), true
}

func nativeFloat(args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case IntKind, FloatKind, BoolKind:
		return Float(v.Float64()), nil
	case StringKind:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64); err == nil {
			return Float(f), nil
		}
	}
	return Value{}, &TypeConversionError{Value: v, Target: "float"}
}

func nativeStr(args []Value) (Value, error) {
	return Str(args[0].String()), nil
}

func nativeLen(args []Value) (Value, error) {
	if args[0].Kind() != StringKind {
		return Value{}, evalErrorf("len expects a string, got %s", args[0].Kind())
	}
	return Int(int64(utf8.RuneCountInString(args[0].String()))), nil
}
