package agruntime

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	NoneKind ValueKind = iota
	IntKind
	FloatKind
	StringKind
	BoolKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "integer"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case BoolKind:
		return "boolean"
	default:
		return "none"
	}
}

// Value is the dynamically typed script value. The zero Value is none.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    bool
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Float(v float64) Value {
	return Value{kind: FloatKind, f: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

func Bool(v bool) Value {
	return Value{kind: BoolKind, b: v}
}

func None() Value {
	return Value{}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNone() bool {
	return v.kind == NoneKind
}

func (v Value) IsNumeric() bool {
	return v.kind == IntKind || v.kind == FloatKind
}

func (v Value) Int64() int64 {
	switch v.kind {
	case IntKind:
		return v.i
	case FloatKind:
		return int64(v.f)
	case BoolKind:
		if v.b {
			return 1
		}
	}
	return 0
}

func (v Value) Float64() float64 {
	if v.kind == FloatKind {
		return v.f
	}
	return float64(v.Int64())
}

func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case StringKind:
		return v.s
	case BoolKind:
		return strconv.FormatBool(v.b)
	default:
		return "none"
	}
}

func (v Value) Truthy() bool {
	switch v.kind {
	case IntKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	case StringKind:
		return v.s != ""
	case BoolKind:
		return v.b
	default:
		return false
	}
}

// Equal compares by value; integers and floats compare numerically.
func (v Value) Equal(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		if v.kind == IntKind && o.kind == IntKind {
			return v.i == o.i
		}
		return v.Float64() == o.Float64()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case StringKind:
		return v.s == o.s
	case BoolKind:
		return v.b == o.b
	default:
		return true
	}
}

// formatFloat keeps a trailing ".0" on whole numbers so floats stay
// distinguishable from integers in output.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatValues joins values the way print writes them.
func FormatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
