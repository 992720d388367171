package agruntime_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/agscript/parser"
	agruntime "github.com/gosuda/agscript/runtime"
)

func mustExec(t *testing.T, it *agruntime.Interpreter, line string) (agruntime.Value, bool) {
	t.Helper()
	stmt, err := parser.ParseLine(line)
	require.NoError(t, err, line)
	v, ok, err := it.Execute(stmt)
	require.NoError(t, err, line)
	return v, ok
}

func execErr(t *testing.T, it *agruntime.Interpreter, line string) error {
	t.Helper()
	stmt, err := parser.ParseLine(line)
	require.NoError(t, err, line)
	_, _, err = it.Execute(stmt)
	require.Error(t, err, line)
	return err
}

func evalLine(t *testing.T, it *agruntime.Interpreter, line string) agruntime.Value {
	t.Helper()
	v, ok := mustExec(t, it, line)
	require.True(t, ok, line)
	return v
}

func TestArithmeticPromotion(t *testing.T) {
	it := agruntime.New()
	cases := []struct {
		expr string
		kind agruntime.ValueKind
		want string
	}{
		{"7 + 3", agruntime.IntKind, "10"},
		{"7 - 10", agruntime.IntKind, "-3"},
		{"6 * 7", agruntime.IntKind, "42"},
		{"7 / 2", agruntime.FloatKind, "3.5"},
		{"8 / 2", agruntime.FloatKind, "4.0"},
		{"7 % 3", agruntime.IntKind, "1"},
		{"-7 % 3", agruntime.IntKind, "2"},
		{"1.5 + 1", agruntime.FloatKind, "2.5"},
		{"2 * 0.25", agruntime.FloatKind, "0.5"},
		{"-(2 + 3)", agruntime.IntKind, "-5"},
		{`"a" + 1`, agruntime.StringKind, "a1"},
		{`1.5 + "x"`, agruntime.StringKind, "1.5x"},
		{`"n=" + none`, agruntime.StringKind, "n=none"},
		{"1 < 2", agruntime.BoolKind, "true"},
		{"2 <= 1.5", agruntime.BoolKind, "false"},
		{`"abc" < "abd"`, agruntime.BoolKind, "true"},
		{"1 == 1.0", agruntime.BoolKind, "true"},
		{`1 == "1"`, agruntime.BoolKind, "false"},
		{"none == none", agruntime.BoolKind, "true"},
		{"true != false", agruntime.BoolKind, "true"},
		{"1 and 0", agruntime.BoolKind, "false"},
		{`"" or 3`, agruntime.BoolKind, "true"},
		{"not 0", agruntime.BoolKind, "true"},
		{"!\"x\"", agruntime.BoolKind, "false"},
		{"9223372036854775806 + 1", agruntime.IntKind, "9223372036854775807"},
		{"-9223372036854775807 - 1", agruntime.IntKind, "-9223372036854775808"},
		{"-4611686018427387904 * 2", agruntime.IntKind, "-9223372036854775808"},
		{"3037000499 * 3037000499", agruntime.IntKind, "9223372030926249001"},
		{"1e3", agruntime.FloatKind, "1000.0"},
		{"2.5E-1 + 1", agruntime.FloatKind, "1.25"},
	}
	for _, tc := range cases {
		v := evalLine(t, it, tc.expr)
		assert.Equal(t, tc.kind, v.Kind(), tc.expr)
		assert.Equal(t, tc.want, v.String(), tc.expr)
	}
}

func TestEvaluationErrors(t *testing.T) {
	it := agruntime.New()
	for _, line := range []string{
		`"a" - 1`,
		`"a" * 2`,
		`1 < "2"`,
		`true + 1`,
		`-"x"`,
		`1 / 0`,
		`5 % 0`,
		`len(5)`,
	} {
		err := execErr(t, it, line)
		var evalErr *agruntime.EvaluationError
		assert.True(t, errors.As(err, &evalErr), "%s: %v", line, err)
		assert.Equal(t, "EvaluationError", agruntime.ErrorKind(err))
	}
}

func TestIntegerOverflow(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "m = -9223372036854775807 - 1")
	for _, line := range []string{
		"9223372036854775807 + 1",
		"-9223372036854775807 - 2",
		"m - 1",
		"9223372036854775807 - -1",
		"3037000500 * 3037000500",
		"m * -1",
		"-1 * m",
		"-m",
		"x = 9223372036854775807 * 2",
	} {
		err := execErr(t, it, line)
		var evalErr *agruntime.EvaluationError
		require.True(t, errors.As(err, &evalErr), "%s: %v", line, err)
		assert.Contains(t, err.Error(), "integer overflow", line)
	}
	_, found := it.Env().GetVariable("x")
	assert.False(t, found)
	assert.Equal(t, agruntime.Int(0), evalLine(t, it, "m % -1"))
}

func TestShortCircuit(t *testing.T) {
	it := agruntime.New()
	assert.Equal(t, "false", evalLine(t, it, "false and missing").String())
	assert.Equal(t, "true", evalLine(t, it, "true or missing()").String())
}

func TestAssignmentEqualsEvaluation(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "a = 4")
	for _, expr := range []string{"a * 2 + 1", `"v" + a`, "a / 8", "a > 3"} {
		before := evalLine(t, it, expr)
		v, ok := mustExec(t, it, "n = "+expr)
		assert.False(t, ok)
		assert.True(t, v.IsNone())
		got, found := it.Env().GetVariable("n")
		require.True(t, found)
		assert.Equal(t, before, got, expr)
	}
	mustExec(t, it, `a = "now a string"`)
	got, _ := it.Env().GetVariable("a")
	assert.Equal(t, agruntime.StringKind, got.Kind())
}

func TestUserFunctionsAndArity(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "func f(a,b) return a+b")
	assert.Equal(t, agruntime.Int(7), evalLine(t, it, "f(3,4)"))

	err := execErr(t, it, "f(3)")
	var arityErr *agruntime.ArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 2, arityErr.Want)
	assert.Equal(t, 1, arityErr.Got)

	v, err := it.CallFunction("f", agruntime.Int(1), agruntime.Int(1))
	require.NoError(t, err)
	assert.Equal(t, agruntime.Int(2), v)
}

func TestParamsShadowGlobalsWithoutMutating(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "a = 100")
	mustExec(t, it, "k = 5")
	mustExec(t, it, "func f(a) return a + k")
	assert.Equal(t, agruntime.Int(6), evalLine(t, it, "f(1)"))

	a, _ := it.Env().GetVariable("a")
	assert.Equal(t, agruntime.Int(100), a)
	mustExec(t, it, "func id(p) return p")
	evalLine(t, it, "id(3)")
	_, leaked := it.Env().GetVariable("p")
	assert.False(t, leaked)

	err := execErr(t, it, "g = a + b")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(err))
}

func TestFunctionLastDefinitionWins(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, `func greet() return "hi"`)
	assert.Equal(t, "hi", evalLine(t, it, "greet()").String())
	mustExec(t, it, `func greet() return "hello"`)
	assert.Equal(t, "hello", evalLine(t, it, "greet()").String())
}

func TestNativeShadowing(t *testing.T) {
	it := agruntime.New()
	rec := agruntime.NewRecorder()
	it.SetTextOutput(rec)
	mustExec(t, it, "func print(x) return x * 2")
	assert.Equal(t, agruntime.Int(8), evalLine(t, it, "print(4)"))
	assert.Empty(t, rec.Texts())

	fn, ok := it.Env().LookupFunction("print")
	require.True(t, ok)
	_, isUser := fn.(agruntime.UserFunction)
	assert.True(t, isUser)
}

func TestUndefinedNames(t *testing.T) {
	it := agruntime.New()
	err := execErr(t, it, "print(z)")
	var undef *agruntime.UndefinedNameError
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, "z", undef.Name)
	assert.Equal(t, "variable", undef.What)

	err = execErr(t, it, "nothing(1)")
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, "function", undef.What)
}

func TestLenientUndefinedNames(t *testing.T) {
	it := agruntime.New()
	it.SetLenient(true)
	assert.Equal(t, agruntime.Str("hello"), evalLine(t, it, "hello"))
	err := execErr(t, it, "nothing(1)")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(err))
}

func TestRecursionDepthLimit(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "func loop(n) return loop(n + 1)")
	err := execErr(t, it, "loop(0)")
	assert.Equal(t, "EvaluationError", agruntime.ErrorKind(err))
	assert.Contains(t, err.Error(), "maximum call depth")

	mustExec(t, it, "func down(n) return n")
	assert.Equal(t, agruntime.Int(3), evalLine(t, it, "down(3)"))
}

func TestConditional(t *testing.T) {
	it := agruntime.New()
	rec := agruntime.NewRecorder()
	it.SetTextOutput(rec)

	mustExec(t, it, `if 1>0 print("yes")`)
	mustExec(t, it, `if 0>1 print("no")`)
	mustExec(t, it, `if "" print("empty")`)
	mustExec(t, it, `if 0.0 print("zero")`)
	mustExec(t, it, `if none print("none")`)
	mustExec(t, it, `if 1 y = 1`)
	assert.Equal(t, []string{"yes"}, rec.Texts())

	y, ok := it.Env().GetVariable("y")
	require.True(t, ok)
	assert.Equal(t, agruntime.Int(1), y)

	v, ok := mustExec(t, it, "if y == 1 y + 41")
	require.True(t, ok)
	assert.Equal(t, agruntime.Int(42), v)
}

func TestConditionalErrorsPropagate(t *testing.T) {
	it := agruntime.New()
	err := execErr(t, it, "if 1 print(missing)")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(err))
}

func TestDefinitionsAreLazy(t *testing.T) {
	it := agruntime.New()
	mustExec(t, it, "func bad() return missing + 1")
	mustExec(t, it, `button b "B" missing()`)
	err := execErr(t, it, "bad()")
	assert.Contains(t, err.Error(), "in function bad")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(err))
}

func TestNatives(t *testing.T) {
	it := agruntime.New()
	rec := agruntime.NewRecorder()
	it.SetTextOutput(rec)
	it.SetDialogService(rec)

	v, ok := mustExec(t, it, `print("a", 1, 2.5, true, none)`)
	assert.True(t, ok)
	assert.True(t, v.IsNone())
	assert.Equal(t, []string{"a 1 2.5 true none"}, rec.Texts())

	mustExec(t, it, `msgbox("hi " + 3)`)
	assert.Equal(t, []string{"hi 3"}, rec.Messages())

	assert.Equal(t, agruntime.Int(42), evalLine(t, it, `int(" 42 ")`))
	assert.Equal(t, agruntime.Int(3), evalLine(t, it, `int("3.9")`))
	assert.Equal(t, agruntime.Int(-2), evalLine(t, it, `int(-2.7)`))
	assert.Equal(t, agruntime.Int(1), evalLine(t, it, `int(true)`))
	assert.Equal(t, agruntime.Float(2), evalLine(t, it, `float("2")`))
	assert.Equal(t, agruntime.Str("12"), evalLine(t, it, `str(12)`))
	assert.Equal(t, agruntime.Int(5), evalLine(t, it, `len("héllo")`))

	assert.Equal(t, agruntime.Int(1000), evalLine(t, it, `int("1e3")`))
	assert.Equal(t, agruntime.Int(-9000000000000000000), evalLine(t, it, `int(-9e18)`))

	for _, line := range []string{
		`int("abc")`,
		`int(none)`,
		`float("x1")`,
		`int("1e300")`,
		`int("-1e19")`,
		`int("99999999999999999999")`,
		`int(100000000000000000000.0)`,
		`int(9223372036854775807 * 1.0)`,
		`int(1e300)`,
	} {
		err := execErr(t, it, line)
		var convErr *agruntime.TypeConversionError
		assert.True(t, errors.As(err, &convErr), line)
	}

	err := execErr(t, it, `msgbox(1, 2)`)
	assert.Equal(t, "ArityError", agruntime.ErrorKind(err))
}

func TestIndependentInterpreters(t *testing.T) {
	a := agruntime.New()
	b := agruntime.New()
	mustExec(t, a, "x = 1")
	_, ok := b.Env().GetVariable("x")
	assert.False(t, ok)
}
