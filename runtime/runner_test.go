package agruntime_test

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/agscript/parser"
	agruntime "github.com/gosuda/agscript/runtime"
)

func newRecorded() (*agruntime.Interpreter, *agruntime.Recorder) {
	it := agruntime.New()
	rec := agruntime.NewRecorder()
	it.SetTextOutput(rec)
	it.SetDialogService(rec)
	it.SetButtonHost(rec)
	return it, rec
}

type failingHost struct {
	*agruntime.Recorder
}

func (failingHost) EnterEventLoop() error {
	return errors.New("display unavailable")
}

func TestRunEndToEnd(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"x = 10\ny = 20\nprint(x+y)", []string{"30"}},
		{"func add(a,b) return a+b\nprint(add(2,3))", []string{"5"}},
		{"func add(a,b) return a+b\nadd(2,3)", []string{"5"}},
		{"x = 2\nif x > 1 print(\"big\")\nif x > 5 print(\"huge\")", []string{"big"}},
		{"# only a comment\n\n   \n", nil},
		{"print()\nprint(1, \"two\")", []string{"", "1 two"}},
	}
	for _, tc := range cases {
		it, rec := newRecorded()
		res := it.Run(tc.src)
		require.NoError(t, res.LastError, tc.src)
		assert.Equal(t, agruntime.Completed, res.Status, tc.src)
		assert.Equal(t, tc.want, rec.Texts(), tc.src)
		assert.NotEmpty(t, res.RunID)
	}
}

func TestRunAbortsOnFirstError(t *testing.T) {
	it, rec := newRecorded()
	res := it.Run("print(1)\n\nfunc f(a) return a\nf(1, 2)\nprint(2)\nbutton b \"B\" f(1)")

	assert.Equal(t, agruntime.Failed, res.Status)
	assert.Equal(t, 3, res.LinesExecuted)
	require.Len(t, res.Errors, 1)

	var lineErr *parser.LineError
	require.True(t, errors.As(res.LastError, &lineErr))
	assert.Equal(t, 4, lineErr.Line)
	assert.Equal(t, "f(1, 2)", lineErr.Text)
	assert.Equal(t, "ArityError", agruntime.ErrorKind(res.LastError))

	assert.Equal(t, []string{"1"}, rec.Texts())
	assert.Empty(t, rec.ButtonNames())
	assert.Equal(t, 0, rec.Loops())
}

func TestRunReportsLexAndParseErrors(t *testing.T) {
	it, _ := newRecorded()
	res := it.Run("x = 'open")
	assert.Equal(t, "LexError", agruntime.ErrorKind(res.LastError))
	assert.Contains(t, res.LastError.Error(), "line 1")

	res = it.Run("x = 1\nfunc (")
	assert.Equal(t, "ParseError", agruntime.ErrorKind(res.LastError))
	assert.Equal(t, 1, res.LinesExecuted)
}

func TestRunContinueOnError(t *testing.T) {
	it, rec := newRecorded()
	it.SetErrorPolicy(agruntime.ContinueOnError)
	res := it.Run("print(1)\nprint(z)\nprint(int(\"q\"))\nprint(3)")

	assert.Equal(t, agruntime.Failed, res.Status)
	assert.Equal(t, 2, res.LinesExecuted)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(res.Errors[0]))
	assert.Equal(t, "TypeConversionError", agruntime.ErrorKind(res.Errors[1]))
	assert.Equal(t, res.Errors[1], res.LastError)
	assert.Equal(t, []string{"1", "3"}, rec.Texts())
}

func TestRunStartsFresh(t *testing.T) {
	it, _ := newRecorded()
	it.Run("x = 1\nfunc print(a) return a")
	res := it.Run("print(x)")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(res.LastError))

	fn, ok := it.Env().LookupFunction("print")
	require.True(t, ok)
	_, native := fn.(agruntime.NativeFunction)
	assert.True(t, native)
}

func TestButtonsRegisteredOncePerName(t *testing.T) {
	it, rec := newRecorded()
	src := `func f() return "first"
func g() return "second"
button b1 "Click" f()
button b2 "Other" f()
button b1 "Clicked" g()`
	res := it.Run(src)
	require.NoError(t, res.LastError)

	assert.Equal(t, []string{"b1", "b2"}, rec.ButtonNames())
	assert.Equal(t, 1, rec.Registrations("b1"))
	assert.Equal(t, 1, rec.Registrations("b2"))
	assert.Equal(t, "Clicked", rec.Label("b1"))
	assert.Equal(t, 1, rec.Loops())
	assert.Len(t, it.Env().Buttons(), 2)

	require.True(t, rec.Click("b1"))
	assert.Equal(t, []string{"second"}, rec.Messages())
}

func TestNoEventLoopWithoutButtons(t *testing.T) {
	it, rec := newRecorded()
	it.Run("x = 1")
	assert.Equal(t, 0, rec.Loops())
}

func TestEventLoopFailure(t *testing.T) {
	it := agruntime.New()
	it.SetButtonHost(failingHost{agruntime.NewRecorder()})
	res := it.Run(`button b "B" 1`)
	assert.Equal(t, agruntime.Failed, res.Status)
	assert.Contains(t, res.LastError.Error(), "display unavailable")
	assert.Equal(t, 1, res.LinesExecuted)
}

func TestClickSeesLatestState(t *testing.T) {
	it, rec := newRecorded()
	rec.QueueClicks("show", "show", "quiet", "broken", "missing")
	src := `n = 1
func shown(v) return "n is " + v
button show "Show" shown(n)
button quiet "Nothing" print("side effect")
button broken "Broken" int("nope")`
	res := it.Run(src)
	require.NoError(t, res.LastError)

	assert.Equal(t, []string{"n is 1", "n is 1"}, rec.Messages())
	assert.Equal(t, []string{
		"side effect",
		`Error: cannot convert string "nope" to integer`,
	}, rec.Texts())
	assert.Equal(t, []string{
		`cannot convert string "nope" to integer`,
		"no button named missing",
	}, rec.Errors())

	_, err := it.Click("missing")
	assert.Equal(t, "UndefinedNameError", agruntime.ErrorKind(err))
	assert.Equal(t, `Error: undefined button "missing"`, rec.Texts()[2])

	require.NoError(t, it.RunLine("n = 5"))
	v, err := it.Click("show")
	require.NoError(t, err)
	assert.Equal(t, "n is 5", v.String())
}

func TestRunLineSyncsChangedButtons(t *testing.T) {
	it, rec := newRecorded()
	require.NoError(t, it.RunLine(`button go "Go" 1`))
	assert.Equal(t, 1, rec.Registrations("go"))
	require.NoError(t, it.RunLine("x = 2"))
	assert.Equal(t, 1, rec.Registrations("go"))
	require.NoError(t, it.RunLine(`button go "Go again" x`))
	assert.Equal(t, 2, rec.Registrations("go"))
	assert.Equal(t, "Go again", rec.Label("go"))
	assert.Equal(t, 0, rec.Loops())

	require.NoError(t, it.RunLine("x + 1"))
	assert.Equal(t, []string{"3"}, rec.Texts())

	err := it.RunLine("y")
	var lineErr *parser.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 5, lineErr.Line)
}

func TestConcurrentClicks(t *testing.T) {
	it, rec := newRecorded()
	res := it.Run("count = 0\nfunc inc(n) return n + 1\nbutton b \"B\" inc(count)")
	require.NoError(t, res.LastError)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec.Click("b")
		}()
		go func() {
			defer wg.Done()
			_ = it.RunLine("count = count + 1")
		}()
	}
	wg.Wait()
	count, ok := it.Env().GetVariable("count")
	require.True(t, ok)
	assert.Equal(t, agruntime.Int(50), count)
	assert.Len(t, rec.Messages(), 50)
}

func TestRunLogsWithRunID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	it, _ := newRecorded()
	it.SetLogger(logger)

	res := it.Run("x = 1\nprint(y)")
	require.Error(t, res.LastError)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, res.RunID, entry.Data["run"])
	assert.Equal(t, 2, entry.Data["line"])
}

func TestSettersWhileClicking(t *testing.T) {
	it, rec := newRecorded()
	res := it.Run("func show(v) return v\nbutton b \"B\" show(who)")
	require.NoError(t, res.LastError)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec.Click("b")
		}()
		go func(i int) {
			defer wg.Done()
			it.SetLenient(i%2 == 0)
			it.SetTextOutput(rec)
			it.SetDialogService(rec)
			it.SetErrorPolicy(agruntime.AbortOnError)
		}(i)
	}
	wg.Wait()
	assert.Len(t, rec.Events(), 1+20+len(rec.Errors()))

	it.SetLenient(true)
	v, err := it.Click("b")
	require.NoError(t, err)
	assert.Equal(t, "who", v.String())
}
