package agruntime

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gosuda/agscript/ast"
)

const maxCallDepth = 1000

type ErrorPolicy int

const (
	// AbortOnError stops the run at the first failing line.
	AbortOnError ErrorPolicy = iota
	// ContinueOnError records the failure and moves on to the next line.
	ContinueOnError
)

// Interpreter evaluates statements against its own Environment. Statements
// and button clicks are serialized, so an Interpreter can be shared with a
// host that fires clicks from other goroutines.
type Interpreter struct {
	execMu   sync.Mutex
	env      *Environment
	out      TextOutput
	dialogs  DialogService
	host     ButtonHost
	log      logrus.FieldLogger
	lenient  bool
	policy   ErrorPolicy
	depth    int
	replLine int
}

func New() *Interpreter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	it := &Interpreter{
		out:     discardOutput{},
		dialogs: discardDialogs{},
		host:    nil,
		log:     discard,
		policy:  AbortOnError,
	}
	it.reset()
	return it
}

func (it *Interpreter) reset() {
	it.env = NewEnvironment()
	it.depth = 0
	it.replLine = 0
	it.registerNatives()
}

func (it *Interpreter) Env() *Environment {
	it.execMu.Lock()
	defer it.execMu.Unlock()
	return it.env
}

// The setters below may be called while a host is delivering clicks; they
// take effect from the next statement.

func (it *Interpreter) SetTextOutput(out TextOutput) {
	if out == nil {
		out = discardOutput{}
	}
	it.execMu.Lock()
	it.out = out
	it.execMu.Unlock()
}

func (it *Interpreter) SetDialogService(d DialogService) {
	if d == nil {
		d = discardDialogs{}
	}
	it.execMu.Lock()
	it.dialogs = d
	it.execMu.Unlock()
}

func (it *Interpreter) SetButtonHost(h ButtonHost) {
	it.execMu.Lock()
	it.host = h
	it.execMu.Unlock()
}

func (it *Interpreter) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		return
	}
	it.execMu.Lock()
	it.log = l
	it.execMu.Unlock()
}

// SetLenient makes unknown identifiers evaluate to their own name as a
// string instead of failing.
func (it *Interpreter) SetLenient(on bool) {
	it.execMu.Lock()
	it.lenient = on
	it.execMu.Unlock()
}

func (it *Interpreter) SetErrorPolicy(p ErrorPolicy) {
	it.execMu.Lock()
	it.policy = p
	it.execMu.Unlock()
}

// Execute runs one parsed statement. The bool result reports whether the
// statement produced a value.
func (it *Interpreter) Execute(stmt ast.Statement) (Value, bool, error) {
	it.execMu.Lock()
	defer it.execMu.Unlock()
	return it.exec(stmt)
}

// Evaluate evaluates an expression with optional local bindings layered over
// the global variables.
func (it *Interpreter) Evaluate(e ast.Expr, locals map[string]Value) (Value, error) {
	it.execMu.Lock()
	defer it.execMu.Unlock()
	return it.eval(e, locals)
}

// CallFunction invokes a native or user function by name.
func (it *Interpreter) CallFunction(name string, args ...Value) (Value, error) {
	it.execMu.Lock()
	defer it.execMu.Unlock()
	fn, ok := it.env.LookupFunction(name)
	if !ok {
		return Value{}, &UndefinedNameError{Name: name, What: "function"}
	}
	return it.invoke(fn, args)
}

func (it *Interpreter) exec(stmt ast.Statement) (Value, bool, error) {
	switch s := stmt.(type) {
	case ast.AssignStmt:
		v, err := it.eval(s.Expr, nil)
		if err != nil {
			return Value{}, false, err
		}
		it.env.SetVariable(s.Name, v)
		return Value{}, false, nil
	case ast.FuncDefStmt:
		it.env.DefineFunction(UserFunction{Name: s.Name, Params: s.Params, Body: s.Body})
		it.log.WithField("func", s.Name).Debug("function defined")
		return Value{}, false, nil
	case ast.IfStmt:
		cond, err := it.eval(s.Cond, nil)
		if err != nil {
			return Value{}, false, err
		}
		if !cond.Truthy() {
			return Value{}, false, nil
		}
		return it.exec(s.Action)
	case ast.ButtonStmt:
		created := it.env.DefineButton(Button{Name: s.Name, Label: s.Label, Action: s.Action})
		it.log.WithFields(logrus.Fields{"button": s.Name, "new": created}).Debug("button defined")
		return Value{}, false, nil
	case ast.ExprStmt:
		v, err := it.eval(s.Expr, nil)
		if err != nil {
			return Value{}, false, err
		}
		return v, true, nil
	default:
		return Value{}, false, errors.Errorf("unsupported statement %T", stmt)
	}
}
