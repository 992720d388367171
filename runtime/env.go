package agruntime

import (
	"sort"
	"sync"

	"github.com/gosuda/agscript/ast"
)

// Function is either a NativeFunction or a UserFunction.
type Function interface {
	FunctionName() string
	isFunction()
}

// NativeFunction is a builtin implemented in Go. Arity < 0 accepts any
// number of arguments.
type NativeFunction struct {
	Name  string
	Arity int
	Impl  func(args []Value) (Value, error)
}

func (f NativeFunction) FunctionName() string { return f.Name }
func (NativeFunction) isFunction()            {}

type UserFunction struct {
	Name   string
	Params []string
	Body   ast.Expr
}

func (f UserFunction) FunctionName() string { return f.Name }
func (UserFunction) isFunction()            {}

type Button struct {
	Name   string
	Label  string
	Action ast.Expr
}

// Environment holds the variables, functions and buttons of one run.
// All methods are safe for concurrent use.
type Environment struct {
	mu          sync.RWMutex
	vars        map[string]Value
	funcs       map[string]Function
	buttons     map[string]*Button
	buttonOrder []string
	dirty       map[string]bool
}

func NewEnvironment() *Environment {
	return &Environment{
		vars:        map[string]Value{},
		funcs:       map[string]Function{},
		buttons:     map[string]*Button{},
		buttonOrder: nil,
		dirty:       map[string]bool{},
	}
}

func (env *Environment) GetVariable(name string) (Value, bool) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	v, ok := env.vars[name]
	return v, ok
}

func (env *Environment) SetVariable(name string, v Value) {
	env.mu.Lock()
	env.vars[name] = v
	env.mu.Unlock()
}

// Variables returns a copy of the global variable store.
func (env *Environment) Variables() map[string]Value {
	env.mu.RLock()
	defer env.mu.RUnlock()
	cp := make(map[string]Value, len(env.vars))
	for k, v := range env.vars {
		cp[k] = v
	}
	return cp
}

// DefineFunction installs fn, replacing any native or user function of the
// same name.
func (env *Environment) DefineFunction(fn Function) {
	env.mu.Lock()
	env.funcs[fn.FunctionName()] = fn
	env.mu.Unlock()
}

func (env *Environment) LookupFunction(name string) (Function, bool) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	fn, ok := env.funcs[name]
	return fn, ok
}

func (env *Environment) FunctionNames() []string {
	env.mu.RLock()
	defer env.mu.RUnlock()
	names := make([]string, 0, len(env.funcs))
	for k := range env.funcs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefineButton creates or updates a button in place. It reports whether the
// name was new.
func (env *Environment) DefineButton(b Button) bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.dirty[b.Name] = true
	if cur, ok := env.buttons[b.Name]; ok {
		cur.Label = b.Label
		cur.Action = b.Action
		return false
	}
	cp := b
	env.buttons[b.Name] = &cp
	env.buttonOrder = append(env.buttonOrder, b.Name)
	return true
}

func (env *Environment) Button(name string) (Button, bool) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	b, ok := env.buttons[name]
	if !ok {
		return Button{}, false
	}
	return *b, true
}

// Buttons lists buttons in first-declaration order.
func (env *Environment) Buttons() []Button {
	env.mu.RLock()
	defer env.mu.RUnlock()
	out := make([]Button, 0, len(env.buttonOrder))
	for _, name := range env.buttonOrder {
		out = append(out, *env.buttons[name])
	}
	return out
}

// takeDirtyButtons returns buttons defined or updated since the last call.
func (env *Environment) takeDirtyButtons() []Button {
	env.mu.Lock()
	defer env.mu.Unlock()
	if len(env.dirty) == 0 {
		return nil
	}
	out := make([]Button, 0, len(env.dirty))
	for _, name := range env.buttonOrder {
		if env.dirty[name] {
			out = append(out, *env.buttons[name])
		}
	}
	env.dirty = map[string]bool{}
	return out
}
