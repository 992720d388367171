package agruntime

// TextOutput receives the arguments of print and echoed statement results.
type TextOutput interface {
	Write(values []Value)
}

// DialogService shows modal messages. Implementations may block until the
// user dismisses the dialog.
type DialogService interface {
	ShowMessage(title, body string)
	ShowError(title, body string)
}

// ButtonHost owns the visual buttons. RegisterOrUpdate is keyed by name, so a
// second call with a known name must update the existing widget.
// EnterEventLoop blocks until the host is closed.
type ButtonHost interface {
	RegisterOrUpdate(name, label string, onClick func())
	EnterEventLoop() error
}

// TextOutputFunc adapts a function to TextOutput.
type TextOutputFunc func(values []Value)

func (f TextOutputFunc) Write(values []Value) {
	f(values)
}

type discardOutput struct{}

func (discardOutput) Write([]Value) {}

type discardDialogs struct{}

func (discardDialogs) ShowMessage(string, string) {}
func (discardDialogs) ShowError(string, string)   {}
