package agruntime

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gosuda/agscript/parser"
)

type Status string

const (
	Completed Status = "completed"
	Failed    Status = "failed"
)

type RunResult struct {
	RunID         string
	Status        Status
	LinesExecuted int
	LastError     error
	Errors        []error
}

// Run executes a script top to bottom against a fresh environment. Lines
// that completed are counted in LinesExecuted. When the body finishes and at
// least one button exists, every button is registered with the host once and
// the host's event loop is entered.
func (it *Interpreter) Run(source string) RunResult {
	runID := uuid.NewString()
	res := RunResult{RunID: runID, Status: Completed}

	it.execMu.Lock()
	it.reset()
	log := it.log.WithField("run", runID)
	policy := it.policy
	it.execMu.Unlock()

	lines := parser.ToLines(source)
	log.WithField("lines", len(lines)).Debug("run started")
	for _, line := range lines {
		if err := it.runLine(line, log); err != nil {
			log.WithError(err).WithField("line", line.Number).Warn("statement failed")
			res.Status = Failed
			res.LastError = err
			res.Errors = append(res.Errors, err)
			if policy == AbortOnError {
				return res
			}
			continue
		}
		res.LinesExecuted++
	}

	buttons, host := it.syncButtons(log)
	if buttons > 0 && host != nil {
		log.WithField("buttons", buttons).Info("entering event loop")
		if err := host.EnterEventLoop(); err != nil {
			err = errors.Wrap(err, "event loop")
			res.Status = Failed
			res.LastError = err
			res.Errors = append(res.Errors, err)
		}
	}
	log.WithFields(logrus.Fields{"status": res.Status, "executed": res.LinesExecuted}).Debug("run finished")
	return res
}

// RunLine executes one line against the current environment without
// resetting it, then registers any new or changed buttons with the host.
func (it *Interpreter) RunLine(text string) error {
	it.execMu.Lock()
	it.replLine++
	line := parser.Line{Number: it.replLine, Content: text}
	log := it.log.WithField("line", line.Number)
	it.execMu.Unlock()

	if err := it.runLine(line, log); err != nil {
		log.WithError(err).Warn("statement failed")
		return err
	}
	it.syncButtons(log)
	return nil
}

func (it *Interpreter) runLine(line parser.Line, log logrus.FieldLogger) error {
	stmt, err := parser.ParseLine(line.Content)
	if err != nil {
		return &parser.LineError{Line: line.Number, Text: line.Content, Err: err}
	}
	if stmt == nil {
		return nil
	}
	log.WithField("line", line.Number).Debug(line.Content)

	it.execMu.Lock()
	v, ok, err := it.exec(stmt)
	out := it.out
	it.execMu.Unlock()
	if err != nil {
		return &parser.LineError{Line: line.Number, Text: line.Content, Err: err}
	}
	if ok && !v.IsNone() {
		out.Write([]Value{v})
	}
	return nil
}

// syncButtons hands buttons defined or changed since the last sync to the
// host and returns the total number of buttons along with that host.
func (it *Interpreter) syncButtons(log logrus.FieldLogger) (int, ButtonHost) {
	it.execMu.Lock()
	env, host := it.env, it.host
	it.execMu.Unlock()
	for _, b := range env.takeDirtyButtons() {
		if host == nil {
			continue
		}
		name := b.Name
		log.WithFields(logrus.Fields{"button": name, "label": b.Label}).Info("button registered")
		host.RegisterOrUpdate(name, b.Label, func() {
			_, _ = it.Click(name)
		})
	}
	return len(env.Buttons()), host
}

// Click evaluates the current action of a button. Failures are shown as an
// error dialog and written to the text output; a non-none result is shown as
// a message titled with the button label.
func (it *Interpreter) Click(name string) (Value, error) {
	it.execMu.Lock()
	defer it.execMu.Unlock()
	log := it.log.WithField("button", name)
	b, ok := it.env.Button(name)
	if !ok {
		err := &UndefinedNameError{Name: name, What: "button"}
		it.reportClickError(log, err)
		return Value{}, err
	}
	log.Debug("button clicked")
	v, err := it.eval(b.Action, nil)
	if err != nil {
		it.reportClickError(log, err)
		return Value{}, err
	}
	if !v.IsNone() {
		it.dialogs.ShowMessage(b.Label, v.String())
	}
	return v, nil
}

func (it *Interpreter) reportClickError(log logrus.FieldLogger, err error) {
	log.WithError(err).Warn("button action failed")
	it.dialogs.ShowError("Error", err.Error())
	it.out.Write([]Value{Str("Error: " + err.Error())})
}
