package agscript

import (
	"github.com/gosuda/agscript/parser"
	agruntime "github.com/gosuda/agscript/runtime"
)

// New returns an interpreter with the native builtins installed and no
// collaborators attached.
func New() *agruntime.Interpreter {
	return agruntime.New()
}

// Run executes source with a single bridge serving as text output, dialog
// service and button host.
func Run(source string, bridge Bridge) agruntime.RunResult {
	it := agruntime.New()
	if bridge != nil {
		it.SetTextOutput(bridge)
		it.SetDialogService(bridge)
		it.SetButtonHost(bridge)
	}
	return it.Run(source)
}

// Bridge is implemented by hosts that provide every collaborator at once,
// such as agruntime.Recorder.
type Bridge interface {
	agruntime.TextOutput
	agruntime.DialogService
	agruntime.ButtonHost
}

// Parse only parses the script for tooling use.
func Parse(source string) ([]parser.ParsedLine, error) {
	return parser.ParseSource(source)
}
