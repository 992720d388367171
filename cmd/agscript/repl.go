package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	agruntime "github.com/gosuda/agscript/runtime"
)

const replPrompt = "ag> "

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agscript_history")
}

func runREPL(cfg *appConfig, log logrus.FieldLogger, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if cfg.history != "" {
		if f, err := os.Open(cfg.history); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	host := newPlainHost(strings.NewReader(""), out)
	it := newInterpreter(cfg, log)
	it.SetTextOutput(host)
	it.SetDialogService(host)
	it.SetButtonHost(host)

	line.SetCompleter(func(prefix string) []string {
		return completeNames(it, prefix)
	})

	for {
		text, err := line.Prompt(replPrompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read line")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		line.AppendHistory(text)
		if replEval(it, out, text) {
			break
		}
	}

	if cfg.history != "" {
		f, err := os.Create(cfg.history)
		if err != nil {
			return errors.Wrap(err, "save history")
		}
		defer f.Close()
		if _, err := line.WriteHistory(f); err != nil {
			return errors.Wrap(err, "save history")
		}
	}
	return nil
}

// replEval runs one REPL entry. Lines starting with ':' are session
// commands; everything else is a script line. It reports whether the session
// should end.
func replEval(it *agruntime.Interpreter, out io.Writer, text string) bool {
	if !strings.HasPrefix(text, ":") {
		if err := it.RunLine(text); err != nil {
			fmt.Fprintf(out, "%s: %v\n", agruntime.ErrorKind(err), err)
		}
		return false
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":vars":
		vars := it.Env().Variables()
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := vars[name]
			fmt.Fprintf(out, "%s = %s (%s)\n", name, v, v.Kind())
		}
	case ":funcs":
		for _, name := range it.Env().FunctionNames() {
			fn, _ := it.Env().LookupFunction(name)
			switch fn := fn.(type) {
			case agruntime.UserFunction:
				fmt.Fprintf(out, "%s(%s)\n", name, strings.Join(fn.Params, ", "))
			case agruntime.NativeFunction:
				fmt.Fprintf(out, "%s (native)\n", name)
			}
		}
	case ":buttons":
		for _, b := range it.Env().Buttons() {
			fmt.Fprintf(out, "%s [%s]\n", b.Name, b.Label)
		}
	case ":click":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :click NAME")
			return false
		}
		_, _ = it.Click(fields[1])
	default:
		fmt.Fprintf(out, "unknown command %s (try :vars :funcs :buttons :click :quit)\n", fields[0])
	}
	return false
}

func completeNames(it *agruntime.Interpreter, prefix string) []string {
	start := strings.LastIndexAny(prefix, " (,+-*/%=<>!") + 1
	head, word := prefix[:start], prefix[start:]
	if word == "" {
		return nil
	}
	var out []string
	for _, name := range it.Env().FunctionNames() {
		if strings.HasPrefix(name, word) {
			out = append(out, head+name+"(")
		}
	}
	for name := range it.Env().Variables() {
		if strings.HasPrefix(name, word) {
			out = append(out, head+name)
		}
	}
	sort.Strings(out)
	return out
}
