package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	agruntime "github.com/gosuda/agscript/runtime"
)

func newInterpreter(cfg *appConfig, log logrus.FieldLogger) *agruntime.Interpreter {
	it := agruntime.New()
	it.SetLogger(log)
	it.SetLenient(cfg.lenient)
	if cfg.keepGoing {
		it.SetErrorPolicy(agruntime.ContinueOnError)
	}
	return it
}

func runPlain(cfg *appConfig, src string, log logrus.FieldLogger, in io.Reader, out io.Writer) agruntime.RunResult {
	host := newPlainHost(in, out)
	it := newInterpreter(cfg, log)
	it.SetTextOutput(host)
	it.SetDialogService(host)
	it.SetButtonHost(host)

	res := it.Run(src)
	for _, err := range res.Errors {
		fmt.Fprintf(out, "%s: %v\n", agruntime.ErrorKind(err), err)
	}
	return res
}

// plainHost renders output and dialogs as lines of text. Its event loop
// reads button names, or their 1-based position, one per line until EOF or
// "quit".
type plainHost struct {
	in  *bufio.Scanner
	out io.Writer

	mu      sync.Mutex
	buttons []buttonEntry
}

func newPlainHost(in io.Reader, out io.Writer) *plainHost {
	return &plainHost{in: bufio.NewScanner(in), out: out}
}

func (h *plainHost) Write(values []agruntime.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, agruntime.FormatValues(values))
}

func (h *plainHost) ShowMessage(title, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "[%s] %s\n", title, body)
}

func (h *plainHost) ShowError(title, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "[%s!] %s\n", title, body)
}

func (h *plainHost) RegisterOrUpdate(name, label string, onClick func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.buttons {
		if h.buttons[i].name == name {
			h.buttons[i].label = label
			h.buttons[i].onClick = onClick
			return
		}
	}
	h.buttons = append(h.buttons, buttonEntry{name: name, label: label, onClick: onClick})
}

func (h *plainHost) EnterEventLoop() error {
	h.printMenu()
	for h.in.Scan() {
		text := strings.TrimSpace(h.in.Text())
		switch text {
		case "":
			continue
		case "quit", "q", ":quit":
			return nil
		case "?", "help":
			h.printMenu()
			continue
		}
		b, ok := h.lookup(text)
		if !ok {
			h.mu.Lock()
			fmt.Fprintf(h.out, "no button named %s\n", text)
			h.mu.Unlock()
			continue
		}
		b.onClick()
	}
	return h.in.Err()
}

func (h *plainHost) lookup(text string) (buttonEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(h.buttons) {
		return h.buttons[n-1], true
	}
	for _, b := range h.buttons {
		if b.name == text {
			return b, true
		}
	}
	return buttonEntry{}, false
}

func (h *plainHost) printMenu() {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, "buttons:")
	for i, b := range h.buttons {
		fmt.Fprintf(h.out, "  %d) %s [%s]\n", i+1, b.name, b.label)
	}
	fmt.Fprintln(h.out, "enter a button name or number, or quit")
}
