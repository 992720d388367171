package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	agruntime "github.com/gosuda/agscript/runtime"
)

// tuiBridge forwards interpreter callbacks to the bubbletea program. Every
// send gives up once quit is closed so a script never outlives the UI.
type tuiBridge struct {
	events chan<- tea.Msg
	quit   <-chan struct{}
}

func (b *tuiBridge) send(msg tea.Msg) bool {
	select {
	case b.events <- msg:
		return true
	case <-b.quit:
		return false
	}
}

func (b *tuiBridge) Write(values []agruntime.Value) {
	b.send(vmOutputMsg{text: agruntime.FormatValues(values)})
}

func (b *tuiBridge) ShowMessage(title, body string) {
	b.dialog(vmDialogMsg{title: title, body: body})
}

func (b *tuiBridge) ShowError(title, body string) {
	b.dialog(vmDialogMsg{title: title, body: body, isErr: true})
}

func (b *tuiBridge) dialog(msg vmDialogMsg) {
	msg.ack = make(chan struct{})
	if !b.send(msg) {
		return
	}
	select {
	case <-msg.ack:
	case <-b.quit:
	}
}

func (b *tuiBridge) RegisterOrUpdate(name, label string, onClick func()) {
	b.send(vmButtonMsg{name: name, label: label, onClick: onClick})
}

func (b *tuiBridge) EnterEventLoop() error {
	b.send(vmLoopMsg{})
	<-b.quit
	return nil
}

func startVM(cfg appConfig, src string, log logrus.FieldLogger, results chan<- agruntime.RunResult) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 256)
		quit := make(chan struct{})
		go runVM(cfg, src, log, &tuiBridge{events: events, quit: quit}, results)
		return vmStartedMsg{events: events, quit: quit}
	}
}

func runVM(cfg appConfig, src string, log logrus.FieldLogger, bridge *tuiBridge, results chan<- agruntime.RunResult) {
	it := newInterpreter(&cfg, log)
	it.SetTextOutput(bridge)
	it.SetDialogService(bridge)
	it.SetButtonHost(bridge)

	res := it.Run(src)
	results <- res
	bridge.send(vmDoneMsg{res: res})
}

// runTUI runs the script inside the terminal UI and returns once the user
// quits. The script result is available after the UI has closed.
func runTUI(cfg *appConfig, src string, log logrus.FieldLogger) (agruntime.RunResult, error) {
	results := make(chan agruntime.RunResult, 1)
	p := tea.NewProgram(newModel(*cfg, src, log, results), tea.WithAltScreen())
	final, err := p.Run()
	m, ok := final.(model)
	if !ok || m.quit == nil {
		return agruntime.RunResult{}, err
	}
	m.stop()
	return <-results, err
}

func stopper(quit chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}
