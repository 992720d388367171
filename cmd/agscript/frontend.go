package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	agruntime "github.com/gosuda/agscript/runtime"
)

const footerLines = 3

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Press   key.Binding
	Dismiss key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Press, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Press, k.Dismiss}, {k.Top, k.Bottom, k.Quit}}
}

var keys = keyMap{
	Prev:    key.NewBinding(key.WithKeys("left", "shift+tab", "h"), key.WithHelp("←", "prev button")),
	Next:    key.NewBinding(key.WithKeys("right", "tab", "l"), key.WithHelp("→", "next button")),
	Press:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")),
	Dismiss: key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "close dialog")),
	Top:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("238")).Padding(0, 1).MarginRight(1)
	selectedStyle = buttonStyle.Background(lipgloss.Color("24")).Bold(true)
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
	errDialog     = dialogStyle.BorderForeground(lipgloss.Color("196"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
)

type model struct {
	cfg     appConfig
	src     string
	log     logrus.FieldLogger
	results chan<- agruntime.RunResult

	viewport viewport.Model
	help     help.Model
	ready    bool
	width    int
	height   int
	status   string

	events  <-chan tea.Msg
	quit    chan struct{}
	stop    func()
	running bool
	inLoop  bool

	lines    []string
	buttons  []buttonEntry
	selected int
	dialogs  []vmDialogMsg
}

func newModel(cfg appConfig, src string, log logrus.FieldLogger, results chan<- agruntime.RunResult) model {
	return model{
		cfg:      cfg,
		src:      src,
		log:      log,
		results:  results,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		status:   "starting",
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-time.After(50 * time.Millisecond):
			return vmPollMsg{}
		}
	}
}

func clickCmd(b buttonEntry) tea.Cmd {
	return func() tea.Msg {
		b.onClick()
		return clickDoneMsg{name: b.name}
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.cfg, m.src, m.log, m.results)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		vh := msg.Height - footerLines
		if vh < 1 {
			vh = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.ready = true
		m.rebuildContent()
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.quit = msg.quit
		m.stop = stopper(msg.quit)
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendLine(msg.text)
		return m, waitVMEvent(m.events)

	case vmDialogMsg:
		m.dialogs = append(m.dialogs, msg)
		return m, waitVMEvent(m.events)

	case vmButtonMsg:
		m.upsertButton(msg)
		return m, waitVMEvent(m.events)

	case vmLoopMsg:
		m.inLoop = true
		m.status = fmt.Sprintf("%d button(s) ready", len(m.buttons))
		return m, waitVMEvent(m.events)

	case vmPollMsg:
		if m.running {
			return m, waitVMEvent(m.events)
		}
		return m, nil

	case clickDoneMsg:
		m.status = "pressed " + msg.name
		return m, nil

	case vmDoneMsg:
		m.running = false
		m.inLoop = false
		if msg.res.LastError != nil {
			m.status = "failed"
			for _, err := range msg.res.Errors {
				m.appendLine(errStyle.Render(agruntime.ErrorKind(err) + ": " + err.Error()))
			}
		} else {
			m.status = "done"
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			if m.stop != nil {
				m.stop()
			}
			return m, tea.Quit
		}
		if len(m.dialogs) > 0 {
			if key.Matches(msg, keys.Dismiss) {
				close(m.dialogs[0].ack)
				m.dialogs = m.dialogs[1:]
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Prev):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, keys.Next):
			if m.selected < len(m.buttons)-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, keys.Press):
			if !m.inLoop || len(m.buttons) == 0 {
				return m, nil
			}
			b := m.buttons[m.selected]
			m.status = "pressing " + b.name
			return m, clickCmd(b)
		case key.Matches(msg, keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	body := m.viewport.View()
	if len(m.dialogs) > 0 {
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, renderDialog(m.dialogs[0]))
	}
	parts := []string{
		body,
		m.buttonBar(),
		statusStyle.Render(m.status) + "  " + m.help.View(keys),
	}
	return strings.Join(parts, "\n")
}

func renderDialog(d vmDialogMsg) string {
	style := dialogStyle
	if d.isErr {
		style = errDialog
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(d.title), "", d.body, "", statusStyle.Render("enter to close")))
}

func (m model) buttonBar() string {
	if len(m.buttons) == 0 {
		return statusStyle.Render("(no buttons)")
	}
	rendered := make([]string, 0, len(m.buttons))
	for i, b := range m.buttons {
		style := buttonStyle
		if i == m.selected {
			style = selectedStyle
		}
		rendered = append(rendered, style.Render(b.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *model) upsertButton(msg vmButtonMsg) {
	for i := range m.buttons {
		if m.buttons[i].name == msg.name {
			m.buttons[i].label = msg.label
			m.buttons[i].onClick = msg.onClick
			return
		}
	}
	m.buttons = append(m.buttons, buttonEntry{name: msg.name, label: msg.label, onClick: msg.onClick})
}

func (m *model) appendLine(text string) {
	m.lines = append(m.lines, text)
	m.rebuildContent()
}

func (m *model) rebuildContent() {
	content := strings.Join(m.lines, "\n")
	if content == "" {
		content = "(no output yet)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}
