package mobile

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	agruntime "github.com/gosuda/agscript/runtime"
)

type buttonPayload struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type runResult struct {
	RunID         string            `json:"run_id,omitempty"`
	Status        string            `json:"status,omitempty"`
	LinesExecuted int               `json:"lines_executed"`
	Events        []agruntime.Event `json:"events"`
	Buttons       []buttonPayload   `json:"buttons"`
	Errors        []errorPayload    `json:"errors,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func encode(result runResult) string {
	b, _ := json.Marshal(result)
	return string(b)
}

func parseClicks(clicksJSON string) ([]string, error) {
	var clicks []string
	if strings.TrimSpace(clicksJSON) == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(clicksJSON), &clicks); err != nil {
		return nil, errors.Wrap(err, "invalid clicks json")
	}
	return clicks, nil
}

func buttonsOf(it *agruntime.Interpreter) []buttonPayload {
	buttons := it.Env().Buttons()
	out := make([]buttonPayload, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, buttonPayload{Name: b.Name, Label: b.Label})
	}
	return out
}

func fillRun(result *runResult, res agruntime.RunResult) {
	result.RunID = res.RunID
	result.Status = string(res.Status)
	result.LinesExecuted = res.LinesExecuted
	for _, err := range res.Errors {
		result.Errors = append(result.Errors, errorPayload{Kind: agruntime.ErrorKind(err), Message: err.Error()})
	}
	if res.LastError != nil {
		result.Error = res.LastError.Error()
	}
}

// Run executes a script headlessly and returns a JSON result.
// clicksJSON format: ["button_name", ...], clicked in order once the script
// body has finished.
func Run(source, clicksJSON string, lenient bool) string {
	result := runResult{}
	clicks, err := parseClicks(clicksJSON)
	if err != nil {
		result.Error = err.Error()
		return encode(result)
	}

	rec := agruntime.NewRecorder()
	rec.QueueClicks(clicks...)
	it := agruntime.New()
	it.SetLenient(lenient)
	it.SetTextOutput(rec)
	it.SetDialogService(rec)
	it.SetButtonHost(rec)

	fillRun(&result, it.Run(source))
	result.Events = rec.Events()
	result.Buttons = buttonsOf(it)
	return encode(result)
}

// Session keeps one interpreter alive between calls so a host UI can render
// buttons and forward clicks as they happen.
type Session struct {
	mu   sync.Mutex
	it   *agruntime.Interpreter
	rec  *agruntime.Recorder
	seen int
}

func NewSession(lenient bool) *Session {
	s := &Session{}
	s.init(lenient)
	return s
}

func (s *Session) init(lenient bool) {
	s.rec = agruntime.NewRecorder()
	s.it = agruntime.New()
	s.it.SetLenient(lenient)
	s.it.SetTextOutput(s.rec)
	s.it.SetDialogService(s.rec)
	s.it.SetButtonHost(s.rec)
	s.seen = 0
}

// Start runs source from a fresh environment and returns its JSON result.
// Buttons stay clickable through Click afterwards.
func (s *Session) Start(source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := runResult{}
	fillRun(&result, s.it.Run(source))
	result.Events = s.drain()
	result.Buttons = buttonsOf(s.it)
	return encode(result)
}

// Click presses one button and returns the events it produced.
func (s *Session) Click(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := runResult{}
	if _, err := s.it.Click(name); err != nil {
		result.Errors = []errorPayload{{Kind: agruntime.ErrorKind(err), Message: err.Error()}}
		result.Error = err.Error()
	}
	result.Events = s.drain()
	result.Buttons = buttonsOf(s.it)
	return encode(result)
}

// Eval runs one more line against the session environment.
func (s *Session) Eval(line string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := runResult{}
	if err := s.it.RunLine(line); err != nil {
		result.Errors = []errorPayload{{Kind: agruntime.ErrorKind(err), Message: err.Error()}}
		result.Error = err.Error()
	} else {
		result.LinesExecuted = 1
	}
	result.Events = s.drain()
	result.Buttons = buttonsOf(s.it)
	return encode(result)
}

func (s *Session) drain() []agruntime.Event {
	events := s.rec.Events()
	if s.seen > len(events) {
		s.seen = 0
	}
	out := append([]agruntime.Event{}, events[s.seen:]...)
	s.seen = len(events)
	return out
}
