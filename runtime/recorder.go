package agruntime

import (
	"sync"
)

type EventKind string

const (
	EventText    EventKind = "text"
	EventMessage EventKind = "message"
	EventError   EventKind = "error"
	EventButton  EventKind = "button"
)

type Event struct {
	Kind  EventKind `json:"kind"`
	Title string    `json:"title,omitempty"`
	Text  string    `json:"text"`
}

// Recorder is a headless TextOutput, DialogService and ButtonHost. Its event
// loop clicks the queued button names in order and returns.
type Recorder struct {
	mu            sync.Mutex
	events        []Event
	registrations map[string]int
	order         []string
	labels        map[string]string
	handlers      map[string]func()
	queued        []string
	loops         int
}

func NewRecorder() *Recorder {
	return &Recorder{
		registrations: map[string]int{},
		labels:        map[string]string{},
		handlers:      map[string]func(){},
	}
}

// QueueClicks schedules button clicks for the next EnterEventLoop.
func (r *Recorder) QueueClicks(names ...string) {
	r.mu.Lock()
	r.queued = append(r.queued, names...)
	r.mu.Unlock()
}

func (r *Recorder) Write(values []Value) {
	r.record(Event{Kind: EventText, Text: FormatValues(values)})
}

func (r *Recorder) ShowMessage(title, body string) {
	r.record(Event{Kind: EventMessage, Title: title, Text: body})
}

func (r *Recorder) ShowError(title, body string) {
	r.record(Event{Kind: EventError, Title: title, Text: body})
}

func (r *Recorder) RegisterOrUpdate(name, label string, onClick func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.registrations[name]++
	r.labels[name] = label
	r.handlers[name] = onClick
	r.events = append(r.events, Event{Kind: EventButton, Title: name, Text: label})
}

func (r *Recorder) EnterEventLoop() error {
	r.mu.Lock()
	r.loops++
	queued := r.queued
	r.queued = nil
	r.mu.Unlock()
	for _, name := range queued {
		r.mu.Lock()
		h, ok := r.handlers[name]
		r.mu.Unlock()
		if !ok {
			r.record(Event{Kind: EventError, Title: "Error", Text: "no button named " + name})
			continue
		}
		h()
	}
	return nil
}

func (r *Recorder) record(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Texts returns the text output lines in order.
func (r *Recorder) Texts() []string {
	return r.filter(EventText)
}

func (r *Recorder) Messages() []string {
	return r.filter(EventMessage)
}

func (r *Recorder) Errors() []string {
	return r.filter(EventError)
}

func (r *Recorder) filter(kind EventKind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev.Text)
		}
	}
	return out
}

// Registrations reports how many times a button name was registered.
func (r *Recorder) Registrations(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registrations[name]
}

func (r *Recorder) Label(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.labels[name]
}

func (r *Recorder) ButtonNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func (r *Recorder) Loops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loops
}

// Click invokes a registered handler directly.
func (r *Recorder) Click(name string) bool {
	r.mu.Lock()
	h, ok := r.handlers[name]
	r.mu.Unlock()
	if ok {
		h()
	}
	return ok
}
