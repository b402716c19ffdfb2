package testutil

import (
	"strings"
	"sync"

	"github.com/kbukum/appkit/component"
)

// Recorder collects events in the order they happen. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []string
	states map[string][]component.State
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{states: make(map[string][]component.State)}
}

// Record appends an event.
func (r *Recorder) Record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of every recorded event.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// EventsWithSuffix returns the recorded events ending in suffix, e.g. ".stop".
func (r *Recorder) EventsWithSuffix(suffix string) []string {
	var out []string
	for _, e := range r.Events() {
		if strings.HasSuffix(e, suffix) {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.states = make(map[string][]component.State)
}

// Transitions returns a component option that records every state the
// component passes through.
func (r *Recorder) Transitions() component.Option {
	return component.OnTransition(func(name string, from, to component.State) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if len(r.states[name]) == 0 {
			r.states[name] = append(r.states[name], from)
		}
		r.states[name] = append(r.states[name], to)
	})
}

// States returns every state the named component passed through, starting
// with the state it was in before its first transition.
func (r *Recorder) States(name string) []component.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]component.State, len(r.states[name]))
	copy(out, r.states[name])
	return out
}

// SettledStates returns the states of the named component with the
// in-progress states (INITIALIZING, STARTING, STOPPING) removed.
func (r *Recorder) SettledStates(name string) []component.State {
	var out []component.State
	for _, s := range r.States(name) {
		switch s {
		case component.StateInitializing, component.StateStarting, component.StateStopping:
			continue
		}
		out = append(out, s)
	}
	return out
}
