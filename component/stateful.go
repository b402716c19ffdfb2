package component

import (
	"context"
	"sync"
)

// Stateful is a component that keeps key/value state for the duration of a
// run. The state is cleared on stop, after the stop hook has run, whether or
// not the hook succeeded.
type Stateful struct {
	*Base

	mu   sync.RWMutex
	data map[string]any
}

// NewStateful creates a stateful component. hooks are resolved as in New.
func NewStateful(name string, hooks any, opts ...Option) *Stateful {
	s := &Stateful{data: make(map[string]any)}

	var funcs Funcs
	if h, ok := hooks.(Initializer); ok {
		funcs.Initialize = h.OnInitialize
	}
	if h, ok := hooks.(Starter); ok {
		funcs.Start = h.OnStart
	}
	stopper, _ := hooks.(Stopper)
	funcs.Stop = func(ctx context.Context) error {
		defer s.ClearState()
		if stopper != nil {
			return stopper.OnStop(ctx)
		}
		return nil
	}

	s.Base = New(name, funcs, opts...)
	if h, ok := hooks.(Describable); ok {
		s.Base.describer = h
	}
	return s
}

// GetState returns the value stored under key, or def.
func (s *Stateful) GetState(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

// SetState stores value under key.
func (s *Stateful) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// ClearState removes every stored value.
func (s *Stateful) ClearState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.data)
}

// StateLen returns the number of stored values.
func (s *Stateful) StateLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
