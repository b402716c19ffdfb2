package logger

import (
	"sync"
)

// Registry holds named loggers. Each application owns one so component and
// service loggers share its level and output.
type Registry struct {
	mu      sync.RWMutex
	base    *Logger
	loggers map[string]*Logger
}

// NewRegistry creates a registry deriving unknown names from base.
func NewRegistry(base *Logger) *Registry {
	if base == nil {
		base = GetGlobalLogger()
	}
	return &Registry{
		base:    base,
		loggers: make(map[string]*Logger),
	}
}

// Base returns the logger the registry derives from.
func (r *Registry) Base() *Logger {
	return r.base
}

// Register stores a named logger.
func (r *Registry) Register(name string, l *Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers[name] = l
}

// Component returns the logger registered for name, or the base logger tagged
// with the component name. The derived logger is remembered.
func (r *Registry) Component(name string) *Logger {
	return r.getOrDerive("component:"+name, func() *Logger { return r.base.WithComponent(name) })
}

// Service returns the logger registered for name, or the base logger tagged
// with the service name.
func (r *Registry) Service(name string) *Logger {
	return r.getOrDerive("service:"+name, func() *Logger { return r.base.WithService(name) })
}

// Get retrieves a named logger registered with Register. If the name is not
// registered it returns the base logger tagged with the component name.
func (r *Registry) Get(name string) *Logger {
	r.mu.RLock()
	l, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return l
	}
	return r.base.WithComponent(name)
}

func (r *Registry) getOrDerive(key string, derive func() *Logger) *Logger {
	r.mu.RLock()
	l, ok := r.loggers[key]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[key]; ok {
		return l
	}
	l = derive()
	r.loggers[key] = l
	return l
}
