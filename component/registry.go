package component

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
)

// Status is the name and lifecycle state of a registered component.
type Status struct {
	Name  string `json:"name"`
	State State  `json:"state"`
}

// Registry holds components in registration order. Components are
// initialized and started in that order and stopped in reverse.
type Registry struct {
	mu      sync.RWMutex
	entries []Component
	log     *logger.Logger
}

// NewRegistry creates an empty registry logging to l (the global logger if nil).
func NewRegistry(l *logger.Logger) *Registry {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &Registry{log: l}
}

// Register appends c to the registry and returns the registered component.
//
// c is either a Component, or any value with a Name() string method plus any
// of Initialize(context.Context, Host) error, Start(context.Context) error and
// Stop(context.Context) error. The latter is wrapped in a Base built with
// opts so it gets the full state machine. Names need not be unique.
func (r *Registry) Register(c any, opts ...Option) (Component, error) {
	comp, err := adapt(c, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries = append(r.entries, comp)
	r.mu.Unlock()

	r.log.Debug("Component registered", map[string]interface{}{
		logger.FieldComponent: comp.Name(),
	})
	return comp, nil
}

func adapt(c any, opts []Option) (Component, error) {
	if c == nil {
		return nil, apperrors.InvalidArgument(apperrors.KindComponent, "component must not be nil")
	}
	if comp, ok := c.(Component); ok {
		return comp, nil
	}

	named, ok := c.(interface{ Name() string })
	if !ok {
		return nil, apperrors.InvalidArgument(apperrors.KindComponent,
			fmt.Sprintf("%T is not a component: it has no Name method", c))
	}

	var funcs Funcs
	if v, ok := c.(interface {
		Initialize(context.Context, Host) error
	}); ok {
		funcs.Initialize = v.Initialize
	}
	if v, ok := c.(interface{ Start(context.Context) error }); ok {
		funcs.Start = v.Start
	}
	if v, ok := c.(interface{ Stop(context.Context) error }); ok {
		funcs.Stop = v.Stop
	}

	base := New(named.Name(), funcs, opts...)
	if d, ok := c.(Describable); ok {
		base.describer = d
	}
	return base, nil
}

// snapshot returns the entries so lifecycle calls run without the lock held.
func (r *Registry) snapshot() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, len(r.entries))
	copy(out, r.entries)
	return out
}

// InitializeAll initializes every component in registration order and stops
// at the first failure. Components already initialized are not rolled back.
func (r *Registry) InitializeAll(ctx context.Context, host Host) error {
	entries := r.snapshot()
	r.log.Info("Initializing components", map[string]interface{}{
		logger.FieldCount: len(entries),
	})

	for _, c := range entries {
		if err := c.Initialize(ctx, host); err != nil {
			return err
		}
	}
	return nil
}

// StartAll starts every component in registration order and stops at the
// first failure.
func (r *Registry) StartAll(ctx context.Context) error {
	return r.StartAllWhile(ctx, nil)
}

// StartAllWhile is StartAll, except that it checks proceed before each
// component and returns without starting the rest once proceed reports
// false. A nil proceed always continues.
func (r *Registry) StartAllWhile(ctx context.Context, proceed func() bool) error {
	entries := r.snapshot()
	r.log.Info("Starting components", map[string]interface{}{
		logger.FieldCount: len(entries),
	})

	for i, c := range entries {
		if proceed != nil && !proceed() {
			r.log.Warn("Component start interrupted", map[string]interface{}{
				logger.FieldCount:     i,
				logger.FieldComponent: c.Name(),
			})
			return nil
		}
		if err := c.Start(ctx); err != nil {
			return err
		}
	}

	r.log.Info("All components started successfully")
	return nil
}

// StopAll stops every component in reverse registration order. A failing
// component does not prevent the others from being stopped; all failures
// are returned joined.
func (r *Registry) StopAll(ctx context.Context) error {
	entries := r.snapshot()
	r.log.Info("Stopping components", map[string]interface{}{
		logger.FieldCount: len(entries),
	})

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		c := entries[i]
		if err := c.Stop(ctx); err != nil {
			errs = append(errs, err)
			r.log.Error("Component stop failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.log.Info("All components stopped successfully")
	return nil
}

// Get returns the first component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.entries {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// All returns all registered components in registration order.
func (r *Registry) All() []Component {
	return r.snapshot()
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// States returns the lifecycle state of every component in registration order.
func (r *Registry) States() []Status {
	entries := r.snapshot()
	out := make([]Status, 0, len(entries))
	for _, c := range entries {
		out = append(out, Status{Name: c.Name(), State: c.State()})
	}
	return out
}

// HealthAll returns health status for all registered components.
func (r *Registry) HealthAll(ctx context.Context) []observability.Health {
	entries := r.snapshot()
	results := make([]observability.Health, 0, len(entries))
	for _, c := range entries {
		results = append(results, c.Health(ctx))
	}
	return results
}
