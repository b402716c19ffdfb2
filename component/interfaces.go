package component

import (
	"context"

	"github.com/kbukum/appkit/observability"
)

// Host is what a component is initialized with: the application that owns
// it and resolves services for it.
type Host interface {
	Name() string
	GetService(ctx context.Context, name string) (any, error)
}

// Component represents a lifecycle-managed unit owned by an application.
type Component interface {
	// Name returns the name of the component.
	Name() string

	// Initialize prepares the component with the application that owns it.
	Initialize(ctx context.Context, host Host) error

	// Start begins the component's work. Only valid after Initialize.
	Start(ctx context.Context) error

	// Stop shuts the component down. A no-op unless the component is
	// started or failed.
	Stop(ctx context.Context) error

	// State returns the current lifecycle state.
	State() State

	// Health returns the current health of the component.
	Health(ctx context.Context) observability.Health
}

// Initializer is implemented by hooks that run during Initialize.
type Initializer interface {
	OnInitialize(ctx context.Context, host Host) error
}

// Starter is implemented by hooks that run during Start.
type Starter interface {
	OnStart(ctx context.Context) error
}

// Stopper is implemented by hooks that run during Stop.
type Stopper interface {
	OnStop(ctx context.Context) error
}

// Funcs adapts plain functions to the hook interfaces. Nil fields are skipped.
//
//	c := component.New("poller", component.Funcs{
//	    Start: func(ctx context.Context) error { return p.Begin() },
//	})
type Funcs struct {
	Initialize func(ctx context.Context, host Host) error
	Start      func(ctx context.Context) error
	Stop       func(ctx context.Context) error
}

func (f Funcs) OnInitialize(ctx context.Context, host Host) error {
	if f.Initialize == nil {
		return nil
	}
	return f.Initialize(ctx, host)
}

func (f Funcs) OnStart(ctx context.Context) error {
	if f.Start == nil {
		return nil
	}
	return f.Start(ctx)
}

func (f Funcs) OnStop(ctx context.Context) error {
	if f.Stop == nil {
		return nil
	}
	return f.Stop(ctx)
}

// Description holds summary information for the application snapshot.
type Description struct {
	// Name is the human-readable display name. If empty, the component's
	// Name() is used.
	Name string `json:"name"`
	// Type categorizes the component: "cache", "worker", "telemetry", etc.
	Type string `json:"type,omitempty"`
	// Details is a human-readable one-liner, e.g. "size=512 ttl=5m".
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by hooks to report what the
// component is and how it is configured.
type Describable interface {
	Describe() Description
}
