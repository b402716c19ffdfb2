package component

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
)

// TransitionFunc observes state changes of a component.
type TransitionFunc func(name string, from, to State)

// Option configures a Base.
type Option func(*Base)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *logger.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// WithTracker sets the tracker that records lifecycle spans and metrics.
func WithTracker(t *observability.Tracker) Option {
	return func(b *Base) {
		if t != nil {
			b.tracker = t
		}
	}
}

// WithAttributes adds attributes to every lifecycle span of the component.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(b *Base) { b.attrs = append(b.attrs, attrs...) }
}

// OnTransition registers fn to be called after every state change.
func OnTransition(fn TransitionFunc) Option {
	return func(b *Base) {
		if fn != nil {
			b.observers = append(b.observers, fn)
		}
	}
}

// Base implements Component around optional Initializer, Starter and Stopper
// hooks. Capabilities are resolved once, in New.
type Base struct {
	name        string
	initializer Initializer
	starter     Starter
	stopper     Stopper
	describer   Describable

	log       *logger.Logger
	tracker   *observability.Tracker
	attrs     []attribute.KeyValue
	observers []TransitionFunc

	mu    sync.RWMutex
	state State
	host  Host
}

// New creates a component in state CREATED. hooks may implement any subset
// of Initializer, Starter, Stopper and Describable, or be nil.
func New(name string, hooks any, opts ...Option) *Base {
	b := &Base{name: name, state: StateCreated}
	if h, ok := hooks.(Initializer); ok {
		b.initializer = h
	}
	if h, ok := hooks.(Starter); ok {
		b.starter = h
	}
	if h, ok := hooks.(Stopper); ok {
		b.stopper = h
	}
	if h, ok := hooks.(Describable); ok {
		b.describer = h
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.GetGlobalLogger().WithComponent(name)
	}
	if b.tracker == nil {
		b.tracker = observability.DefaultTracker()
	}
	return b
}

// Name returns the component name.
func (b *Base) Name() string { return b.name }

// State returns the current lifecycle state.
func (b *Base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Host returns the host passed to the last Initialize, or nil.
func (b *Base) Host() Host {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.host
}

// Initialize moves the component to INITIALIZED through the initialize hook,
// from any state. A hook failure leaves the component in ERROR.
func (b *Base) Initialize(ctx context.Context, host Host) error {
	b.mu.Lock()
	b.host = host
	b.mu.Unlock()

	var hook func(context.Context) error
	if b.initializer != nil {
		hook = func(ctx context.Context) error { return b.initializer.OnInitialize(ctx, host) }
	}
	from, _ := b.transition(StateInitializing)
	return b.run(ctx, "initialize", from, StateInitialized, hook,
		errors.ErrCodeInitializationFailed, "initialization failed")
}

// Start moves an INITIALIZED component to STARTED through the start hook.
// In any other state Start fails and the state is left unchanged.
func (b *Base) Start(ctx context.Context) error {
	from, ok := b.transition(StateStarting, StateInitialized)
	if !ok {
		return errors.ComponentError(errors.ErrCodeInvalidState,
			fmt.Sprintf("cannot start component in state %s", from), nil).
			WithName(b.name).
			WithDetail("state", from.String())
	}

	var hook func(context.Context) error
	if b.starter != nil {
		hook = b.starter.OnStart
	}
	return b.run(ctx, "start", from, StateStarted, hook,
		errors.ErrCodeStartFailed, "start failed")
}

// Stop moves a STARTED or ERROR component to STOPPED through the stop hook.
// In any other state Stop does nothing.
func (b *Base) Stop(ctx context.Context) error {
	from, ok := b.transition(StateStopping, StateStarted, StateError)
	if !ok {
		return nil
	}

	var hook func(context.Context) error
	if b.stopper != nil {
		hook = b.stopper.OnStop
	}
	return b.run(ctx, "stop", from, StateStopped, hook,
		errors.ErrCodeStopFailed, "stop failed")
}

// run executes hook for an operation already moved to its in-progress
// state, then settles on success or ERROR.
func (b *Base) run(ctx context.Context, op string, from, success State, hook func(context.Context) error,
	code errors.ErrorCode, message string) error {
	ctx, tracked := b.tracker.Begin(ctx, observability.KindComponent, b.name, op, from.String(), b.attrs...)
	b.log.Debug("Lifecycle operation started", operationFields(op, from, b.State()))

	var err error
	if hook != nil {
		err = hook(ctx)
	}

	if err != nil {
		b.transition(StateError)
		tracked.End(ctx, StateError.String(), err)
		b.log.Error("Lifecycle operation failed", logger.MergeWithError(operationFields(op, from, StateError), err))
		return errors.ComponentError(code, message, err).WithName(b.name)
	}

	b.transition(success)
	tracked.End(ctx, success.String(), nil)
	b.log.Info("Lifecycle operation completed", operationFields(op, from, success))
	return nil
}

// transition moves to state to when the current state is one of allowed (or
// allowed is empty) and reports the previous state.
func (b *Base) transition(to State, allowed ...State) (State, bool) {
	b.mu.Lock()
	from := b.state
	if len(allowed) > 0 && !containsState(allowed, from) {
		b.mu.Unlock()
		return from, false
	}
	b.state = to
	b.mu.Unlock()

	for _, fn := range b.observers {
		fn(b.name, from, to)
	}
	return from, true
}

func operationFields(op string, from, to State) map[string]interface{} {
	fields := logger.TransitionFields(from.String(), to.String())
	fields[logger.FieldOperation] = op
	return fields
}

func containsState(states []State, s State) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

// GetService resolves a service through the host the component was
// initialized with.
func (b *Base) GetService(ctx context.Context, name string) (any, error) {
	host := b.Host()
	if host == nil {
		return nil, errors.ComponentError(errors.ErrCodeInvalidState,
			"component not initialized with an application", nil).WithName(b.name)
	}
	return host.GetService(ctx, name)
}

var stateHealth = observability.StateHealth{
	Up:   []string{StateStarted.String()},
	Down: []string{StateError.String()},
}

// Health maps the lifecycle state to a health status: STARTED is up, ERROR
// is down and every other state is degraded.
func (b *Base) Health(_ context.Context) observability.Health {
	return stateHealth.Of(b.name, b.State().String())
}

// Describe returns the hooks' description, or a default one.
func (b *Base) Describe() Description {
	d := Description{Name: b.name, Type: "component"}
	if b.describer != nil {
		d = b.describer.Describe()
		if d.Name == "" {
			d.Name = b.name
		}
	}
	return d
}

func (b *Base) String() string {
	return fmt.Sprintf("component(%s state=%s)", b.name, b.State())
}
