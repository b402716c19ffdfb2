package bootstrap

import (
	"context"
	"io"
	"os"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/di"
	apperrors "github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
	"github.com/kbukum/appkit/version"
)

// App owns a service container and an ordered set of components and drives
// them through initialize, start and shutdown.
//
// Example:
//
//	app, err := bootstrap.New("orders", config.Map{"log_level": "debug"})
//	app.RegisterService("db", newDatabase)
//	app.RegisterComponent(api)
//	app.OnShutdown(func(ctx context.Context, a *bootstrap.App) error {
//	    return flushMetrics(ctx)
//	})
//	app.RunUntilSignal(context.Background())
type App struct {
	name    string
	id      string
	version string
	cfg     *config.AppConfig

	container  *di.Container
	components *component.Registry
	log        *logger.Logger
	tracker    *observability.Tracker
	signals    []os.Signal
	summaryOut io.Writer

	mu         sync.RWMutex
	state      State
	onStartup  []Handler
	onShutdown []Handler
	watching   bool
	startedAt  time.Time

	// shutdownMu serializes Shutdown, which the signal watcher may call
	// from its own goroutine.
	shutdownMu sync.Mutex
	done       chan struct{}
	doneOnce   sync.Once
}

// New creates an application named name from a plain option mapping.
// The log_level option sets the verbosity of the application logger.
func New(name string, cfg config.Map, opts ...Option) (*App, error) {
	if name == "" {
		return nil, apperrors.InvalidArgument(apperrors.KindApplication, "application name must not be empty")
	}
	return NewFromConfig(config.FromMap(name, cfg), opts...)
}

// NewFromConfig creates an application from a loaded AppConfig.
// It applies defaults and validates the config before anything is built.
func NewFromConfig(cfg *config.AppConfig, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, apperrors.InvalidArgument(apperrors.KindApplication, "config must not be nil")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.ApplicationError(apperrors.ErrCodeInvalidConfig, "invalid configuration", err).
			WithName(cfg.Name)
	}

	o := resolveOptions(opts)
	a := &App{
		name:       cfg.Name,
		id:         uuid.NewString(),
		version:    version.Resolve(cfg.Version),
		cfg:        cfg,
		tracker:    o.tracker,
		signals:    o.signals,
		summaryOut: o.summaryOut,
		state:      StateInitializing,
		done:       make(chan struct{}),
	}
	if o.version != "" {
		a.version = o.version
	}

	if o.logger != nil {
		a.log = o.logger
	} else {
		a.log = logger.New(&cfg.Logging, cfg.Name)
	}
	a.log = a.log.WithFields(map[string]interface{}{logger.FieldInstanceID: a.id})

	if a.tracker == nil {
		a.tracker = observability.DefaultTracker()
	}
	if a.signals == nil {
		a.signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	a.container = o.container
	if a.container == nil {
		a.container = di.NewContainer(di.WithLogger(a.log.WithComponent("container")))
	}
	a.components = component.NewRegistry(a.log)

	if err := a.registerCore(); err != nil {
		return nil, err
	}
	if o.telemetry != nil {
		tcfg := *o.telemetry
		if tcfg.Tracing.ServiceName == "" {
			tcfg.Tracing.ServiceName = a.name
		}
		if tcfg.Metrics.ServiceName == "" {
			tcfg.Metrics.ServiceName = a.name
		}
		if tcfg.Tracing.ServiceVersion == "" || tcfg.Tracing.ServiceVersion == "dev" {
			tcfg.Tracing.ServiceVersion = a.version
		}
		if tcfg.Metrics.ServiceVersion == "" || tcfg.Metrics.ServiceVersion == "dev" {
			tcfg.Metrics.ServiceVersion = a.version
		}
		tcfg.Tracing.InstanceID = a.id
		tcfg.Metrics.InstanceID = a.id
		if err := a.registerTelemetry(observability.NewTelemetry(tcfg)); err != nil {
			return nil, err
		}
	}

	build := version.Get()
	a.log.Info("Application created", map[string]interface{}{
		"version":     a.version,
		"environment": cfg.Environment,
		"go_version":  build.GoVersion,
	})
	return a, nil
}

const telemetryComponent = "telemetry"

// registerTelemetry installs the exporters from the initialize hook of the
// first component, so every later component's lifecycle is exported. The
// shutdown handler flushes them when the application stops before the
// component was started.
func (a *App) registerTelemetry(tel *observability.Telemetry) error {
	hooks := component.Funcs{
		Initialize: func(ctx context.Context, _ component.Host) error { return tel.Install(ctx) },
		Stop:       tel.OnStop,
	}
	if _, err := a.RegisterComponent(component.New(telemetryComponent, hooks,
		component.WithLogger(a.log.WithComponent(telemetryComponent)),
		component.WithTracker(a.tracker))); err != nil {
		return err
	}
	a.OnShutdown(func(ctx context.Context, _ *App) error { return tel.OnStop(ctx) })
	return nil
}

func (a *App) registerCore() error {
	for name, v := range map[string]any{
		di.Core.App:    a,
		di.Core.Config: a.Config(),
		di.Core.Logger: a.log,
	} {
		if err := a.container.Register(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the application name.
func (a *App) Name() string { return a.name }

// ID returns the instance ID assigned at construction.
func (a *App) ID() string { return a.id }

// Version returns the application version.
func (a *App) Version() string { return a.version }

// Config returns a copy of the application options, with log_level set to
// the effective level.
func (a *App) Config() config.Map { return a.cfg.ToMap() }

// AppConfig returns the typed application configuration.
func (a *App) AppConfig() *config.AppConfig { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger { return a.log }

// Container returns the service container.
func (a *App) Container() *di.Container { return a.container }

// Components returns the component registry.
func (a *App) Components() *component.Registry { return a.components }

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Done is closed once Shutdown has finished, successfully or not.
func (a *App) Done() <-chan struct{} { return a.done }

func (a *App) setState(to State) {
	a.mu.Lock()
	from := a.state
	a.state = to
	a.mu.Unlock()
	a.log.Debug("Application state changed", logger.TransitionFields(from.String(), to.String()))
}

// RegisterService registers a service instance or factory in the container.
// Registrations are singletons unless di.WithSingleton(false) is passed.
func (a *App) RegisterService(name string, svc any, opts ...di.RegisterOption) error {
	if err := a.container.Register(name, svc, opts...); err != nil {
		return err
	}
	a.log.Info("Registered service", map[string]interface{}{logger.FieldService: name})
	return nil
}

// RegisterComponent appends c to the component list. Components are
// initialized and started in registration order and stopped in reverse.
// c is a component.Component or a plain value the registry can adapt; in the
// latter case the component gets the application's logger and tracker.
func (a *App) RegisterComponent(c any, opts ...component.Option) (component.Component, error) {
	defaults := []component.Option{component.WithTracker(a.tracker)}
	if named, ok := c.(interface{ Name() string }); ok {
		defaults = append(defaults, component.WithLogger(a.log.WithComponent(named.Name())))
	}
	comp, err := a.components.Register(c, append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}
	a.log.Info("Registered component", map[string]interface{}{logger.FieldComponent: comp.Name()})
	return comp, nil
}

// GetService resolves a service from the container. It fails with a
// not-registered error when nothing is registered under name.
func (a *App) GetService(ctx context.Context, name string) (any, error) {
	return a.container.Resolve(ctx, name)
}

// Resolve implements di.Resolver.
func (a *App) Resolve(ctx context.Context, name string) (any, error) {
	return a.GetService(ctx, name)
}

var appHealth = observability.StateHealth{
	Up:   []string{StateRunning.String()},
	Down: []string{StateError.String()},
}

// Health aggregates the health of every component. The application itself
// is down in ERROR and degraded in any state other than RUNNING.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(a.name, a.version)
	sh.InstanceID = a.id
	for _, h := range a.components.HealthAll(ctx) {
		sh.AddComponent(h)
	}
	sh.Apply(appHealth.Of(a.name, a.State().String()))
	return sh
}

func (a *App) attrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(observability.AttrInstanceID, a.id),
		attribute.String(observability.AttrEnvironment, a.cfg.Environment),
		attribute.Int(observability.AttrComponentCount, a.components.Len()),
	}
}

func (a *App) handlers(startup bool) []Handler {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if startup {
		return slices.Clone(a.onStartup)
	}
	return slices.Clone(a.onShutdown)
}
