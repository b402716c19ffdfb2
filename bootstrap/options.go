package bootstrap

import (
	"io"
	"os"

	"github.com/kbukum/appkit/di"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
)

// Option configures the App during creation.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger     *logger.Logger
	container  *di.Container
	tracker    *observability.Tracker
	signals    []os.Signal
	summaryOut io.Writer
	version    string
	telemetry  *observability.TelemetryConfig
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, a logger is created from the log_level option.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithContainer sets a custom DI container for the application.
func WithContainer(c *di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}

// WithTracker sets the tracker recording lifecycle spans and metrics for the
// application and every component it creates.
func WithTracker(t *observability.Tracker) Option {
	return func(o *appOptions) {
		o.tracker = t
	}
}

// WithSignals replaces the signals that trigger Shutdown during Run.
// Defaults to SIGINT and SIGTERM. Passing none disables the signal watcher.
func WithSignals(signals ...os.Signal) Option {
	return func(o *appOptions) {
		if signals == nil {
			signals = []os.Signal{}
		}
		o.signals = signals
	}
}

// WithSummary prints the startup summary to w once Run has started every
// component.
func WithSummary(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}

// WithVersion sets the version reported in health and the startup summary.
func WithVersion(v string) Option {
	return func(o *appOptions) {
		o.version = v
	}
}

// WithTelemetry registers an OTLP telemetry component ahead of every other
// component. Its exporters are installed when it initializes and shut down
// after every other component has stopped.
func WithTelemetry(cfg observability.TelemetryConfig) Option {
	return func(o *appOptions) {
		o.telemetry = &cfg
	}
}
