package observability

import (
	"context"
	"errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TelemetryConfig selects which OTLP exporters a Telemetry installs.
type TelemetryConfig struct {
	Tracing        TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics        MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	TracingEnabled bool         `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool         `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
}

// DefaultTelemetryConfig enables both exporters with development defaults.
func DefaultTelemetryConfig(serviceName string) TelemetryConfig {
	return TelemetryConfig{
		Tracing:        DefaultTracerConfig(serviceName),
		Metrics:        DefaultMeterConfig(serviceName),
		TracingEnabled: true,
		MetricsEnabled: true,
	}
}

// Telemetry installs the OTLP trace and metric providers and flushes and
// shuts them down on stop. Install it from the initialize hook of the first
// registered component so the lifecycle of every later component is
// exported:
//
//	tel := observability.NewTelemetry(cfg)
//	app.RegisterComponent(component.New("telemetry", component.Funcs{
//	    Initialize: func(ctx context.Context, _ component.Host) error { return tel.Install(ctx) },
//	    Stop:       tel.OnStop,
//	}))
type Telemetry struct {
	cfg TelemetryConfig

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewTelemetry creates telemetry for cfg.
func NewTelemetry(cfg TelemetryConfig) *Telemetry {
	return &Telemetry{cfg: cfg}
}

// Install creates the enabled providers and installs them globally. It is a
// no-op while providers from an earlier Install are still running.
func (t *Telemetry) Install(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tp != nil || t.mp != nil {
		return nil
	}
	if t.cfg.TracingEnabled {
		tp, err := InitTracer(ctx, t.cfg.Tracing)
		if err != nil {
			return err
		}
		t.tp = tp
	}
	if t.cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, t.cfg.Metrics)
		if err != nil {
			return errors.Join(err, t.shutdownLocked(ctx))
		}
		t.mp = mp
	}
	return nil
}

// OnStop shuts the providers down, exporting anything still buffered.
func (t *Telemetry) OnStop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdownLocked(ctx)
}

func (t *Telemetry) shutdownLocked(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
		t.tp = nil
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
		t.mp = nil
	}
	return errors.Join(errs...)
}

// TracerProvider returns the installed tracer provider, or nil.
func (t *Telemetry) TracerProvider() *sdktrace.TracerProvider {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tp
}

// MeterProvider returns the installed meter provider, or nil.
func (t *Telemetry) MeterProvider() *sdkmetric.MeterProvider {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mp
}
