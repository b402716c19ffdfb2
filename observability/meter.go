package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/appkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// InstanceID identifies this process among instances of the service.
	InstanceID string `yaml:"instance_id" mapstructure:"instance_id"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment, config.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the lifecycle metric instruments.
type Metrics struct {
	transitionTotal    metric.Int64Counter
	transitionDuration metric.Float64Histogram
	failureTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	transitionTotal, err := meter.Int64Counter("lifecycle.transitions",
		metric.WithDescription("Completed lifecycle operations by kind, operation and resulting state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle.transitions counter: %w", err)
	}

	transitionDuration, err := meter.Float64Histogram("lifecycle.duration",
		metric.WithDescription("Duration of lifecycle operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle.duration histogram: %w", err)
	}

	failureTotal, err := meter.Int64Counter("lifecycle.failures",
		metric.WithDescription("Failed lifecycle operations by kind and operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lifecycle.failures counter: %w", err)
	}

	return &Metrics{
		transitionTotal:    transitionTotal,
		transitionDuration: transitionDuration,
		failureTotal:       failureTotal,
	}, nil
}

// RecordTransition records a finished lifecycle operation.
func (m *Metrics) RecordTransition(ctx context.Context, kind, name, operation, to string, duration time.Duration) {
	m.transitionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrLifecycleKind, kind),
		attribute.String(AttrLifecycleName, name),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrToState, to),
	))
	m.transitionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrLifecycleKind, kind),
		attribute.String(AttrOperation, operation),
	))
}

// RecordFailure records a failed lifecycle operation.
func (m *Metrics) RecordFailure(ctx context.Context, kind, name, operation string) {
	m.failureTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrLifecycleKind, kind),
		attribute.String(AttrLifecycleName, name),
		attribute.String(AttrOperation, operation),
	))
}
