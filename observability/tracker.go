package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Lifecycle kinds reported on spans and metrics.
const (
	KindApplication = "application"
	KindComponent   = "component"
	KindService     = "service"
)

// Tracker turns lifecycle operations into spans and metrics. Each operation
// gets a "<kind>.<operation>" span carrying the state it left and the state
// it ended in.
type Tracker struct {
	tracer  trace.Tracer
	metrics *Metrics
}

// NewTracker creates a tracker on the given providers.
func NewTracker(tp trace.TracerProvider, mp metric.MeterProvider) (*Tracker, error) {
	metrics, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return &Tracker{
		tracer:  tp.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

// DefaultTracker creates a tracker on the global providers. Until InitTracer
// and InitMeter (or a Telemetry hook) install real providers, recording is a no-op.
func DefaultTracker() *Tracker {
	t, err := NewTracker(otel.GetTracerProvider(), otel.GetMeterProvider())
	if err != nil {
		return NopTracker()
	}
	return t
}

// NopTracker returns a tracker that records nothing.
func NopTracker() *Tracker {
	t, _ := NewTracker(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	return t
}

// Operation is an in-flight lifecycle operation started by Begin.
type Operation struct {
	tracker   *Tracker
	span      trace.Span
	kind      string
	name      string
	operation string
	start     time.Time
}

// Begin starts a span for operation on the named unit, leaving state from.
func (t *Tracker) Begin(ctx context.Context, kind, name, operation, from string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := t.tracer.Start(ctx, kind+"."+operation, trace.WithAttributes(
		attribute.String(AttrLifecycleKind, kind),
		attribute.String(AttrLifecycleName, name),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrFromState, from),
	))
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, &Operation{
		tracker:   t,
		span:      span,
		kind:      kind,
		name:      name,
		operation: operation,
		start:     time.Now(),
	}
}

// End finishes the operation in state to. A non-nil err marks the span as
// failed and counts a failure.
func (op *Operation) End(ctx context.Context, to string, err error) {
	duration := time.Since(op.start)

	op.span.SetAttributes(
		attribute.String(AttrToState, to),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.tracker.metrics.RecordFailure(ctx, op.kind, op.name, op.operation)
	} else {
		op.span.SetStatus(codes.Ok, "")
	}
	op.span.End()

	op.tracker.metrics.RecordTransition(ctx, op.kind, op.name, op.operation, to, duration)
}
