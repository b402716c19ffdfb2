// Package observability provides OpenTelemetry tracing and metrics for the
// application, component and service lifecycles.
//
// Every lifecycle operation is reported through a Tracker as a
// "<kind>.<operation>" span (component.start, application.shutdown, ...)
// and counted in the lifecycle.transitions and lifecycle.failures metrics:
//
//	ctx, op := tracker.Begin(ctx, observability.KindComponent, "cache", "start", "INITIALIZED")
//	err := hook(ctx)
//	op.End(ctx, "STARTED", err)
//
// Exporting:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// or install a Telemetry from the first component of an application so the
// providers live exactly as long as the application runs.
package observability
