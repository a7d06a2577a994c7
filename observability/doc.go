// Package observability provides OpenTelemetry tracing and metrics for
// service resolution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("shop"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("shop"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewResolutionMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordConstruction(ctx, "shop.ProductService", "per_scope")
//
// Without InitTracer/InitMeter the global providers are no-ops, so the
// instruments are always safe to use.
package observability
