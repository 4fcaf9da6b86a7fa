// Package observability provides OpenTelemetry tracing and metrics for the
// capture-to-transcript pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("livescribe"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("livescribe"))
//	metrics.RecordSegment(ctx, "Me", seg.Duration())
//
// Health:
//
//	health := observability.NewServiceHealth("livescribe", version.Version)
//	health.AddComponent(observability.Health{Name: "whisper", Status: observability.HealthStatusUp})
package observability
