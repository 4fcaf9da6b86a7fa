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

	"github.com/kbukum/livescribe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
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

// PipelineMetrics holds the metric instruments for the capture-to-transcript
// pipeline.
type PipelineMetrics struct {
	framesTotal      metric.Int64Counter
	segmentsFlushed  metric.Int64Counter
	segmentsDropped  metric.Int64Counter
	reattributions   metric.Int64Counter
	entriesAppended  metric.Int64Counter
	segmentDuration  metric.Float64Histogram
	transcribeTime   metric.Float64Histogram
	errorTotal       metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	framesTotal, err := meter.Int64Counter("pipeline.frames.total",
		metric.WithDescription("Audio frames ingested, by capture source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.frames.total counter: %w", err)
	}

	segmentsFlushed, err := meter.Int64Counter("pipeline.segments.flushed",
		metric.WithDescription("Segments emitted to recognition, by speaker"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.segments.flushed counter: %w", err)
	}

	segmentsDropped, err := meter.Int64Counter("pipeline.segments.dropped",
		metric.WithDescription("Segments lost to recognition failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.segments.dropped counter: %w", err)
	}

	reattributions, err := meter.Int64Counter("pipeline.reattributions.total",
		metric.WithDescription("Buffers migrated to a diarized speaker label"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.reattributions.total counter: %w", err)
	}

	entriesAppended, err := meter.Int64Counter("pipeline.entries.appended",
		metric.WithDescription("Transcript entries appended, by speaker"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.entries.appended counter: %w", err)
	}

	segmentDuration, err := meter.Float64Histogram("pipeline.segment.duration",
		metric.WithDescription("Duration of flushed segments in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.segment.duration histogram: %w", err)
	}

	transcribeTime, err := meter.Float64Histogram("pipeline.transcribe.duration",
		metric.WithDescription("Recognition round-trip time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.transcribe.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors.total",
		metric.WithDescription("Pipeline errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors.total counter: %w", err)
	}

	return &PipelineMetrics{
		framesTotal:     framesTotal,
		segmentsFlushed: segmentsFlushed,
		segmentsDropped: segmentsDropped,
		reattributions:  reattributions,
		entriesAppended: entriesAppended,
		segmentDuration: segmentDuration,
		transcribeTime:  transcribeTime,
		errorTotal:      errorTotal,
	}, nil
}

// RecordFrame counts one ingested frame for a capture source.
func (m *PipelineMetrics) RecordFrame(ctx context.Context, source string) {
	m.framesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordSegment records a flushed segment and its duration.
func (m *PipelineMetrics) RecordSegment(ctx context.Context, speaker string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("speaker", speaker))
	m.segmentsFlushed.Add(ctx, 1, attrs)
	m.segmentDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSegmentDropped counts a segment lost to a recognition failure.
func (m *PipelineMetrics) RecordSegmentDropped(ctx context.Context, speaker string) {
	m.segmentsDropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("speaker", speaker),
	))
}

// RecordReattribution counts a buffer migrated to a diarized label.
func (m *PipelineMetrics) RecordReattribution(ctx context.Context, speaker string) {
	m.reattributions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("speaker", speaker),
	))
}

// RecordEntry records an appended transcript entry and the recognition
// round-trip that produced it.
func (m *PipelineMetrics) RecordEntry(ctx context.Context, speaker string, transcribeTime time.Duration) {
	attrs := metric.WithAttributes(attribute.String("speaker", speaker))
	m.entriesAppended.Add(ctx, 1, attrs)
	m.transcribeTime.Record(ctx, transcribeTime.Seconds(), attrs)
}

// RecordError records an error by type and component.
func (m *PipelineMetrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
