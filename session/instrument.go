package session

import (
	"context"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/diarization"
	"github.com/kbukum/livescribe/observability"
	"github.com/kbukum/livescribe/transcription"
)

// tracedTranscriber wraps a transcription provider with a span per call and
// an error counter. Metrics may be nil; spans are no-ops without a tracer
// provider.
type tracedTranscriber struct {
	inner   transcription.Provider
	metrics *observability.PipelineMetrics
}

func (t tracedTranscriber) Name() string { return t.inner.Name() }

func (t tracedTranscriber) IsAvailable(ctx context.Context) bool {
	return t.inner.IsAvailable(ctx)
}

func (t tracedTranscriber) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs,
		audio.SamplesDuration(len(req.Samples), req.SampleRate).Milliseconds())

	res, err := t.inner.Transcribe(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if t.metrics != nil {
			t.metrics.RecordError(ctx, "transcription", t.inner.Name())
		}
		return nil, err
	}
	return res, nil
}

// tracedDiarizer is the diarization counterpart of tracedTranscriber.
type tracedDiarizer struct {
	inner   diarization.Provider
	metrics *observability.PipelineMetrics
}

func (t tracedDiarizer) Name() string { return t.inner.Name() }

func (t tracedDiarizer) IsAvailable(ctx context.Context) bool {
	return t.inner.IsAvailable(ctx)
}

func (t tracedDiarizer) Diarize(ctx context.Context, req diarization.Request) (*diarization.Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDiarize)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs,
		audio.SamplesDuration(len(req.Samples), req.SampleRate).Milliseconds())

	res, err := t.inner.Diarize(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if t.metrics != nil {
			t.metrics.RecordError(ctx, "diarization", t.inner.Name())
		}
		return nil, err
	}
	return res, nil
}
