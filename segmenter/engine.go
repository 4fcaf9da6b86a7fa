package segmenter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/diarization"
	"github.com/kbukum/livescribe/logger"
	"github.com/kbukum/livescribe/vad"
)

// Segment is a bounded audio span extracted from a bucket at flush time.
// Immutable once emitted; consumed once by the stitcher.
type Segment struct {
	// Speaker is the label the segment is attributed to.
	Speaker string
	// Samples is the extracted audio.
	Samples []float32
	// Rate is the sample rate in Hz.
	Rate int
	// Source is the capture source the audio arrived from.
	Source audio.Source
	// FlushedAt is when the flush decision was made, in stream time.
	FlushedAt time.Time
}

// Duration returns the segment's play duration.
func (s Segment) Duration() time.Duration {
	return audio.SamplesDuration(len(s.Samples), s.Rate)
}

// FlushFunc receives finalized segments. Errors are logged and absorbed; a
// failed hand-off never stops ingestion.
type FlushFunc func(ctx context.Context, seg Segment) error

// Engine is the per-speaker segmentation state machine.
//
// All timing is derived from frame capture timestamps, not the wall clock,
// so behavior is deterministic for a given frame sequence. Process and
// ForceFlushAll serialize on an internal mutex: a flush-and-reattribute is
// atomic with respect to the next frame for either label.
type Engine struct {
	cfg   Config
	vad   vad.Provider
	diar  diarization.Provider
	flush FlushFunc
	log   *logger.Logger

	// onReattr, when set, observes each bucket migration to a diarized
	// label. Called with the engine mutex held; must not block.
	onReattr func(label string)

	mu      sync.Mutex
	buckets map[string]*bucket
	// identities maps backend speaker ids to session labels. A diarized
	// label persists for the whole session.
	identities  map[string]string
	nextSpeaker int
	// remoteOffset is the remote stream position already consumed by
	// diarization. It outlives individual generic buckets, which are
	// deleted on migration, so offsets stay monotonic across the session.
	remoteOffset time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithVAD sets the voice activity provider. Without one, or when the
// provider fails, the engine falls back to the RMS energy threshold.
func WithVAD(p vad.Provider) Option {
	return func(e *Engine) { e.vad = p }
}

// WithDiarization sets the diarization provider used to reattribute
// remote-source segments. Without one, remote audio stays generic.
func WithDiarization(p diarization.Provider) Option {
	return func(e *Engine) { e.diar = p }
}

// WithReattributionHook sets a callback invoked after a pending buffer is
// migrated to a diarized speaker label.
func WithReattributionHook(fn func(label string)) Option {
	return func(e *Engine) { e.onReattr = fn }
}

// NewEngine creates a segmentation engine that hands finalized segments to
// flush.
func NewEngine(cfg Config, flush FlushFunc, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:         cfg,
		flush:       flush,
		log:         logger.Get("segmenter"),
		buckets:     make(map[string]*bucket),
		identities:  make(map[string]string),
		nextSpeaker: 1,
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Process ingests one frame, appending it to its label's bucket and applying
// the flush policy. Safe for use as a pipeline.Drain sink.
func (e *Engine) Process(ctx context.Context, f audio.Frame) error {
	if len(f.Samples) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	label := f.Speaker()
	b, ok := e.buckets[label]
	if !ok {
		b = newBucket(f)
		if label == audio.SpeakerGeneric {
			// A fresh generic bucket picks up the remote stream where the
			// previous generation left off.
			b.streamOffset = e.remoteOffset
		}
		e.buckets[label] = b
	}

	// Raw samples are appended unconditionally. Silence around speech is
	// kept pre-flush because the recognition engine benefits from context.
	b.appendFrame(f)

	now := f.CapturedAt.Add(f.Duration())
	if e.classify(ctx, f.Samples, f.Rate) {
		b.lastSpeech = now
		b.speechObserved = true
	}

	silence := now.Sub(b.lastSpeech)
	dur := b.duration()

	switch {
	case silence >= e.cfg.SilenceTimeout && dur >= e.cfg.MinSegment:
		// Natural pause: clean boundary, no retained tail.
		e.flushLocked(ctx, b, 0, now)
		b.lastSpeech = now
	case dur >= e.cfg.MaxSegment:
		// Run-on speech: safety cut with an overlap tail so a split word
		// survives on both sides of the boundary.
		e.flushLocked(ctx, b, e.cfg.OverlapTail, now)
	}
	return nil
}

// ForceFlushAll flushes every non-empty bucket with no tail retention. Used
// at session stop so no buffered speech is lost.
func (e *Engine) ForceFlushAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.buckets {
		if len(b.samples) > 0 {
			e.flushLocked(ctx, b, 0, b.lastSpeech)
		}
	}
}

// Reset clears all buckets and diarized identities. Speaker numbering
// restarts on the next session.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buckets = make(map[string]*bucket)
	e.identities = make(map[string]string)
	e.nextSpeaker = 1
	e.remoteOffset = 0
}

// classify runs the VAD provider, falling back to the RMS threshold when the
// provider is missing or fails. Classifier faults are never fatal.
func (e *Engine) classify(ctx context.Context, samples []float32, rate int) bool {
	if e.vad != nil {
		speech, err := e.vad.Classify(ctx, samples, rate)
		if err == nil {
			return speech
		}
		e.log.WithError(err).Warn("vad classify failed, using energy fallback")
	}
	return audio.RMS(samples) >= e.cfg.EnergyThreshold
}

// flushLocked cuts the bucket and emits the segment. Caller holds e.mu.
func (e *Engine) flushLocked(ctx context.Context, b *bucket, tail time.Duration, now time.Time) {
	// Reattribute remote audio before the cut so the emitted segment and
	// any retained tail both live under the diarized label.
	if b.label == audio.SpeakerGeneric && b.speechObserved && b.duration() >= e.cfg.MinDiarizable {
		b = e.reattributeLocked(ctx, b)
	}

	speechObserved := b.speechObserved
	dur := b.duration()
	samples := b.cut(tail)

	if !speechObserved {
		e.log.Debug("discarding silent window", logger.Fields(
			logger.FieldSpeaker, b.label,
			logger.FieldSegmentMS, dur.Milliseconds(),
		))
		return
	}
	emitted := audio.SamplesDuration(len(samples), b.rate)
	if emitted < e.cfg.MinEmit {
		e.log.Debug("discarding undersized segment", logger.Fields(
			logger.FieldSpeaker, b.label,
			logger.FieldSegmentMS, emitted.Milliseconds(),
		))
		return
	}

	seg := Segment{
		Speaker:   b.label,
		Samples:   samples,
		Rate:      b.rate,
		Source:    b.source,
		FlushedAt: now,
	}
	e.log.Debug("segment flushed", logger.Fields(
		logger.FieldSpeaker, seg.Speaker,
		logger.FieldSegmentMS, seg.Duration().Milliseconds(),
		logger.FieldSamples, len(seg.Samples),
	))
	if err := e.flush(ctx, seg); err != nil {
		e.log.WithError(err).Error("segment hand-off failed", logger.Fields(
			logger.FieldSpeaker, seg.Speaker,
		))
	}
}

// reattributeLocked diarizes the pending buffer and migrates it to the
// dominant speaker's session label. Diarization failure or an empty result
// leaves the generic bucket untouched. Caller holds e.mu.
func (e *Engine) reattributeLocked(ctx context.Context, b *bucket) *bucket {
	if e.diar == nil {
		return b
	}
	res, err := e.diar.Diarize(ctx, diarization.Request{
		Samples:    b.samples,
		SampleRate: b.rate,
		Offset:     b.streamOffset,
	})
	if err != nil {
		e.log.WithError(err).Warn("diarization failed, keeping generic label")
		return b
	}
	identity, _ := diarization.Dominant(res.Segments)
	if identity == "" {
		return b
	}

	// Everything in this buffer has now been diarized; the next generic
	// generation resumes from here.
	e.remoteOffset = b.streamOffset + audio.SamplesDuration(len(b.samples), b.rate)

	label, ok := e.identities[identity]
	if !ok {
		label = fmt.Sprintf("Speaker %d", e.nextSpeaker)
		e.nextSpeaker++
		e.identities[identity] = label
	}

	target, exists := e.buckets[label]
	if exists {
		// The label already has a live bucket (a retained tail from an
		// earlier safety flush). Fold the pending audio into it.
		target.samples = append(target.samples, b.samples...)
		target.speechObserved = target.speechObserved || b.speechObserved
		if b.lastSpeech.After(target.lastSpeech) {
			target.lastSpeech = b.lastSpeech
		}
	} else {
		b.label = label
		e.buckets[label] = b
		target = b
	}
	delete(e.buckets, audio.SpeakerGeneric)

	e.log.Info("buffer reattributed", logger.Fields(
		logger.FieldSpeaker, label,
		logger.FieldProvider, e.diar.Name(),
	))
	if e.onReattr != nil {
		e.onReattr(label)
	}
	return target
}
