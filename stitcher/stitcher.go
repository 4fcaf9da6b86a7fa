package stitcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/livescribe/logger"
	"github.com/kbukum/livescribe/resilience"
	"github.com/kbukum/livescribe/segmenter"
	"github.com/kbukum/livescribe/transcript"
	"github.com/kbukum/livescribe/transcription"
	"github.com/kbukum/livescribe/validation"
)

// Config holds the stitcher tunables.
type Config struct {
	// MaxLookback is how many trailing/leading words the reconciliation
	// search considers.
	MaxLookback int `json:"max_lookback" yaml:"max_lookback" validate:"gt=0"`

	// ReconcileWindow bounds the time gap to the speaker's previous entry
	// for reconciliation to apply. It should cover the segmenter's maximum
	// segment duration plus recognition slack.
	ReconcileWindow time.Duration `json:"reconcile_window" yaml:"reconcile_window" validate:"gt=0"`

	// Language is passed to the transcription engine.
	Language string `json:"language,omitempty" yaml:"language"`
}

// ApplyDefaults fills zero-valued fields with the tuned defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxLookback == 0 {
		c.MaxLookback = 12
	}
	if c.ReconcileWindow == 0 {
		c.ReconcileWindow = 20 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Stitcher transcribes segments and appends reconciled entries to the log.
//
// Submit never blocks on recognition. Failures are absorbed per segment: a
// failed segment is simply absent from the transcript, with no retry, since
// retrying would reintroduce stale, possibly superseded audio. The circuit
// breaker fails segments fast while the engine is down instead of queueing
// doomed calls.
type Stitcher struct {
	cfg     Config
	engine  transcription.Provider
	tlog    *transcript.Log
	breaker *resilience.CircuitBreaker
	log     *logger.Logger

	// onDrop and onEntry, when set, observe segment outcomes. Called from
	// per-segment goroutines; must be safe for concurrent use.
	onDrop  func(speaker string)
	onEntry func(speaker string, transcribeTime time.Duration)

	mu sync.Mutex
	// chains holds, per speaker, the completion signal of the most recently
	// submitted segment. Each new segment waits on its predecessor before
	// appending, so per-speaker append order equals flush order while
	// transcriptions still run concurrently.
	chains map[string]chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Stitcher.
type Option func(*Stitcher)

// WithDropHook sets a callback invoked once per segment dropped to a
// recognition failure.
func WithDropHook(fn func(speaker string)) Option {
	return func(s *Stitcher) { s.onDrop = fn }
}

// WithEntryHook sets a callback invoked after each appended entry with the
// recognition round-trip time.
func WithEntryHook(fn func(speaker string, transcribeTime time.Duration)) Option {
	return func(s *Stitcher) { s.onEntry = fn }
}

// New creates a stitcher that appends to tlog using the given engine.
func New(cfg Config, engine transcription.Provider, tlog *transcript.Log, opts ...Option) (*Stitcher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Stitcher{
		cfg:     cfg,
		engine:  engine,
		tlog:    tlog,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("transcription")),
		log:     logger.Get("stitcher"),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Submit schedules a segment for transcription and append. It returns
// immediately; use Wait to block until all in-flight segments settle.
func (s *Stitcher) Submit(ctx context.Context, seg segmenter.Segment) error {
	s.mu.Lock()
	if s.chains == nil {
		s.chains = make(map[string]chan struct{})
	}
	prev := s.chains[seg.Speaker]
	done := make(chan struct{})
	s.chains[seg.Speaker] = done
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer s.wg.Done()
		s.process(ctx, seg, prev)
	}()
	return nil
}

// Wait blocks until every in-flight segment has completed or failed. Called
// at session stop so no transcript text is lost or appended post-stop.
func (s *Stitcher) Wait() {
	s.wg.Wait()
}

func (s *Stitcher) process(ctx context.Context, seg segmenter.Segment, prev chan struct{}) {
	started := time.Now()
	var res *transcription.Result
	err := s.breaker.Execute(func() error {
		var terr error
		res, terr = s.engine.Transcribe(ctx, transcription.Request{
			Samples:    seg.Samples,
			SampleRate: seg.Rate,
			Language:   s.cfg.Language,
		})
		return terr
	})
	roundTrip := time.Since(started)

	// FIFO per speaker: wait for the predecessor to settle before touching
	// the log, even when this segment failed and appends nothing.
	if prev != nil {
		<-prev
	}

	if err != nil {
		s.log.WithError(err).Warn("segment dropped", logger.Fields(
			logger.FieldSpeaker, seg.Speaker,
			logger.FieldSegmentMS, seg.Duration().Milliseconds(),
		))
		if s.onDrop != nil {
			s.onDrop(seg.Speaker)
		}
		return
	}

	text := s.reconcile(seg, res.Text)
	if text == "" {
		return
	}
	entry := s.tlog.Append(seg.Speaker, text, res.Confidence)
	if s.onEntry != nil {
		s.onEntry(entry.Speaker, roundTrip)
	}
	s.log.Info("entry appended", logger.Fields(
		logger.FieldSpeaker, entry.Speaker,
		logger.FieldEntryID, entry.ID.String(),
		logger.FieldConfidence, entry.Confidence,
		logger.FieldDuration, time.Since(started).Milliseconds(),
	))
}

// reconcile dedupes the new text against the speaker's previous entry.
// Returns the text to append, or "" to append nothing. The gap to the
// previous entry is measured at flush time so recognition latency never
// eats into the window.
func (s *Stitcher) reconcile(seg segmenter.Segment, text string) string {
	words := normalizeWords(text)
	if !hasContent(words) {
		return ""
	}

	last, ok := s.tlog.LastBySpeaker(seg.Speaker)
	if !ok || seg.FlushedAt.Sub(last.Timestamp) > s.cfg.ReconcileWindow {
		return strings.TrimSpace(text)
	}

	k := overlap(normalizeWords(last.Text), words, s.cfg.MaxLookback)
	if k == 0 {
		return strings.TrimSpace(text)
	}
	if k == len(words) {
		// Pure duplicate of the previous boundary.
		s.log.Debug("duplicate segment text discarded", logger.Fields(
			logger.FieldSpeaker, seg.Speaker,
		))
		return ""
	}
	return trimLeadingWords(text, k)
}
