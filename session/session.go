package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/capture"
	"github.com/kbukum/livescribe/component"
	"github.com/kbukum/livescribe/diarization"
	"github.com/kbukum/livescribe/diarization/pyannote"
	apperrors "github.com/kbukum/livescribe/errors"
	"github.com/kbukum/livescribe/logger"
	"github.com/kbukum/livescribe/observability"
	"github.com/kbukum/livescribe/pipeline"
	"github.com/kbukum/livescribe/resilience"
	"github.com/kbukum/livescribe/segmenter"
	"github.com/kbukum/livescribe/stitcher"
	"github.com/kbukum/livescribe/transcript"
	"github.com/kbukum/livescribe/transcription"
	"github.com/kbukum/livescribe/transcription/whisper"
	"github.com/kbukum/livescribe/vad"
	"github.com/kbukum/livescribe/vad/energy"
)

const componentName = "capture-session"

// Session wires the full capture-to-transcript pipeline: merged adapter
// frames feed the segmentation engine, flushed segments feed the stitcher,
// and reconciled entries land in the transcript log.
//
// Session implements component.Component. Start and Stop are idempotent;
// Stop drains buffered audio through recognition before returning so no
// captured speech is silently lost.
type Session struct {
	cfg     Config
	merger  *capture.Merger
	engine  *segmenter.Engine
	stitch  *stitcher.Stitcher
	tlog    *transcript.Log
	sources []string

	transcriber transcription.Provider
	diarizer    diarization.Provider
	vadProvider vad.Provider
	metrics     *observability.PipelineMetrics

	log *logger.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	drainDone chan struct{}

	mu      sync.Mutex
	running bool
}

// Option configures a Session.
type Option func(*Session)

// WithTranscriptLog sets the transcript log the session appends to. Without
// it the session creates its own.
func WithTranscriptLog(tlog *transcript.Log) Option {
	return func(s *Session) { s.tlog = tlog }
}

// WithMetrics enables pipeline instrumentation.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithTranscriber overrides the configured transcription provider.
func WithTranscriber(p transcription.Provider) Option {
	return func(s *Session) { s.transcriber = p }
}

// WithDiarizer overrides the configured diarization provider.
func WithDiarizer(p diarization.Provider) Option {
	return func(s *Session) { s.diarizer = p }
}

// WithVAD overrides the configured voice activity provider.
func WithVAD(p vad.Provider) Option {
	return func(s *Session) { s.vadProvider = p }
}

// New assembles a session over the given capture adapters.
func New(cfg Config, adapters []capture.Adapter, opts ...Option) (*Session, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg: cfg,
		log: logger.Get("session"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.tlog == nil {
		s.tlog = transcript.NewLog()
	}
	for _, a := range adapters {
		s.sources = append(s.sources, a.Name())
	}

	if err := s.resolveProviders(); err != nil {
		return nil, err
	}

	var sopts []stitcher.Option
	if s.metrics != nil {
		sopts = append(sopts,
			stitcher.WithDropHook(func(speaker string) {
				s.metrics.RecordSegmentDropped(context.Background(), speaker)
			}),
			stitcher.WithEntryHook(func(speaker string, transcribeTime time.Duration) {
				s.metrics.RecordEntry(context.Background(), speaker, transcribeTime)
			}),
		)
	}
	stitch, err := stitcher.New(cfg.Stitcher, s.transcriber, s.tlog, sopts...)
	if err != nil {
		return nil, err
	}
	s.stitch = stitch

	eopts := []segmenter.Option{segmenter.WithVAD(s.vadProvider)}
	if s.diarizer != nil {
		eopts = append(eopts, segmenter.WithDiarization(s.diarizer))
	}
	if s.metrics != nil {
		eopts = append(eopts, segmenter.WithReattributionHook(func(label string) {
			s.metrics.RecordReattribution(context.Background(), label)
		}))
	}
	engine, err := segmenter.NewEngine(cfg.Segmenter, s.handleSegment, eopts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	s.merger = capture.NewMerger(adapters, capture.WithFaultFunc(func(adapter string, err error) {
		if s.metrics != nil {
			s.metrics.RecordError(context.Background(), "capture", adapter)
		}
	}))
	return s, nil
}

// resolveProviders builds the default engine providers through the provider
// managers for any slot an Option did not fill.
func (s *Session) resolveProviders() error {
	if s.transcriber == nil {
		tm := transcription.NewManager()
		tm.Register(whisper.ProviderName, whisper.Factory())
		if err := tm.Initialize(whisper.ProviderName, map[string]any{
			"url":      s.cfg.Whisper.URL,
			"model":    s.cfg.Whisper.Model,
			"language": s.cfg.Whisper.Language,
			"timeout":  s.cfg.Whisper.Timeout,
		}); err != nil {
			return err
		}
		p, err := tm.GetByName(whisper.ProviderName)
		if err != nil {
			return err
		}
		s.transcriber = p
	}
	if s.diarizer == nil {
		dm := diarization.NewManager()
		dm.Register(pyannote.ProviderName, pyannote.Factory())
		if err := dm.Initialize(pyannote.ProviderName, map[string]any{
			"base_url": s.cfg.Pyannote.BaseURL,
			"timeout":  s.cfg.Pyannote.Timeout,
		}); err != nil {
			return err
		}
		p, err := dm.GetByName(pyannote.ProviderName)
		if err != nil {
			return err
		}
		s.diarizer = p
	}
	if s.vadProvider == nil {
		vm := vad.NewManager()
		vm.Register(energy.ProviderName, energy.Factory())
		if err := vm.Initialize(energy.ProviderName, map[string]any{
			"threshold": s.cfg.VAD.Threshold,
		}); err != nil {
			return err
		}
		p, err := vm.GetByName(energy.ProviderName)
		if err != nil {
			return err
		}
		s.vadProvider = p
	}

	s.transcriber = tracedTranscriber{inner: s.transcriber, metrics: s.metrics}
	s.diarizer = tracedDiarizer{inner: s.diarizer, metrics: s.metrics}
	return nil
}

// handleSegment is the segmenter's flush sink.
func (s *Session) handleSegment(ctx context.Context, seg segmenter.Segment) error {
	if s.metrics != nil {
		s.metrics.RecordSegment(ctx, seg.Speaker, seg.Duration())
	}
	return s.stitch.Submit(ctx, seg)
}

// Name implements component.Component.
func (s *Session) Name() string { return componentName }

// Start begins capture and runs the pipeline until Stop or until every
// adapter's stream ends. Idempotent; only the first call does work.
//
// The passed context governs startup only. The running pipeline uses its own
// lifetime context, cancelled by Stop.
func (s *Session) Start(ctx context.Context) error {
	var err error
	s.startOnce.Do(func() { err = s.start(ctx) })
	return err
}

func (s *Session) start(ctx context.Context) error {
	s.waitForEngines(ctx)

	runCtx, cancel := context.WithCancel(context.Background())
	stream, err := s.merger.Start(runCtx)
	if err != nil {
		cancel()
		return err
	}
	s.cancel = cancel

	if s.metrics != nil {
		stream = pipeline.Tap(stream, func(ctx context.Context, f audio.Frame) error {
			s.metrics.RecordFrame(ctx, string(f.Source))
			return nil
		})
	}

	runnable := pipeline.Drain(stream, s.engine.Process)
	s.drainDone = make(chan struct{})
	go func() {
		defer close(s.drainDone)
		if err := runnable.Run(runCtx); err != nil && runCtx.Err() == nil {
			s.log.WithError(err).Error("pipeline terminated")
		}
	}()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	s.log.Info("session started", logger.Fields(
		logger.FieldSource, strings.Join(s.sources, ","),
		logger.FieldProvider, s.transcriber.Name(),
	))
	return nil
}

// waitForEngines probes engine reachability with backoff so a session
// started alongside its sidecars does not drop its first segments. Best
// effort: an engine that stays down degrades health instead of failing
// Start, and the stitcher's circuit breaker handles it from there.
func (s *Session) waitForEngines(ctx context.Context) {
	cfg := resilience.RetryConfig{
		MaxAttempts:    s.cfg.ReadyAttempts,
		InitialBackoff: s.cfg.ReadyBackoff,
		BackoffFactor:  2.0,
		Jitter:         0.1,
	}
	err := resilience.RetryFunc(ctx, cfg, func() error {
		if !s.transcriber.IsAvailable(ctx) {
			return apperrors.EngineUnavailable(s.transcriber.Name())
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Warn("transcription engine not reachable at startup")
	}
}

// Stop halts capture, drains buffered audio through recognition and waits
// for in-flight segments to settle. Idempotent. The context bounds how long
// the drain may take; on expiry the pipeline is cancelled outright.
func (s *Session) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { s.stop(ctx) })
	return nil
}

func (s *Session) stop(ctx context.Context) {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()
	if !wasRunning {
		return
	}

	// Stopping the adapters closes their frame channels, which ends the
	// merged stream and lets the drain goroutine finish on its own.
	if err := s.merger.Stop(); err != nil {
		s.log.WithError(err).Warn("capture stop reported an error")
	}
	select {
	case <-s.drainDone:
	case <-ctx.Done():
		s.cancel()
		<-s.drainDone
	}

	s.engine.ForceFlushAll(ctx)
	s.stitch.Wait()
	s.cancel()

	s.log.Info("session stopped", logger.Fields(
		"entries", s.tlog.Len(),
	))
}

// Done returns a channel closed when the capture stream has ended, whether
// from Stop or from every adapter finishing. Returns a closed channel if the
// session never started.
func (s *Session) Done() <-chan struct{} {
	if s.drainDone == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.drainDone
}

// Transcript returns the log the session appends to.
func (s *Session) Transcript() *transcript.Log { return s.tlog }

// Health implements component.Component. A running session with an
// unreachable transcription engine reports degraded: capture continues and
// segments drop until the engine returns.
func (s *Session) Health(ctx context.Context) component.Health {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if !running {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "not running",
		}
	}
	if !s.transcriber.IsAvailable(ctx) {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("%s engine unreachable", s.transcriber.Name()),
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d entries", s.tlog.Len()),
	}
}

// Describe implements component.Describable.
func (s *Session) Describe() component.Description {
	return component.Description{
		Name:    "Capture Session",
		Type:    "session",
		Details: fmt.Sprintf("sources=%s rate=%d", strings.Join(s.sources, ","), audio.DefaultSampleRate),
	}
}
