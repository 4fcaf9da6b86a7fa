package stitcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/segmenter"
	"github.com/kbukum/livescribe/transcript"
	"github.com/kbukum/livescribe/transcription"
)

// scriptedEngine maps segment sample counts to canned responses, so
// concurrent calls resolve deterministically regardless of scheduling.
type scriptedEngine struct {
	mu        sync.Mutex
	responses map[int]scriptedResponse
	calls     int
}

type scriptedResponse struct {
	text  string
	err   error
	delay time.Duration
}

func (e *scriptedEngine) Name() string                       { return "scripted" }
func (e *scriptedEngine) IsAvailable(_ context.Context) bool { return true }

func (e *scriptedEngine) Transcribe(_ context.Context, req transcription.Request) (*transcription.Result, error) {
	e.mu.Lock()
	e.calls++
	r := e.responses[len(req.Samples)]
	e.mu.Unlock()
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &transcription.Result{Text: r.text, Confidence: 0.9}, nil
}

func (e *scriptedEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func seg(speaker string, sampleCount int) segmenter.Segment {
	return segmenter.Segment{
		Speaker:   speaker,
		Samples:   make([]float32, sampleCount),
		Rate:      audio.DefaultSampleRate,
		FlushedAt: time.Now(),
	}
}

func newTestStitcher(t *testing.T, engine transcription.Provider, tlog *transcript.Log, cfg Config) *Stitcher {
	t.Helper()
	s, err := New(cfg, engine, tlog)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOverlapReconciliation(t *testing.T) {
	// Boundary overlap from a safety-flush tail collapses: the second entry
	// keeps only its novel suffix.
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "hello there how are you"},
		2000: {text: "there how are you doing"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	entries := tlog.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[1].Text != "doing" {
		t.Errorf("second entry = %q, want %q", entries[1].Text, "doing")
	}
}

func TestFullDuplicate_Discarded(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "so that is done"},
		2000: {text: "so that is done"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	if tlog.Len() != 1 {
		t.Errorf("entries = %d, duplicate should be discarded", tlog.Len())
	}
}

func TestNoOverlap_AppendedVerbatim(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "first utterance here"},
		2000: {text: "a totally separate thought"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	entries := tlog.Entries()
	if len(entries) != 2 || entries[1].Text != "a totally separate thought" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestEmptyAndPunctuationResults_Discarded(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: ""},
		2000: {text: "... !!"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	if tlog.Len() != 0 {
		t.Errorf("entries = %d, want 0", tlog.Len())
	}
}

func TestPerSpeakerOrdering_SurvivesSlowTranscriptions(t *testing.T) {
	// The first segment is slowest. Appends must still land in flush order
	// for the speaker.
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "alpha", delay: 60 * time.Millisecond},
		2000: {text: "bravo", delay: 20 * time.Millisecond},
		3000: {text: "charlie"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	ctx := context.Background()
	s.Submit(ctx, seg("Me", 1000))
	s.Submit(ctx, seg("Me", 2000))
	s.Submit(ctx, seg("Me", 3000))
	s.Wait()

	entries := tlog.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	want := []string{"alpha", "bravo", "charlie"}
	for i, w := range want {
		if entries[i].Text != w {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Text, w)
		}
	}
}

func TestRecognitionFailure_SegmentAbsent(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {err: errors.New("engine crashed")},
		2000: {text: "still alive"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	entries := tlog.Entries()
	if len(entries) != 1 || entries[0].Text != "still alive" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestCircuitBreaker_FailsFastWhileEngineDown(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {err: errors.New("engine down")},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	// Default breaker opens after 5 failures; later segments are dropped
	// without reaching the engine.
	for range 8 {
		s.Submit(context.Background(), seg("Me", 1000))
		s.Wait()
	}

	if got := engine.callCount(); got != 5 {
		t.Errorf("engine calls = %d, want 5 before the circuit opens", got)
	}
	if tlog.Len() != 0 {
		t.Errorf("entries = %d, want 0", tlog.Len())
	}
}

func TestReconcileWindow_ExpiredGapSkipsDedupe(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "see you tomorrow"},
		2000: {text: "tomorrow we start fresh"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{ReconcileWindow: time.Nanosecond})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	time.Sleep(5 * time.Millisecond)
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	entries := tlog.Entries()
	if len(entries) != 2 || entries[1].Text != "tomorrow we start fresh" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestReconcileWindow_MeasuredAtFlushTime(t *testing.T) {
	// Recognition latency must not consume the window: the gap is taken
	// between the flush decision and the previous entry, so a slow engine
	// cannot turn a boundary duplicate into a fresh utterance.
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "see you then"},
		2000: {text: "see you then", delay: 60 * time.Millisecond},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{ReconcileWindow: 20 * time.Millisecond})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Me", 2000))
	s.Wait()

	if tlog.Len() != 1 {
		t.Errorf("entries = %d, want 1 with the slow duplicate discarded", tlog.Len())
	}
}

func TestSpeakersReconcileIndependently(t *testing.T) {
	engine := &scriptedEngine{responses: map[int]scriptedResponse{
		1000: {text: "shared closing words"},
		2000: {text: "shared closing words"},
	}}
	tlog := transcript.NewLog()
	s := newTestStitcher(t, engine, tlog, Config{})

	s.Submit(context.Background(), seg("Me", 1000))
	s.Wait()
	s.Submit(context.Background(), seg("Speaker 1", 2000))
	s.Wait()

	// Identical text from a different speaker is not a duplicate.
	if tlog.Len() != 2 {
		t.Errorf("entries = %d, want 2", tlog.Len())
	}
}
