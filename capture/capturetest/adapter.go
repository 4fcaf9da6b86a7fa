// Package capturetest provides scripted capture adapters for tests.
package capturetest

import (
	"context"
	"sync"

	"github.com/kbukum/livescribe/audio"
)

// ScriptedAdapter is a capture.Adapter that plays back a fixed frame script.
// An optional FailAfter index makes the adapter fault after emitting that
// many frames, for exercising fault isolation.
type ScriptedAdapter struct {
	AdapterName string
	Src         audio.Source
	Frames      []audio.Frame

	// FailAfter, when >= 0, stops emission after that many frames and
	// records FailErr as the terminal fault.
	FailAfter int
	FailErr   error

	// StartErr, when set, is returned from Start.
	StartErr error

	mu        sync.Mutex
	err       error
	stopCh    chan struct{}
	stopOnce  sync.Once
	started   bool
	stopCalls int
}

// NewScriptedAdapter creates an adapter that emits the given frames and then
// stops cleanly.
func NewScriptedAdapter(name string, src audio.Source, frames []audio.Frame) *ScriptedAdapter {
	return &ScriptedAdapter{
		AdapterName: name,
		Src:         src,
		Frames:      frames,
		FailAfter:   -1,
	}
}

// Name implements capture.Adapter.
func (a *ScriptedAdapter) Name() string { return a.AdapterName }

// Source implements capture.Adapter.
func (a *ScriptedAdapter) Source() audio.Source { return a.Src }

// Start implements capture.Adapter.
func (a *ScriptedAdapter) Start(ctx context.Context) (<-chan audio.Frame, error) {
	if a.StartErr != nil {
		return nil, a.StartErr
	}
	a.mu.Lock()
	a.started = true
	a.stopCh = make(chan struct{})
	stopCh := a.stopCh
	a.mu.Unlock()

	out := make(chan audio.Frame)
	go func() {
		defer close(out)
		for i, f := range a.Frames {
			if a.FailAfter >= 0 && i >= a.FailAfter {
				a.mu.Lock()
				a.err = a.FailErr
				a.mu.Unlock()
				return
			}
			select {
			case out <- f:
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}()
	return out, nil
}

// Stop implements capture.Adapter.
func (a *ScriptedAdapter) Stop() error {
	a.mu.Lock()
	a.stopCalls++
	a.mu.Unlock()
	a.stopOnce.Do(func() {
		a.mu.Lock()
		if a.stopCh != nil {
			close(a.stopCh)
		}
		a.mu.Unlock()
	})
	return nil
}

// Err implements capture.Adapter.
func (a *ScriptedAdapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// StopCalls returns how many times Stop has been invoked.
func (a *ScriptedAdapter) StopCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCalls
}

// SpeechFrame builds a frame of constant-amplitude samples, loud enough to
// pass the default energy gate.
func SpeechFrame(src audio.Source, n int) audio.Frame {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 0.2
	}
	return audio.Frame{Samples: samples, Rate: audio.DefaultSampleRate, Source: src}
}

// SilenceFrame builds a frame of zero samples.
func SilenceFrame(src audio.Source, n int) audio.Frame {
	return audio.Frame{Samples: make([]float32, n), Rate: audio.DefaultSampleRate, Source: src}
}
