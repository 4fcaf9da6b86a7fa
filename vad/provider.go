package vad

import (
	"context"

	"github.com/kbukum/livescribe/provider"
)

// Provider is the interface that voice activity detectors must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Classify reports whether the sample span contains speech.
	Classify(ctx context.Context, samples []float32, sampleRate int) (bool, error)
}
