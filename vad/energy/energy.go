// Package energy implements voice activity detection by RMS energy threshold.
package energy

import (
	"context"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/provider"
	"github.com/kbukum/livescribe/vad"
)

const (
	// ProviderName is the registered name for the energy VAD provider.
	ProviderName = "energy"

	// DefaultThreshold is the RMS level above which a span counts as speech.
	// Tuned for normalized float32 input in [-1, 1].
	DefaultThreshold = 0.01
)

// Config holds configuration for the energy VAD provider.
type Config struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Provider implements vad.Provider using a simple RMS energy gate.
type Provider struct {
	threshold float64
}

// NewProvider creates a new energy VAD provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &Provider{threshold: cfg.Threshold}
}

// Factory returns a provider.Factory that creates energy VAD instances
// from a generic config map.
func Factory() provider.Factory[vad.Provider] {
	return func(cfg map[string]any) (vad.Provider, error) {
		ec := Config{}
		if v, ok := cfg["threshold"].(float64); ok {
			ec.Threshold = v
		}
		return NewProvider(ec), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true. The gate has no external dependency.
func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// Classify reports whether the span's RMS energy exceeds the threshold.
func (p *Provider) Classify(_ context.Context, samples []float32, _ int) (bool, error) {
	return audio.RMS(samples) >= p.threshold, nil
}
