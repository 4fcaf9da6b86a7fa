package segmenter

import (
	"time"

	"github.com/kbukum/livescribe/validation"
)

// Config holds the segmentation policy tunables. The defaults are tuned for
// conversational meeting audio; the policy shape (silence cut first, safety
// cut second) is fixed.
type Config struct {
	// SilenceTimeout is how long speech must be absent before a clean flush.
	SilenceTimeout time.Duration `json:"silence_timeout" yaml:"silence_timeout" validate:"gt=0"`

	// MinSegment is the accumulation floor below which a silence cut waits.
	MinSegment time.Duration `json:"min_segment" yaml:"min_segment" validate:"gt=0"`

	// MaxSegment is the safety ceiling. A bucket reaching it flushes even
	// without a pause.
	MaxSegment time.Duration `json:"max_segment" yaml:"max_segment" validate:"gt=0,gtfield=MinSegment"`

	// OverlapTail is how much trailing audio a safety flush retains in the
	// next bucket generation.
	OverlapTail time.Duration `json:"overlap_tail" yaml:"overlap_tail" validate:"gte=0"`

	// MinEmit is the shortest segment worth sending to recognition. Shorter
	// flushes are discarded.
	MinEmit time.Duration `json:"min_emit" yaml:"min_emit" validate:"gt=0"`

	// MinDiarizable is the shortest remote segment worth diarizing.
	MinDiarizable time.Duration `json:"min_diarizable" yaml:"min_diarizable" validate:"gt=0"`

	// EnergyThreshold is the RMS fallback used when the VAD provider fails.
	EnergyThreshold float64 `json:"energy_threshold" yaml:"energy_threshold" validate:"gt=0,lt=1"`
}

// ApplyDefaults fills zero-valued fields with the tuned defaults.
func (c *Config) ApplyDefaults() {
	if c.SilenceTimeout == 0 {
		c.SilenceTimeout = 1500 * time.Millisecond
	}
	if c.MinSegment == 0 {
		c.MinSegment = time.Second
	}
	if c.MaxSegment == 0 {
		c.MaxSegment = 15 * time.Second
	}
	if c.OverlapTail == 0 {
		c.OverlapTail = 500 * time.Millisecond
	}
	if c.MinEmit == 0 {
		c.MinEmit = 500 * time.Millisecond
	}
	if c.MinDiarizable == 0 {
		c.MinDiarizable = 2 * time.Second
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = 0.01
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
