package session

import (
	"time"

	"github.com/kbukum/livescribe/config"
	"github.com/kbukum/livescribe/diarization/pyannote"
	"github.com/kbukum/livescribe/segmenter"
	"github.com/kbukum/livescribe/server"
	"github.com/kbukum/livescribe/stitcher"
	"github.com/kbukum/livescribe/transcription/whisper"
	"github.com/kbukum/livescribe/vad/energy"
)

// Config is the top-level configuration for a capture session. It embeds the
// base service configuration and composes the per-stage tunables, so the
// whole pipeline loads from one file via config.LoadConfig.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Segmenter segmenter.Config `yaml:"segmenter" mapstructure:"segmenter"`
	Stitcher  stitcher.Config  `yaml:"stitcher" mapstructure:"stitcher"`
	Whisper   whisper.Config   `yaml:"whisper" mapstructure:"whisper"`
	Pyannote  pyannote.Config  `yaml:"pyannote" mapstructure:"pyannote"`
	VAD       energy.Config    `yaml:"vad" mapstructure:"vad"`
	Server    server.Config    `yaml:"server" mapstructure:"server"`

	// ReadyAttempts bounds the startup probe that waits for the recognition
	// engines to become reachable. The probe is best effort; an engine that
	// never comes up degrades health but does not fail Start.
	ReadyAttempts int `yaml:"ready_attempts" mapstructure:"ready_attempts"`

	// ReadyBackoff is the initial backoff between startup probe attempts.
	ReadyBackoff time.Duration `yaml:"ready_backoff" mapstructure:"ready_backoff"`
}

// ApplyDefaults fills zero-valued fields across all stages.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "livescribe"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Segmenter.ApplyDefaults()
	c.Stitcher.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.ReadyAttempts == 0 {
		c.ReadyAttempts = 5
	}
	if c.ReadyBackoff == 0 {
		c.ReadyBackoff = 500 * time.Millisecond
	}
	// The whisper, pyannote and energy providers default their own zero
	// fields at construction.
}

// Validate checks the configuration of every stage.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Segmenter.Validate(); err != nil {
		return err
	}
	if err := c.Stitcher.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
