package transcription

import (
	"context"

	"github.com/kbukum/livescribe/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends an audio span for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Result, error)
}
