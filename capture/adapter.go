package capture

import (
	"context"

	"github.com/kbukum/livescribe/audio"
)

// Adapter is a single platform audio capture source.
//
// Start begins capture and returns the frame channel. The adapter owns the
// channel and closes it when capture ends, whether from Stop, context
// cancellation, or a device fault. After the channel closes, Err reports the
// terminal fault, or nil for a clean stop.
type Adapter interface {
	// Name identifies the adapter for logging and fault reporting.
	Name() string

	// Source tags the frames this adapter produces.
	Source() audio.Source

	// Start begins capture. The returned channel is closed when capture ends.
	Start(ctx context.Context) (<-chan audio.Frame, error)

	// Stop terminates capture. Safe to call multiple times and before Start.
	Stop() error

	// Err returns the terminal capture fault after the frame channel closes,
	// or nil if capture ended cleanly.
	Err() error
}
