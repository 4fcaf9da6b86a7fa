package segmenter

import (
	"time"

	"github.com/kbukum/livescribe/audio"
)

// bucket is the per-speaker accumulation state. All access is serialized by
// the engine's mutex.
type bucket struct {
	label  string
	source audio.Source
	rate   int

	samples        []float32
	speechObserved bool
	lastSpeech     time.Time
	// streamOffset is how much audio this label has already flushed, used as
	// the monotonic diarization offset.
	streamOffset time.Duration
}

func newBucket(f audio.Frame) *bucket {
	return &bucket{
		label:  f.Speaker(),
		source: f.Source,
		rate:   f.Rate,
		// Until speech is seen, silence is measured from bucket creation.
		lastSpeech: f.CapturedAt,
	}
}

func (b *bucket) appendFrame(f audio.Frame) {
	b.samples = append(b.samples, f.Samples...)
}

func (b *bucket) duration() time.Duration {
	return audio.SamplesDuration(len(b.samples), b.rate)
}

// cut extracts the accumulated samples, optionally retaining the final tail
// duration in the bucket as the seed of its next generation. The retained
// tail starts a fresh window: speech must be observed again before the next
// generation can emit.
func (b *bucket) cut(tail time.Duration) []float32 {
	out := b.samples
	keep := audio.DurationSamples(tail, b.rate)
	if keep > 0 && keep < len(out) {
		retained := make([]float32, keep)
		copy(retained, out[len(out)-keep:])
		out = out[:len(out)-keep]
		b.samples = retained
	} else {
		b.samples = nil
	}
	b.streamOffset += audio.SamplesDuration(len(out), b.rate)
	b.speechObserved = false
	return out
}
