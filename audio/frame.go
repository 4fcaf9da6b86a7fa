package audio

import "time"

// DefaultSampleRate is the pipeline-wide sample rate. The transcription
// engines only accept 16kHz mono input.
const DefaultSampleRate = 16000

// Source identifies where a frame was captured.
type Source string

const (
	// SourceLocal is the local microphone.
	SourceLocal Source = "local"
	// SourceRemote is system/remote meeting audio.
	SourceRemote Source = "remote"
)

// Speaker labels attached to buckets by construction. Microphone audio is
// always the local user; remote audio stays generic until diarization
// assigns a concrete identity.
const (
	SpeakerLocal   = "Me"
	SpeakerGeneric = "Others"
)

// Frame is an immutable span of mono float32 samples. It is produced once by
// a capture adapter and consumed once by the merger.
type Frame struct {
	// Samples is the raw mono audio. Never mutated after construction.
	Samples []float32
	// Rate is the sample rate in Hz.
	Rate int
	// Source tags which capture adapter produced the frame.
	Source Source
	// CapturedAt is the wall-clock arrival time at the adapter.
	CapturedAt time.Time
}

// Duration returns the play duration of the frame.
func (f Frame) Duration() time.Duration {
	return SamplesDuration(len(f.Samples), f.Rate)
}

// Speaker returns the bucket label this frame belongs to by construction.
func (f Frame) Speaker() string {
	if f.Source == SourceLocal {
		return SpeakerLocal
	}
	return SpeakerGeneric
}

// SamplesDuration converts a sample count at the given rate to a duration.
func SamplesDuration(n, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(rate)
}

// DurationSamples converts a duration at the given rate to a sample count.
func DurationSamples(d time.Duration, rate int) int {
	if d <= 0 || rate <= 0 {
		return 0
	}
	return int(d * time.Duration(rate) / time.Second)
}
