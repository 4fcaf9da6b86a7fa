package diarization

import "time"

// Request holds the audio span and parameters for a diarization call.
type Request struct {
	// Samples is the mono audio to diarize.
	Samples []float32 `json:"-"`
	// SampleRate is the sample rate of Samples in Hz.
	SampleRate int `json:"sample_rate"`
	// Offset is the span's position in the session's stream. Stateless
	// backends ignore it; stateful ones require it to be monotonically
	// increasing across calls.
	Offset time.Duration `json:"offset,omitempty"`
	// NumSpeakers is the exact number of speakers (0 = auto-detect).
	NumSpeakers int `json:"num_speakers,omitempty"`
	// MinSpeakers is the minimum expected number of speakers.
	MinSpeakers int `json:"min_speakers,omitempty"`
	// MaxSpeakers is the maximum expected number of speakers.
	MaxSpeakers int `json:"max_speakers,omitempty"`
}

// Result holds the outcome of a diarization call.
type Result struct {
	// Segments contains speaker-attributed time segments.
	Segments []Segment `json:"segments"`
	// NumSpeakers is the number of speakers detected.
	NumSpeakers int `json:"num_speakers"`
}

// Segment represents a speaker-attributed time range within the span.
type Segment struct {
	// Speaker is the backend's speaker label (e.g. "SPEAKER_00").
	Speaker string `json:"speaker"`
	// Start is the segment start time in seconds, relative to the span.
	Start float64 `json:"start"`
	// End is the segment end time in seconds, relative to the span.
	End float64 `json:"end"`
}

// Dominant returns the speaker label that covers the most total time across
// the segments, and the fraction of attributed time it covers. Returns
// ("", 0) when there are no segments.
func Dominant(segments []Segment) (string, float64) {
	if len(segments) == 0 {
		return "", 0
	}
	coverage := make(map[string]float64)
	var total float64
	for _, seg := range segments {
		d := seg.End - seg.Start
		if d <= 0 {
			continue
		}
		coverage[seg.Speaker] += d
		total += d
	}
	if total == 0 {
		return "", 0
	}
	var best string
	var bestTime float64
	for speaker, t := range coverage {
		if t > bestTime || (t == bestTime && speaker < best) {
			best = speaker
			bestTime = t
		}
	}
	return best, bestTime / total
}
