package transcription

import "time"

// Request holds the audio span and parameters for a transcription call.
type Request struct {
	// Samples is the mono audio to transcribe.
	Samples []float32 `json:"-"`
	// SampleRate is the sample rate of Samples in Hz.
	SampleRate int `json:"sample_rate"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`
}

// Result holds the outcome of a transcription call.
type Result struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Confidence is the backend's confidence in [0, 1], 0 if not reported.
	Confidence float64 `json:"confidence,omitempty"`
	// Duration is the audio duration as measured by the backend.
	Duration time.Duration `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}
