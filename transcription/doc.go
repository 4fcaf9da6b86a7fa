// Package transcription defines the provider interface and common types
// for interacting with speech-to-text backends.
//
// Requests carry raw sample spans rather than file paths. Segments are
// flushed out of memory straight into the engine, so backends encode the
// samples themselves (the whisper backend ships them as a 16-bit PCM WAV
// multipart upload).
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register("whisper", whisperProvider)
//	result, err := reg.Get("whisper").Transcribe(ctx, req)
package transcription
