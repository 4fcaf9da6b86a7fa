// Package diarization defines the provider interface and common types
// for interacting with speaker diarization backends.
//
// The segmentation engine runs diarization on remote-source segments long
// enough to carry more than one voice, then reattributes the segment to the
// dominant speaker. Dominant implements that vote over the returned
// speaker-attributed time ranges.
//
// # Backends
//
//   - diarization/pyannote: Pyannote HTTP sidecar
//
// # Usage
//
//	reg := diarization.NewRegistry()
//	reg.Register("pyannote", pyannoteProvider)
//	result, err := reg.Get("pyannote").Diarize(ctx, req)
package diarization
