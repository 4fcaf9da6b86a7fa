// Package provider implements the generic provider pattern used by the
// speech collaborator packages (vad, transcription, diarization).
//
// A Registry holds named factories and cached instances; a Selector picks
// among initialized providers; a Manager ties the two together. Collaborator
// packages expose typed constructors (e.g. transcription.NewRegistry) so
// callers never deal with the generics directly.
package provider
