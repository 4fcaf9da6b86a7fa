// Package vad defines the voice activity detection provider interface.
//
// The segmentation engine asks a vad.Provider whether each incoming frame
// contains speech. The energy subpackage supplies the default RMS threshold
// classifier; heavier model-backed classifiers plug in through the same
// provider registry used by the transcription and diarization engines.
package vad
