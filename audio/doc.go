// Package audio defines the core sample types shared across the capture,
// segmentation, and engine packages.
//
// A Frame is an immutable span of mono float32 samples tagged with its
// capture source and arrival time. Helpers cover RMS energy, duration math,
// and 16-bit PCM WAV encoding for the HTTP engine sidecars.
package audio
