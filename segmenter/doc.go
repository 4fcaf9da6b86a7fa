// Package segmenter implements the per-speaker segmentation engine.
//
// The engine keeps one accumulation bucket per speaker label. Every incoming
// frame is appended to its label's bucket and classified for voice activity.
// A bucket flushes when speech has gone quiet past the silence timeout
// (clean boundary), or when it hits the maximum duration with no pause found
// (safety boundary, retaining a short overlap tail in the next generation so
// a split word survives on both sides). Buckets that saw no speech across
// their whole window are discarded instead of flushed.
//
// Remote-source segments long enough to diarize are reattributed to the
// dominant speaker identity before the flush completes; the generic label is
// only kept when diarization fails or finds nothing.
package segmenter
