// Package capture defines the audio capture adapter interface and the merger
// that interleaves both capture sources into a single frame stream.
//
// An Adapter wraps one platform capture mechanism (microphone input or
// system loopback audio) and emits audio.Frame values on a channel. The
// Merger starts both adapters, lifts their channels into the pipeline, and
// drains the merged stream into the segmentation engine. A fault in one
// adapter is absorbed and reported; the other source keeps flowing.
package capture
