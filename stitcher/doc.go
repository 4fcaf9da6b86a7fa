// Package stitcher turns finalized audio segments into transcript entries.
//
// Each submitted segment is transcribed on its own goroutine so recognition
// latency never blocks ingestion. Appends are chained per speaker: entry
// order for a label equals flush-completion order, while transcriptions for
// different segments still run concurrently. Before appending, the new text
// is reconciled against the speaker's previous entry by suffix/prefix
// word-overlap matching, so the duplicate words introduced by safety-flush
// overlap tails collapse away.
package stitcher
