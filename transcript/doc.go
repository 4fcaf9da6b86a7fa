// Package transcript implements the append-only, speaker-labeled transcript
// log.
//
// Entries are immutable once appended; reconciliation happens before append,
// never retroactively. Subscribers receive each entry as it lands, which is
// how the SSE layer streams the live transcript.
package transcript
