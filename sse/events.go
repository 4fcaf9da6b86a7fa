package sse

import (
	"encoding/json"

	"github.com/kbukum/livescribe/transcript"
)

// Event type constants.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive is used for keep-alive comments.
	EventTypeKeepAlive = "keepalive"

	// EventTypeEntry carries one appended transcript entry.
	EventTypeEntry = "entry"

	// EventTypeCleared notifies clients that the transcript was cleared.
	EventTypeCleared = "cleared"

	// EventTypeError is sent when an error occurs.
	EventTypeError = "error"
)

// TranscriptPattern matches every transcript stream client.
const TranscriptPattern = "transcript:*"

// entryEvent is the wire form of a transcript entry event.
type entryEvent struct {
	Type  string           `json:"type"`
	Entry transcript.Entry `json:"entry"`
}

// EncodeEntry serializes a transcript entry for broadcast.
func EncodeEntry(e transcript.Entry) []byte {
	data, _ := json.Marshal(entryEvent{Type: EventTypeEntry, Entry: e})
	return data
}

// EncodeCleared serializes the transcript-cleared notification.
func EncodeCleared() []byte {
	data, _ := json.Marshal(map[string]string{"type": EventTypeCleared})
	return data
}
