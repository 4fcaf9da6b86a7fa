package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable transcript line.
type Entry struct {
	// ID uniquely identifies the entry.
	ID uuid.UUID `json:"id"`
	// Speaker is the attributed speaker label.
	Speaker string `json:"speaker"`
	// Text is the transcribed text as appended, original casing preserved.
	Text string `json:"text"`
	// Confidence is the recognition confidence in [0, 1], 0 if unknown.
	Confidence float64 `json:"confidence,omitempty"`
	// Timestamp is when the entry was appended.
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber receives entries as they are appended.
type Subscriber func(Entry)

// Log is the append-only transcript. Entries only grow while a session is
// active; Clear is the single explicit exception. Safe for concurrent use.
type Log struct {
	mu          sync.RWMutex
	entries     []Entry
	subscribers []Subscriber
}

// NewLog creates an empty transcript log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an entry and returns it with its assigned id and timestamp.
func (l *Log) Append(speaker, text string, confidence float64) Entry {
	e := Entry{
		ID:         uuid.New(),
		Speaker:    speaker,
		Text:       text,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	subs := append([]Subscriber(nil), l.subscribers...)
	l.mu.Unlock()

	for _, s := range subs {
		s(e)
	}
	return e
}

// Entries returns a snapshot of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// LastBySpeaker returns the most recent entry for a speaker label.
func (l *Log) LastBySpeaker(speaker string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Speaker == speaker {
			return l.entries[i], true
		}
	}
	return Entry{}, false
}

// Copy serializes the transcript as "[speaker] text" lines.
func (l *Log) Copy() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var sb strings.Builder
	for _, e := range l.entries {
		fmt.Fprintf(&sb, "[%s] %s\n", e.Speaker, e.Text)
	}
	return sb.String()
}

// Clear empties the log. An active session's buckets are unaffected; new
// entries keep arriving.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Subscribe registers a callback invoked for every appended entry. The
// callback runs on the appending goroutine and must not block.
func (l *Log) Subscribe(s Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, s)
}
