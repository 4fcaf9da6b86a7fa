package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/livescribe/sse"
	"github.com/kbukum/livescribe/transcript"
)

// Transcript returns a handler that reports all transcript entries as JSON.
func Transcript(tlog *transcript.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := tlog.Entries()
		c.JSON(http.StatusOK, gin.H{
			"entries": entries,
			"count":   len(entries),
		})
	}
}

// TranscriptText returns a handler that serves the transcript as plain
// "[speaker] text" lines, one per entry.
func TranscriptText(tlog *transcript.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, tlog.Copy())
	}
}

// ClearTranscript returns a handler that empties the transcript log.
// Clearing does not touch in-flight audio; new entries keep arriving while
// a session is active. onCleared, if non-nil, runs after the clear.
func ClearTranscript(tlog *transcript.Log, onCleared func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		tlog.Clear()
		if onCleared != nil {
			onCleared()
		}
		c.Status(http.StatusNoContent)
	}
}

// TranscriptEvents returns a handler that streams appended transcript
// entries to the client over Server-Sent Events.
func TranscriptEvents(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := "transcript:" + uuid.NewString()
		sse.ServeSSE(hub, c.Writer, c.Request, clientID)
	}
}
