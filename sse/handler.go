package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/livescribe/logger"
)

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	Type      string            `json:"type"`
	ClientID  string            `json:"client_id"`
	SessionID string            `json:"session_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// keepAliveInterval must stay below typical proxy idle timeouts (60s).
const keepAliveInterval = 30 * time.Second

// ServeSSE handles an SSE connection for a specific client.
// This is the main entry point called from HTTP handlers.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("sse streaming not supported", logger.Fields(
			"client_id", clientID,
		))
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// SSE connections are long-lived and must not be terminated by the
	// server's WriteTimeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("sse could not disable write deadline", logger.Fields(
			"client_id", clientID,
			logger.FieldError, err.Error(),
		))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	client := NewClient(clientID, opts...)
	hub.Register(client)
	defer func() {
		hub.Unregister(client)
	}()

	connectedData, _ := json.Marshal(ConnectedEvent{
		Type:      EventTypeConnected,
		ClientID:  clientID,
		SessionID: client.SessionID(),
		Metadata:  client.Metadata(),
	})
	_, _ = fmt.Fprintf(w, "event: %s\n", EventTypeConnected)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", connectedData)
	flusher.Flush()

	logger.Debug("sse client connected", logger.Fields(
		"client_id", clientID,
		"remote_addr", r.RemoteAddr,
	))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected (tab closed, network issue).
			logger.Debug("sse client disconnected", logger.Fields(
				"client_id", clientID,
			))
			return

		case event, ok := <-client.Events():
			if !ok {
				// Channel closed, client unregistered.
				return
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()

		case <-keepAlive.C:
			// SSE comment lines keep the connection alive through proxies.
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}
