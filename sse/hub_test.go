package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/livescribe/transcript"
)

func TestClient_NewClient(t *testing.T) {
	client := NewClient("transcript:abc123")

	if client.ID() != "transcript:abc123" {
		t.Errorf("expected ID 'transcript:abc123', got '%s'", client.ID())
	}

	if client.Events() == nil {
		t.Error("expected events channel to be set")
	}
}

func TestClient_Send_Success(t *testing.T) {
	client := NewClient("transcript:abc123")

	ok := client.Send([]byte("test message"))
	if !ok {
		t.Error("expected send to succeed")
	}

	select {
	case msg := <-client.Events():
		if string(msg) != "test message" {
			t.Errorf("expected 'test message', got '%s'", string(msg))
		}
	default:
		t.Error("expected message in channel")
	}
}

func TestClient_Send_ChannelFull(t *testing.T) {
	client := NewClient("transcript:abc123")

	// Fill the channel (size is 256)
	for i := 0; i < 256; i++ {
		client.Send([]byte("msg"))
	}

	ok := client.Send([]byte("overflow"))
	if ok {
		t.Error("expected send to fail when channel is full")
	}
}

func TestClient_Close(t *testing.T) {
	client := NewClient("transcript:abc123")
	client.Close()

	_, open := <-client.Events()
	if open {
		t.Error("expected channel to be closed")
	}
}

func TestHub_NewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("expected hub to be created")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("transcript:abc123")

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 1 {
		t.Errorf("expected 1 client after register, got %d", hub.GetClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_GetClientIDs(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("transcript:abc")
	client2 := NewClient("transcript:xyz")

	hub.Register(client1)
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	ids := hub.GetClientIDs()
	if len(ids) != 2 {
		t.Errorf("expected 2 client IDs, got %d", len(ids))
	}

	idMap := make(map[string]bool)
	for _, id := range ids {
		idMap[id] = true
	}

	if !idMap["transcript:abc"] {
		t.Error("expected 'transcript:abc' in client IDs")
	}
	if !idMap["transcript:xyz"] {
		t.Error("expected 'transcript:xyz' in client IDs")
	}
}

func TestHub_BroadcastToPattern_ExactMatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("transcript:abc123")
	client2 := NewClient("transcript:xyz789")

	hub.Register(client1)
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToPattern("transcript:abc123", []byte("message for abc"))
	time.Sleep(10 * time.Millisecond)

	select {
	case msg := <-client1.Events():
		if string(msg) != "message for abc" {
			t.Errorf("expected 'message for abc', got '%s'", string(msg))
		}
	default:
		t.Error("client1 should have received message")
	}

	select {
	case <-client2.Events():
		t.Error("client2 should NOT have received message")
	default:
	}
}

func TestHub_BroadcastToPattern_Wildcard(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("transcript:abc")
	client2 := NewClient("transcript:xyz")
	client3 := NewClient("metrics:abc")

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToPattern(TranscriptPattern, []byte("entry payload"))
	time.Sleep(10 * time.Millisecond)

	select {
	case msg := <-client1.Events():
		if string(msg) != "entry payload" {
			t.Errorf("client1: got '%s'", string(msg))
		}
	default:
		t.Error("client1 should have received message")
	}

	select {
	case msg := <-client2.Events():
		if string(msg) != "entry payload" {
			t.Errorf("client2: got '%s'", string(msg))
		}
	default:
		t.Error("client2 should have received message")
	}

	select {
	case <-client3.Events():
		t.Error("client3 should NOT have received transcript message")
	default:
	}
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = NewClient("transcript:client-" + string(rune('a'+idx)))
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 10 {
		t.Errorf("expected 10 clients, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToPattern(TranscriptPattern, []byte("concurrent message"))
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestClient_WithMetadata(t *testing.T) {
	client := NewClient("transcript:abc",
		WithMetadata("custom-key", "custom-value"),
	)

	if client.GetMetadata("custom-key") != "custom-value" {
		t.Errorf("expected metadata 'custom-value', got '%s'", client.GetMetadata("custom-key"))
	}
}

func TestClient_WithSessionID(t *testing.T) {
	client := NewClient("transcript:abc",
		WithSessionID("session-456"),
	)

	if client.SessionID() != "session-456" {
		t.Errorf("expected SessionID 'session-456', got '%s'", client.SessionID())
	}
	if client.GetMetadata("session_id") != "session-456" {
		t.Errorf("expected metadata session_id 'session-456', got '%s'", client.GetMetadata("session_id"))
	}
}

func TestHub_GetClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("transcript:abc123")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	got := hub.GetClient("transcript:abc123")
	if got == nil {
		t.Error("expected to find registered client")
	}
	if got.ID() != "transcript:abc123" {
		t.Errorf("expected ID 'transcript:abc123', got '%s'", got.ID())
	}

	missing := hub.GetClient("nonexistent")
	if missing != nil {
		t.Error("expected nil for unregistered client")
	}
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("transcript:abc")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Stop()
	time.Sleep(10 * time.Millisecond)

	// Double stop should be safe
	hub.Stop()
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent("/transcript/events", nil)

	if comp.Name() != "sse" {
		t.Errorf("expected name 'sse', got %q", comp.Name())
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	health := comp.Health(ctx)
	if health.Name != "sse" {
		t.Errorf("expected health name 'sse', got %q", health.Name)
	}
	if health.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", health.Status)
	}
	if !strings.Contains(health.Message, "0 clients") {
		t.Errorf("expected '0 clients' in message, got %q", health.Message)
	}

	if comp.Hub() == nil {
		t.Error("expected non-nil Hub")
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent("/transcript/events", nil)

	desc := comp.Describe()
	if desc.Name != "SSE Hub" {
		t.Errorf("expected name 'SSE Hub', got %q", desc.Name)
	}
	if desc.Type != "sse" {
		t.Errorf("expected type 'sse', got %q", desc.Type)
	}
	if !strings.Contains(desc.Details, "/transcript/events") {
		t.Errorf("expected path in details, got %q", desc.Details)
	}
}

func TestComponent_BroadcastsAppendedEntries(t *testing.T) {
	tlog := transcript.NewLog()
	comp := NewComponent("/transcript/events", tlog)
	ctx := context.Background()
	comp.Start(ctx)
	defer comp.Stop(ctx)

	client := NewClient("transcript:ui")
	comp.Hub().Register(client)
	time.Sleep(10 * time.Millisecond)

	tlog.Append("Me", "hello world", 0.93)

	select {
	case data := <-client.Events():
		var ev struct {
			Type  string           `json:"type"`
			Entry transcript.Entry `json:"entry"`
		}
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != EventTypeEntry {
			t.Errorf("expected type %q, got %q", EventTypeEntry, ev.Type)
		}
		if ev.Entry.Speaker != "Me" || ev.Entry.Text != "hello world" {
			t.Errorf("unexpected entry: %+v", ev.Entry)
		}
	case <-time.After(time.Second):
		t.Fatal("expected entry event to be broadcast")
	}
}

func TestComponent_NotifyCleared(t *testing.T) {
	comp := NewComponent("/transcript/events", nil)
	ctx := context.Background()
	comp.Start(ctx)
	defer comp.Stop(ctx)

	client := NewClient("transcript:ui")
	comp.Hub().Register(client)
	time.Sleep(10 * time.Millisecond)

	comp.NotifyCleared()

	select {
	case data := <-client.Events():
		if !strings.Contains(string(data), EventTypeCleared) {
			t.Errorf("expected cleared event, got %q", string(data))
		}
	case <-time.After(time.Second):
		t.Fatal("expected cleared event to be broadcast")
	}
}

func TestServeSSE(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "transcript:client-1")
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// Context timeout is expected, the connection stays open.
		return
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected Content-Type 'text/event-stream', got %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("expected Cache-Control 'no-cache', got %q", resp.Header.Get("Cache-Control"))
	}
}

func TestServeSSE_WithBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "transcript:client-1")
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return // timeout is ok for SSE
	}
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	data := string(buf[:n])

	if !strings.Contains(data, "connected") {
		t.Errorf("expected connected event, got %q", data)
	}
}

func TestEncodeEntry(t *testing.T) {
	e := transcript.Entry{Speaker: "Speaker 1", Text: "over to you"}
	data := EncodeEntry(e)

	var decoded entryEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != EventTypeEntry {
		t.Errorf("expected type %q, got %q", EventTypeEntry, decoded.Type)
	}
	if decoded.Entry.Speaker != "Speaker 1" {
		t.Errorf("expected speaker 'Speaker 1', got %q", decoded.Entry.Speaker)
	}
}
