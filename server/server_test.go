package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/livescribe/component"
	apperrors "github.com/kbukum/livescribe/errors"
	"github.com/kbukum/livescribe/logger"
	"github.com/kbukum/livescribe/server"
	"github.com/kbukum/livescribe/sse"
	"github.com/kbukum/livescribe/transcript"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := server.Config{}
	cfg.ApplyDefaults()
	return server.New(cfg, logger.NewDefault("test"))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := server.Config{}
	cfg.ApplyDefaults()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.MaxBodySize != "10MB" {
		t.Errorf("expected max body size 10MB, got %s", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := server.Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	cfg = server.Config{Port: 8080, ReadTimeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative read timeout")
	}

	cfg = server.Config{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestHealthEndpoint_AggregatesComponents(t *testing.T) {
	s := newTestServer(t)
	checker := func(ctx context.Context) []component.Health {
		return []component.Health{
			{Name: "session", Status: component.StatusHealthy},
			{Name: "whisper", Status: component.StatusDegraded, Message: "slow"},
		}
	}
	s.ApplyDefaults("livescribe", checker)

	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected degraded, got %v", body["status"])
	}
	if body["version"] == "" {
		t.Error("expected a version in the health report")
	}
	comps, ok := body["components"].([]any)
	if !ok || len(comps) != 2 {
		t.Fatalf("components = %v", body["components"])
	}
	first, ok := comps[0].(map[string]any)
	if !ok || first["status"] != "up" {
		t.Errorf("healthy component should report up, got %v", comps[0])
	}
}

func TestHealthEndpoint_UnhealthyReturns503(t *testing.T) {
	s := newTestServer(t)
	checker := func(ctx context.Context) []component.Health {
		return []component.Health{
			{Name: "whisper", Status: component.StatusUnhealthy, Message: "unreachable"},
		}
	}
	s.ApplyDefaults("livescribe", checker)

	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestInfoAndVersionEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.ApplyDefaults("livescribe", nil)

	for _, path := range []string{"/info", "/version", "/metrics"} {
		rr := httptest.NewRecorder()
		s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestTranscriptEndpoint_ReturnsEntries(t *testing.T) {
	s := newTestServer(t)
	tlog := transcript.NewLog()
	tlog.Append("Me", "hello everyone", 0.95)
	tlog.Append("Speaker 1", "hi there", 0.88)

	hub := sse.NewHub()
	go hub.Run()
	defer hub.Stop()
	s.RegisterTranscriptEndpoints(tlog, hub, nil)

	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", "/transcript", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Entries []transcript.Entry `json:"entries"`
		Count   int                `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Count != 2 || len(body.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", body.Count)
	}
	if body.Entries[0].Speaker != "Me" || body.Entries[1].Speaker != "Speaker 1" {
		t.Errorf("unexpected speakers: %+v", body.Entries)
	}
}

func TestTranscriptTextEndpoint(t *testing.T) {
	s := newTestServer(t)
	tlog := transcript.NewLog()
	tlog.Append("Me", "one", 0)
	tlog.Append("Others", "two", 0)

	hub := sse.NewHub()
	go hub.Run()
	defer hub.Stop()
	s.RegisterTranscriptEndpoints(tlog, hub, nil)

	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", "/transcript/text", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	want := "[Me] one\n[Others] two\n"
	if rr.Body.String() != want {
		t.Errorf("got %q, want %q", rr.Body.String(), want)
	}
}

func TestClearTranscriptEndpoint(t *testing.T) {
	s := newTestServer(t)
	tlog := transcript.NewLog()
	tlog.Append("Me", "to be cleared", 0)

	cleared := false
	hub := sse.NewHub()
	go hub.Run()
	defer hub.Stop()
	s.RegisterTranscriptEndpoints(tlog, hub, func() { cleared = true })

	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("DELETE", "/transcript", http.NoBody))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if tlog.Len() != 0 {
		t.Errorf("expected empty log, got %d entries", tlog.Len())
	}
	if !cleared {
		t.Error("expected onCleared callback to run")
	}
}

func TestRespondWithError_AppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/fail", func(c *gin.Context) {
		server.RespondWithError(c, apperrors.EngineUnavailable("whisper"))
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest("GET", "/fail", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ENGINE_UNAVAILABLE") {
		t.Errorf("expected error code in body, got %s", rr.Body.String())
	}
}

func TestRespondWithError_GenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/fail", func(c *gin.Context) {
		server.RespondWithError(c, context.DeadlineExceeded)
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest("GET", "/fail", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestServerComponent(t *testing.T) {
	s := newTestServer(t)
	comp := server.NewComponent(s)

	if comp.Name() != "http-server" {
		t.Errorf("expected 'http-server', got %q", comp.Name())
	}

	health := comp.Health(context.Background())
	if health.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", health.Status)
	}

	desc := comp.Describe()
	if desc.Type != "server" {
		t.Errorf("expected type 'server', got %q", desc.Type)
	}
	if desc.Port != 8080 {
		t.Errorf("expected port 8080, got %d", desc.Port)
	}
}

func TestServerComponent_Routes(t *testing.T) {
	s := newTestServer(t)
	tlog := transcript.NewLog()
	hub := sse.NewHub()
	go hub.Run()
	defer hub.Stop()

	s.ApplyDefaults("livescribe", nil)
	s.RegisterTranscriptEndpoints(tlog, hub, nil)

	routes := server.NewComponent(s).Routes()
	if len(routes) == 0 {
		t.Fatal("expected registered routes")
	}

	// Transcript routes sort before system routes like /health.
	if !strings.HasPrefix(routes[0].Path, "/transcript") {
		t.Errorf("expected transcript route first, got %s", routes[0].Path)
	}

	found := false
	for _, r := range routes {
		if r.Method == "DELETE" && r.Path == "/transcript" {
			found = true
		}
	}
	if !found {
		t.Error("expected DELETE /transcript in routes")
	}
}
