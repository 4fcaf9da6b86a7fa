package pyannote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/livescribe/audio"
	"github.com/kbukum/livescribe/diarization"
	"github.com/kbukum/livescribe/errors"
)

func TestDiarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, _, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		head := make([]byte, 4)
		f.Read(head)
		if string(head) != "RIFF" {
			t.Errorf("upload is not WAV, head = %q", head)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"num_speakers": 2,
			"segments": []map[string]any{
				{"speaker_id": "SPEAKER_00", "start_time": 0.0, "end_time": 1.5},
				{"speaker_id": "SPEAKER_01", "start_time": 1.5, "end_time": 4.0},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	res, err := p.Diarize(context.Background(), diarization.Request{
		Samples:    make([]float32, 4*audio.DefaultSampleRate),
		SampleRate: audio.DefaultSampleRate,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumSpeakers != 2 || len(res.Segments) != 2 {
		t.Fatalf("result = %+v", res)
	}

	dominant, coverage := diarization.Dominant(res.Segments)
	if dominant != "SPEAKER_01" {
		t.Errorf("dominant = %s", dominant)
	}
	if coverage < 0.6 {
		t.Errorf("coverage = %f", coverage)
	}
}

func TestDiarize_RejectsWrongSampleRate(t *testing.T) {
	p := NewProvider(Config{BaseURL: "http://unused"})
	_, err := p.Diarize(context.Background(), diarization.Request{
		Samples:    make([]float32, 8000),
		SampleRate: 8000,
	})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidSampleRate {
		t.Fatalf("err = %v", err)
	}
}

func TestDiarize_SidecarReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "pipeline not loaded"})
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	_, err := p.Diarize(context.Background(), diarization.Request{
		Samples:    make([]float32, audio.DefaultSampleRate),
		SampleRate: audio.DefaultSampleRate,
	})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeExternalService {
		t.Fatalf("err = %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if !NewProvider(Config{BaseURL: srv.URL}).IsAvailable(context.Background()) {
		t.Error("expected available")
	}
}
