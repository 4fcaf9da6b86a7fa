package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad field", http.StatusBadRequest)
	if got := err.Error(); got != "INVALID_INPUT: bad field" {
		t.Errorf("unexpected error string: %s", got)
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := stderrors.New("socket closed")
	err := ExternalServiceError("whisper", cause)
	if !strings.Contains(err.Error(), "socket closed") {
		t.Errorf("cause missing from error string: %s", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestRetryableDetection(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeEngineUnavailable, true},
		{ErrCodeTimeout, true},
		{ErrCodeExternalService, true},
		{ErrCodeInvalidSampleRate, false},
		{ErrCodeSegmentTooShort, false},
		{ErrCodeCaptureFailed, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.retryable {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}

func TestInvalidSampleRate(t *testing.T) {
	err := InvalidSampleRate(44100, 16000)
	if err.Code != ErrCodeInvalidSampleRate {
		t.Errorf("unexpected code: %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", err.HTTPStatus)
	}
	if err.Details["sample_rate"] != 44100 {
		t.Errorf("unexpected detail: %v", err.Details["sample_rate"])
	}
}

func TestAsAppError(t *testing.T) {
	inner := SegmentTooShort(200, 500)
	wrapped := Internal(inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected an AppError")
	}
	if appErr.Code != ErrCodeInternal {
		t.Errorf("unexpected code: %s", appErr.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("missing speaker").WithDetail("field", "speaker")
	if err.Details["field"] != "speaker" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}
