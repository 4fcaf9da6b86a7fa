package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeEngineUnavailable indicates a speech engine sidecar is unreachable.
	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Capture errors
const (
	// ErrCodeCaptureFailed indicates an audio capture adapter could not start
	// or terminated unexpectedly.
	ErrCodeCaptureFailed ErrorCode = "CAPTURE_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidSampleRate indicates audio was submitted at an
	// unsupported sample rate.
	ErrCodeInvalidSampleRate ErrorCode = "INVALID_SAMPLE_RATE"
	// ErrCodeSegmentTooShort indicates a segment is below the engine's
	// minimum transcribable duration.
	ErrCodeSegmentTooShort ErrorCode = "SEGMENT_TOO_SHORT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeEngineUnavailable: true,
	ErrCodeConnectionFailed:  true,
	ErrCodeTimeout:           true,
	ErrCodeExternalService:   true,
	ErrCodeInternal:          false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
