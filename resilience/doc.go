// Package resilience provides fault-tolerance patterns for calls to the
// external recognition engines.
//
// This package includes:
//   - CircuitBreaker: fails fast once an engine keeps erroring, so segments
//     are dropped cheaply instead of queueing behind a dead sidecar
//   - Retry: retries an operation with exponential backoff and jitter,
//     used while waiting for engines to become reachable at startup
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("transcription"))
//
//	err := cb.Execute(func() error {
//	    _, err := engine.Transcribe(ctx, req)
//	    return err
//	})
package resilience
