// Package server provides the HTTP surface of the transcription pipeline
// using Gin with HTTP/2 h2c support.
//
// The server follows the component pattern with lifecycle management,
// health endpoints, and configurable middleware.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - Logging: Request/response logging with duration tracking
//   - CORS: Cross-origin resource sharing configuration
//   - RequestID: Request ID generation and propagation
//   - BodySize: Request body size limits
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: Health check aggregation over pipeline components
//   - /info: Service information and uptime
//   - /metrics: Runtime memory and goroutine metrics
//   - /version: Build version information
//   - /transcript: Transcript entries as JSON
//   - /transcript/text: Transcript as "[speaker] text" lines
//   - /transcript/events: Live transcript entries over SSE
package server
