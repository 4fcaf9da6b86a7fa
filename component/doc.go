// Package component defines the core interfaces for lifecycle-managed
// pieces of the transcription pipeline.
//
// Components represent services that require startup, shutdown and health
// monitoring: the capture session, the HTTP server and the SSE hub. They
// are registered with a Registry which starts them in registration order
// and stops them in reverse.
package component
