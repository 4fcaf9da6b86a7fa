// Package logger provides structured logging for the livescribe pipeline,
// built on zerolog.
//
// It supports console and JSON output, component-tagged child loggers, and
// a named-logger registry so long-lived components (segmenter, stitcher,
// capture) can share consistently tagged loggers.
package logger
