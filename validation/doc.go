// Package validation provides struct validation built on
// go-playground/validator, producing structured AppErrors.
//
// Pipeline configuration structs (segmenter, stitcher, server) carry
// `validate:"..."` tags and are checked through Validate before a session
// starts.
package validation
