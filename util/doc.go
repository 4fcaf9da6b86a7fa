// Package util holds small parsing helpers shared across packages, such as
// human-readable size strings ("10MB") used by the request body limit.
package util
