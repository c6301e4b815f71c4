package engine

import "fmt"

// Sentinel failures shared by all backends.
const (
	ErrEmptyText    = Error("text cannot be empty")
	ErrNotInstalled = Error("backend not installed")
	ErrEmptyOutput  = Error("audio generation failed (empty output)")
)

// Error is a constant error kind.
type Error string

// Error returns the error as a string.
func (e Error) Error() string { return string(e) }

// SynthesisError wraps a backend failure with the engine that produced it.
// The underlying message is preserved for the caller.
type SynthesisError struct {
	Engine string
	Err    error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s synthesis failed: %v", e.Engine, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
