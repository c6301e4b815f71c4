package engine

import "context"

// Voice describes a synthetic voice installed on the host.
type Voice struct {
	Name        string
	Description string
	Gender      string
	Language    string
}

// Engine renders text to an audio file on disk.
//
// Synthesize is a blocking call; callers are responsible for running it
// off the request-accepting path. style carries backend-specific
// parameters and may be nil.
type Engine interface {
	Synthesize(ctx context.Context, text string, outputPath string, style map[string]any) error

	// Available reports whether the backend can synthesize right now.
	// It probes at call time and must not cache the answer.
	Available(ctx context.Context) bool
}
