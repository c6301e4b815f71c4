// Package synth implements the synthesis request path: validation,
// backend dispatch, temp-file lifecycle and result encoding.
package synth

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pitabwire/frame/workerpool"
	"github.com/pitabwire/util"
	"github.com/rs/xid"

	"github.com/voicetyped/synthd/internal/speech/engine"
	"github.com/voicetyped/synthd/internal/speech/wavinfo"
	"github.com/voicetyped/synthd/pkg/styles"
)

// Engine selectors understood by the service. Anything else routes to the
// system voice.
const (
	EngineSystem    = "system"
	EngineStyleTTS2 = "styletts2"
)

// defaultSampleRate is assumed when the output file cannot be probed.
const defaultSampleRate = 24000

// tempPrefix names the per-request output files under the OS temp dir.
const tempPrefix = "synthd-"

// Request is one synthesis call.
type Request struct {
	Text        string
	Engine      string
	StyleParams map[string]any
}

// Result is a finished synthesis: encoded audio plus best-effort
// metadata.
type Result struct {
	Audio      string // base64
	SampleRate int
	Duration   float64 // seconds
	Engine     string
}

// Health reports service readiness and which engines can synthesize
// right now.
type Health struct {
	Status           string
	ActiveEngine     string
	AvailableEngines []string
}

// Service routes synthesis requests to one of two long-lived engine
// instances. All request state lives on the stack; the only shared
// mutable state is inside the neural engine's loader.
type Service struct {
	system        engine.Engine
	neural        engine.Engine
	defaultEngine string
	pool          workerpool.WorkerPool
	presets       *styles.Loader
}

// NewService creates the synthesis service. Both engines are injected so
// tests can substitute fakes; pool and presets may be nil.
func NewService(system, neural engine.Engine, defaultEngine string, pool workerpool.WorkerPool, presets *styles.Loader) *Service {
	if defaultEngine == "" {
		defaultEngine = EngineSystem
	}
	return &Service{
		system:        system,
		neural:        neural,
		defaultEngine: defaultEngine,
		pool:          pool,
		presets:       presets,
	}
}

// Health probes engine availability at call time; nothing is cached.
func (s *Service) Health(ctx context.Context) Health {
	engines := []string{EngineSystem}
	if s.neural != nil && s.neural.Available(ctx) {
		engines = append(engines, EngineStyleTTS2)
	}
	return Health{
		Status:           "ready",
		ActiveEngine:     s.defaultEngine,
		AvailableEngines: engines,
	}
}

// Synthesize runs one request end to end. The temp file is removed on
// every exit path; no partial results are ever returned.
func (s *Service) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, engine.ErrEmptyText
	}

	name := req.Engine
	if name == "" {
		name = s.defaultEngine
	}
	var eng engine.Engine
	switch name {
	case EngineStyleTTS2:
		eng = s.neural
	default:
		eng, name = s.system, EngineSystem
	}
	if eng == nil {
		return nil, engine.ErrNotInstalled
	}

	style := req.StyleParams
	if s.presets != nil {
		style = s.presets.Resolve(style)
	}

	// A caller disconnect must not abort an in-flight backend call; the
	// synthesis context is detached from request cancellation.
	ctx = context.WithoutCancel(ctx)

	outputPath := filepath.Join(os.TempDir(), tempPrefix+xid.New().String()+".wav")
	defer s.cleanup(ctx, outputPath)

	if err := s.run(ctx, eng, req.Text, outputPath, style); err != nil {
		if errors.Is(err, engine.ErrNotInstalled) {
			return nil, err
		}
		return nil, &engine.SynthesisError{Engine: name, Err: err}
	}

	data, err := os.ReadFile(outputPath)
	if err != nil || len(data) == 0 {
		return nil, &engine.SynthesisError{Engine: name, Err: engine.ErrEmptyOutput}
	}

	// Best-effort metadata; a failed probe falls back to defaults rather
	// than failing the request.
	info, err := wavinfo.Probe(outputPath)
	if err != nil {
		info = wavinfo.Info{SampleRate: defaultSampleRate}
	}

	return &Result{
		Audio:      base64.StdEncoding.EncodeToString(data),
		SampleRate: info.SampleRate,
		Duration:   info.Duration,
		Engine:     name,
	}, nil
}

// run executes the blocking backend call on the worker pool and waits for
// it, keeping the accept path free. A nil or saturated pool degrades to
// an inline call.
func (s *Service) run(ctx context.Context, eng engine.Engine, text, outputPath string, style map[string]any) error {
	if s.pool == nil {
		return eng.Synthesize(ctx, text, outputPath, style)
	}

	done := make(chan error, 1)
	if err := s.pool.Submit(ctx, func() {
		done <- eng.Synthesize(ctx, text, outputPath, style)
	}); err != nil {
		return eng.Synthesize(ctx, text, outputPath, style)
	}
	return <-done
}

func (s *Service) cleanup(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		util.Log(ctx).WithError(err).Debug("temp file cleanup failed")
	}
}
