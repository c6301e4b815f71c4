package styletts2

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/voicetyped/synthd/internal/speech/engine"
	"github.com/voicetyped/synthd/internal/speech/registry"
)

func init() {
	registry.TTS.Register("styletts2", func(config map[string]string) (engine.Engine, error) {
		binaryPath := config["binary_path"]
		if binaryPath == "" {
			binaryPath = "styletts2"
		}
		return New(binaryPath, config["checkpoint"]), nil
	})
}

type loadState int

const (
	stateUnloaded loadState = iota
	stateLoading
	stateReady
)

// StyleTTS2 implements engine.Engine by driving the StyleTTS2 CLI. The
// model loads lazily on first use and stays loaded for the process
// lifetime; there is no unload path.
type StyleTTS2 struct {
	binaryPath string
	checkpoint string // optional checkpoint file; must exist when set

	lookPath func(string) (string, error) // test seam

	mu       sync.Mutex
	state    loadState
	resolved string // absolute binary path once ready
}

// New creates a StyleTTS2 engine. Nothing is probed until first use.
func New(binaryPath, checkpoint string) *StyleTTS2 {
	return &StyleTTS2{
		binaryPath: binaryPath,
		checkpoint: checkpoint,
		lookPath:   exec.LookPath,
	}
}

// Available probes the CLI and checkpoint at call time. The result is
// never cached, so an install that happens mid-process is picked up.
func (s *StyleTTS2) Available(_ context.Context) bool {
	return s.probe() == nil
}

func (s *StyleTTS2) probe() error {
	if _, err := s.lookPath(s.binaryPath); err != nil {
		return engine.ErrNotInstalled
	}
	if s.checkpoint != "" {
		if _, err := os.Stat(s.checkpoint); err != nil {
			return engine.ErrNotInstalled
		}
	}
	return nil
}

// ensureLoaded moves the engine unloaded → loading → ready. Concurrent
// first callers serialize on the mutex: one load ever happens, the rest
// see ready and return. A failed load returns to unloaded so a later
// install can succeed.
func (s *StyleTTS2) ensureLoaded(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateReady {
		return nil
	}

	s.state = stateLoading
	resolved, err := s.lookPath(s.binaryPath)
	if err != nil {
		s.state = stateUnloaded
		return engine.ErrNotInstalled
	}
	if s.checkpoint != "" {
		if _, err := os.Stat(s.checkpoint); err != nil {
			s.state = stateUnloaded
			return engine.ErrNotInstalled
		}
	}

	s.resolved = resolved
	s.state = stateReady
	return nil
}

// Synthesize runs inference and writes a wave file to outputPath. Style
// parameters pass through to the CLI unvalidated.
func (s *StyleTTS2) Synthesize(ctx context.Context, text, outputPath string, style map[string]any) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	args := []string{"--output", outputPath}
	if s.checkpoint != "" {
		args = append(args, "--checkpoint", s.checkpoint)
	}
	args = append(args, styleArgs(style)...)

	cmd := exec.CommandContext(ctx, s.resolved, args...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("styletts2: %w: %s", err, stderr.String())
	}
	return nil
}

// styleArgs flattens style parameters into CLI flags in stable order.
func styleArgs(style map[string]any) []string {
	if len(style) == 0 {
		return nil
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, "--"+k, formatValue(style[k]))
	}
	return args
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
