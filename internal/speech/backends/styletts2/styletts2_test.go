package styletts2

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/voicetyped/synthd/internal/speech/engine"
)

func TestSynthesizeNotInstalled(t *testing.T) {
	s := New("this-binary-does-not-exist-anywhere", "")

	err := s.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.wav"), nil)
	if !errors.Is(err, engine.ErrNotInstalled) {
		t.Fatalf("err = %v, want ErrNotInstalled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateUnloaded {
		t.Errorf("state = %d, want unloaded after failed load", s.state)
	}
}

func TestAvailableNotCached(t *testing.T) {
	var installed atomic.Bool
	s := New("styletts2", "")
	s.lookPath = func(string) (string, error) {
		if installed.Load() {
			return "/usr/local/bin/styletts2", nil
		}
		return "", errors.New("not found")
	}

	if s.Available(context.Background()) {
		t.Fatal("available before install")
	}

	// The probe must notice an install that happens mid-process.
	installed.Store(true)
	if !s.Available(context.Background()) {
		t.Fatal("probe result was cached")
	}
}

func TestAvailableChecksCheckpoint(t *testing.T) {
	dir := t.TempDir()
	checkpoint := filepath.Join(dir, "model.pth")

	s := New("styletts2", checkpoint)
	s.lookPath = func(string) (string, error) { return "/usr/local/bin/styletts2", nil }

	if s.Available(context.Background()) {
		t.Fatal("available with missing checkpoint")
	}

	if err := os.WriteFile(checkpoint, []byte("weights"), 0o644); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}
	if !s.Available(context.Background()) {
		t.Fatal("unavailable with checkpoint present")
	}
}

func TestEnsureLoadedOnce(t *testing.T) {
	var probes atomic.Int32
	s := New("styletts2", "")
	s.lookPath = func(string) (string, error) {
		probes.Add(1)
		return "/usr/local/bin/styletts2", nil
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if err := s.ensureLoaded(context.Background()); err != nil {
				t.Errorf("ensureLoaded: %v", err)
			}
		})
	}
	wg.Wait()

	if n := probes.Load(); n != 1 {
		t.Errorf("load ran %d times, want exactly 1", n)
	}
	if s.state != stateReady {
		t.Errorf("state = %d, want ready", s.state)
	}
}

func TestEnsureLoadedRecoversAfterInstall(t *testing.T) {
	var installed atomic.Bool
	s := New("styletts2", "")
	s.lookPath = func(string) (string, error) {
		if installed.Load() {
			return "/usr/local/bin/styletts2", nil
		}
		return "", errors.New("not found")
	}

	if err := s.ensureLoaded(context.Background()); !errors.Is(err, engine.ErrNotInstalled) {
		t.Fatalf("err = %v, want ErrNotInstalled", err)
	}

	installed.Store(true)
	if err := s.ensureLoaded(context.Background()); err != nil {
		t.Fatalf("ensureLoaded after install: %v", err)
	}
	if s.state != stateReady {
		t.Errorf("state = %d, want ready", s.state)
	}
}

func TestStyleArgs(t *testing.T) {
	args := styleArgs(map[string]any{
		"diffusion_steps": float64(5),
		"alpha":           0.3,
		"ref":             "warm",
		"denoise":         true,
	})

	want := []string{
		"--alpha", "0.3",
		"--denoise", "true",
		"--diffusion_steps", "5",
		"--ref", "warm",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestStyleArgsEmpty(t *testing.T) {
	if args := styleArgs(nil); args != nil {
		t.Errorf("styleArgs(nil) = %v, want nil", args)
	}
}
