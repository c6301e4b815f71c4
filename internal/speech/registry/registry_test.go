package registry_test

import (
	"testing"

	"github.com/voicetyped/synthd/internal/speech/registry"

	// Register backends for testing.
	_ "github.com/voicetyped/synthd/internal/speech/backends/styletts2"
	_ "github.com/voicetyped/synthd/internal/speech/backends/system"
)

func TestBackendsRegistered(t *testing.T) {
	for _, name := range []string{"system", "styletts2"} {
		if !registry.TTS.Has(name) {
			t.Errorf("backend %q not registered", name)
		}

		eng, err := registry.TTS.Create(name, map[string]string{})
		if err != nil {
			t.Errorf("create %q: %v", name, err)
		}
		if eng == nil {
			t.Errorf("create %q returned nil engine", name)
		}
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	if _, err := registry.TTS.Create("festival", nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestList(t *testing.T) {
	names := registry.TTS.List()
	if len(names) < 2 {
		t.Fatalf("expected at least 2 backends, got %d: %v", len(names), names)
	}
}
