package styles

import (
	"os"
	"path/filepath"
	"testing"
)

func writePreset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "warm.yaml", `
name: warm
params:
  alpha: 0.3
  beta: 0.7
  diffusion_steps: 5
`)
	writePreset(t, dir, "more.yml", `
- name: crisp
  params:
    alpha: 0.1
- name: slow
  params:
    embedding_scale: 1.5
`)
	writePreset(t, dir, "notes.txt", "not a preset")

	l := NewLoader(dir)
	presets, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(presets) != 3 {
		t.Fatalf("loaded %d presets, want 3: %v", len(presets), presets)
	}

	warm, ok := l.Get("warm")
	if !ok {
		t.Fatal("preset warm not found")
	}
	if warm.Params["alpha"] != 0.3 {
		t.Errorf("alpha = %v, want 0.3", warm.Params["alpha"])
	}
}

func TestLoadAllNamelessSingleUsesFilename(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "default.yaml", `
params:
  alpha: 0.5
`)

	l := NewLoader(dir)
	if _, err := l.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, ok := l.Get("default"); !ok {
		t.Error("nameless preset should take the file name")
	}
}

func TestLoadAllMissingDir(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope"))
	if _, err := l.LoadAll(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "warm.yaml", `
name: warm
params:
  alpha: 0.3
  beta: 0.7
`)
	l := NewLoader(dir)
	if _, err := l.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	resolved := l.Resolve(map[string]any{"preset": "warm", "alpha": 0.9})
	if resolved["alpha"] != 0.9 {
		t.Errorf("explicit alpha = %v, want 0.9 (request wins)", resolved["alpha"])
	}
	if resolved["beta"] != 0.7 {
		t.Errorf("beta = %v, want preset default 0.7", resolved["beta"])
	}
	if _, ok := resolved["preset"]; ok {
		t.Error("preset key must not be forwarded to the backend")
	}
}

func TestResolveUnknownPresetPassesThrough(t *testing.T) {
	l := NewLoader(t.TempDir())

	params := map[string]any{"preset": "nope", "alpha": 0.9}
	resolved := l.Resolve(params)
	if resolved["alpha"] != 0.9 {
		t.Errorf("alpha = %v, want 0.9", resolved["alpha"])
	}
	if resolved["preset"] != "nope" {
		t.Error("unknown preset reference should pass through untouched")
	}
}

func TestResolveNoPreset(t *testing.T) {
	l := NewLoader(t.TempDir())

	params := map[string]any{"alpha": 0.9}
	if resolved := l.Resolve(params); resolved["alpha"] != 0.9 {
		t.Errorf("params without preset must come back unchanged")
	}

	if resolved := l.Resolve(nil); resolved != nil {
		t.Errorf("Resolve(nil) = %v, want nil", resolved)
	}
}
