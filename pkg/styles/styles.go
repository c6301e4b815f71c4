// Package styles loads named style-parameter presets for neural
// synthesis from YAML files. A request may name a preset; its values act
// as defaults under the request's explicit style parameters, which
// otherwise pass through to the backend unvalidated.
package styles

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// presetKey is the style_params key that selects a preset by name. It is
// consumed during resolution and never forwarded to the backend.
const presetKey = "preset"

// Preset is a named set of default inference parameters.
type Preset struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// Loader loads and optionally hot-reloads presets from a directory of
// YAML files.
type Loader struct {
	dir string

	mu      sync.RWMutex
	presets map[string]Preset
}

// NewLoader creates a preset loader for the given directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:     dir,
		presets: make(map[string]Preset),
	}
}

// LoadAll loads all .yaml and .yml files from the configured directory.
// A file may hold one preset or a list of presets.
func (l *Loader) LoadAll() (map[string]Preset, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read preset dir %q: %w", l.dir, err)
	}

	result := make(map[string]Preset)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		presets, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
		for _, p := range presets {
			result[p.Name] = p
		}
	}

	l.mu.Lock()
	l.presets = result
	l.mu.Unlock()

	return result, nil
}

// Get returns a loaded preset by name.
func (l *Loader) Get(name string) (Preset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.presets[name]
	return p, ok
}

// Resolve merges preset defaults under params when params names a known
// preset. Explicit keys win; the preset key itself is dropped. Params
// without a preset reference come back unchanged.
func (l *Loader) Resolve(params map[string]any) map[string]any {
	name, _ := params[presetKey].(string)
	if name == "" {
		return params
	}

	preset, ok := l.Get(name)
	if !ok {
		// Unknown preset names pass through untouched; the backend
		// decides what to do with them.
		return params
	}

	merged := make(map[string]any, len(preset.Params)+len(params))
	for k, v := range preset.Params {
		merged[k] = v
	}
	for k, v := range params {
		if k == presetKey {
			continue
		}
		merged[k] = v
	}
	return merged
}

func loadFile(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []Preset
	if err := yaml.Unmarshal(data, &list); err == nil {
		return named(list, path)
	}

	var single Preset
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return named([]Preset{single}, path)
}

func named(presets []Preset, path string) ([]Preset, error) {
	base := filepath.Base(path)
	base = base[:len(base)-len(filepath.Ext(base))]
	for i := range presets {
		if presets[i].Name == "" {
			if len(presets) > 1 {
				return nil, fmt.Errorf("preset %d in %q has no name", i, path)
			}
			presets[i].Name = base
		}
	}
	return presets, nil
}

// WatchAndReload watches the preset directory and reloads on changes.
// This blocks until done is closed.
func (l *Loader) WatchAndReload(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", l.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					l.LoadAll()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
