package tables

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader reads progression tables from YAML and caches the validated result.
// A missing file falls back to the built-in default tables.
type Loader struct {
	path string

	mu     sync.RWMutex
	cached *Tables
}

// NewLoader creates a loader for the given tables file. An empty path always
// resolves to the default tables.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the current tables, reading from disk on first use.
func (l *Loader) Load() (*Tables, error) {
	l.mu.RLock()
	if l.cached != nil {
		t := l.cached
		l.mu.RUnlock()
		return t, nil
	}
	l.mu.RUnlock()

	t, err := l.read()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cached = t
	l.mu.Unlock()
	return t, nil
}

// Invalidate clears the cache. Call after the watcher detects a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

func (l *Loader) read() (*Tables, error) {
	if l.path == "" {
		return Default()
	}
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default()
		}
		return nil, fmt.Errorf("read tables: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML tables document.
func Parse(data []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	bands := make([]Band, 0, len(raw.Bands))
	for _, rb := range raw.Bands {
		spawn, err := normalizeSpawn(rb.Weights)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", rb.MinDepth, err)
		}
		bands = append(bands, Band{MinDepth: rb.MinDepth, Blocks: rb.Blocks, Spawn: spawn})
	}
	return New(bands)
}
