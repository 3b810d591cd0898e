package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONBackend stores the state as a single JSON document.
// Writes go to a temp file that is renamed over the target.
type JSONBackend struct {
	path string
}

// NewJSONBackend returns a backend for the JSON file at path.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path}
}

// Path returns the JSON file location.
func (b *JSONBackend) Path() string {
	return b.path
}

// Close is a no-op; files are opened per operation.
func (b *JSONBackend) Close() error {
	return nil
}

// Load reads and validates the document. A missing file is an empty state.
func (b *JSONBackend) Load() (*State, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return EmptyState(), nil
		}
		return nil, fmt.Errorf("read todo file: %w", err)
	}

	if err := ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("validate todo file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse todo file: %w", err)
	}
	return &state, nil
}

// Save writes the document with 2-space indentation and a trailing newline.
func (b *JSONBackend) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal todo file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create todo directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replace todo file: %w", err)
	}
	return nil
}
