package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// SaveStateToFile writes the serialized system state to path. The file is
// replaced atomically: readers see either the old or the new content.
func (e *Engine) SaveStateToFile(path string) error {
	data := []byte(e.State().Serialize())

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrIO, path, err)
	}
	return nil
}

// LoadStateFromFile reads a state written by SaveStateToFile and applies it
// with LoadState. The engine is unchanged on any error.
func (e *Engine) LoadStateFromFile(path string) error {
	s, err := ReadStateFile(path)
	if err != nil {
		return err
	}
	return e.LoadState(s)
}

// ReadStateFile reads and decodes a state file without applying it.
func ReadStateFile(path string) (*snapshot.SystemState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	var s snapshot.SystemState
	if err := s.Deserialize(string(data)); err != nil {
		return nil, fmt.Errorf("engine: %s: %w", path, err)
	}
	return &s, nil
}
