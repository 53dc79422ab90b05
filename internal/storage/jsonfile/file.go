package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
)

// jsonFile is a whole-file JSON collection.
// Every write replaces the file via temp file + fsync + rename, so a failed
// write leaves the previous content intact. A missing file reads as empty.
type jsonFile[T any] struct {
	path   string
	mu     sync.Mutex
	logger arbor.ILogger
}

func newJSONFile[T any](path string, logger arbor.ILogger) *jsonFile[T] {
	return &jsonFile[T]{path: path, logger: logger}
}

// load reads the collection. I/O and decode errors are logged and degrade to an empty collection.
func (f *jsonFile[T]) load() []T {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Error().Err(err).Str("path", f.path).Msg("Failed to read store file, using empty collection")
		}
		return []T{}
	}

	if len(data) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		f.logger.Error().Err(err).Str("path", f.path).Msg("Failed to decode store file, using empty collection")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// save atomically replaces the collection on disk
func (f *jsonFile[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(f.path), err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

// ensure creates an empty collection file when none exists
func (f *jsonFile[T]) ensure() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return f.save([]T{})
}

// update runs a read-modify-write cycle under the file lock
func (f *jsonFile[T]) update(fn func(items []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := fn(f.load())
	if err != nil {
		return err
	}
	return f.save(items)
}

// read returns a snapshot of the collection
func (f *jsonFile[T]) read() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}
