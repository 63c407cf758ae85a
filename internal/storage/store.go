package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("not found")

// Storer is a keyed collection of specs.
type Storer[T ValidatingSpec] interface {
	Get(string) T
	GetAll() map[string]T
}

// FileStore holds the specs of every *.json asset under a directory tree,
// keyed by asset id.
type FileStore[T ValidatingSpec] struct {
	root string

	mu      sync.RWMutex
	records map[string]T
}

func NewFileStore[T ValidatingSpec](root string) (*FileStore[T], error) {
	s := &FileStore[T]{root: root}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the directory tree again. The current records are kept if any
// asset fails to load.
func (s *FileStore[T]) Reload() error {
	records := map[string]T{}
	sources := map[string]string{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := readAsset[T](path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		id := asset.Id().String()
		if prev, ok := sources[id]; ok {
			return fmt.Errorf("duplicate key detected: %s in %s and %s", id, filepath.Base(prev), filepath.Base(path))
		}
		records[id] = asset.Spec
		sources[id] = path
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

func (s *FileStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}

func readAsset[T ValidatingSpec](path string) (*Asset[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}
	return asset, nil
}
