package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// FileStore stores each document as a JSON file under
// <baseDir>/layouts or <baseDir>/indexes.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.local/share/phylolane/store.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "phylolane", "store")
	}
	for _, sub := range []string{"layouts", "indexes"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) path(kind, id string) (string, error) {
	if id == "" || filepath.Base(id) != id || id == "." || id == ".." {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
	}
	return filepath.Join(s.baseDir, kind, id+".json"), nil
}

func (s *FileStore) write(kind, id string, v any) error {
	path, err := s.path(kind, id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}
	return nil
}

// read reports false when the file does not exist.
func (s *FileStore) read(kind, id string, v any) (bool, error) {
	path, err := s.path(kind, id)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s file: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s %s", kind, id)
	}
	return true, nil
}

func (s *FileStore) SaveLayout(_ context.Context, doc *LayoutDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	return s.write("layouts", doc.ID, doc)
}

func (s *FileStore) GetLayout(_ context.Context, id string) (*LayoutDoc, error) {
	var doc LayoutDoc
	ok, err := s.read("layouts", id, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, layoutNotFound(id)
	}
	return &doc, nil
}

func (s *FileStore) DeleteLayout(_ context.Context, id string) error {
	path, err := s.path("layouts", id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove layout file: %w", err)
	}
	return nil
}

func (s *FileStore) SaveIndex(_ context.Context, doc *IndexDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	return s.write("indexes", doc.ID, doc)
}

func (s *FileStore) GetIndex(_ context.Context, id string) (*IndexDoc, error) {
	var doc IndexDoc
	ok, err := s.read("indexes", id, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, indexNotFound(id)
	}
	return &doc, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
