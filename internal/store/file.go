package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"statehost/internal/bundle"
)

const fileExt = ".json"

// FileStore keeps one JSON file per key.
// Layout: <base>/bundles/<key>.json
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store rooted at base, creating the directory.
func NewFileStore(base string) (*FileStore, error) {
	dir := filepath.Join(base, "bundles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create bundle dir")
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file path for key.
func (s *FileStore) Path(key string) string {
	// Normalize: lowercase, path separators and spaces become hyphens
	normalized := strings.ToLower(key)
	normalized = strings.NewReplacer(" ", "-", "/", "-", string(filepath.Separator), "-").Replace(normalized)
	return filepath.Join(s.dir, normalized+fileExt)
}

func (s *FileStore) Load(_ context.Context, key string) (bundle.Bundle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read bundle %s", key)
	}
	b, err := bundle.Unmarshal(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "load bundle %s", key)
	}
	return b, true, nil
}

func (s *FileStore) Save(_ context.Context, key string, b bundle.Bundle) error {
	data, err := b.Marshal()
	if err != nil {
		return errors.Wrapf(err, "save bundle %s", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, ".bundle-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write bundle %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write bundle %s", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write bundle %s", key)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete bundle %s", key)
	}
	return nil
}

// Keys returns the normalized keys (see Path).
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "list bundles")
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }
