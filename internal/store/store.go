// Package store persists whole bundles across process death, keyed by the
// host that saved them.
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"statehost/internal/bundle"
)

const (
	// DirEnv overrides the base directory (for testing).
	DirEnv = "STATEHOST_STORE_DIR"
	// DefaultBase is the default base directory under the user's home.
	DefaultBase = ".statehost"

	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Store loads and saves bundles. Implementations are safe for concurrent use.
type Store interface {
	// Load returns the bundle saved under key. A missing bundle is
	// (nil, false, nil).
	Load(ctx context.Context, key string) (bundle.Bundle, bool, error)
	// Save replaces the bundle under key.
	Save(ctx context.Context, key string, b bundle.Bundle) error
	// Delete removes the bundle under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
	// Keys lists saved keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns the store for driver rooted at path. An empty path resolves
// to DefaultDir.
func Open(driver, path string) (Store, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = dir
	}
	switch driver {
	case "", DriverFile:
		return NewFileStore(path)
	case DriverSQLite:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.Wrap(err, "create store dir")
		}
		return OpenSQLite(filepath.Join(path, "bundles.db"))
	default:
		return nil, errors.Errorf("unknown store driver %q", driver)
	}
}

// DefaultDir returns $STATEHOST_STORE_DIR, or ~/.statehost.
func DefaultDir() (string, error) {
	if base := os.Getenv(DirEnv); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, DefaultBase), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
