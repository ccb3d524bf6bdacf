package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend implements Backend over a directory on the local
// filesystem, the storage backend used by default for the CSV model
// corpus.
type LocalBackend struct {
	basePath string
}

// NewLocalBackend wraps basePath; it does not create the directory.
func NewLocalBackend(basePath string) *LocalBackend {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		absPath = basePath
	}
	return &LocalBackend{basePath: absPath}
}

// Type returns the backend type.
func (l *LocalBackend) Type() string {
	return "local"
}

// Get reads key from basePath.
func (l *LocalBackend) Get(ctx context.Context, key string) ([]byte, error) {
	path := l.keyToPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("key not found: %s", key)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Exists reports whether key exists under basePath.
func (l *LocalBackend) Exists(ctx context.Context, key string) (bool, error) {
	path := l.keyToPath(key)

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	return true, nil
}

// List walks basePath and returns every key whose path starts with
// prefix, skipping hidden and temp files.
func (l *LocalBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	prefixPath := l.keyToPath(prefix)

	err := filepath.Walk(l.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if strings.HasSuffix(path, ".tmp") {
			return nil
		}
		if strings.HasPrefix(path, prefixPath) {
			keys = append(keys, l.pathToKey(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return keys, nil
}

// keyToPath converts a storage key to a filesystem path, stripping
// every ".." from the key to block directory traversal.
func (l *LocalBackend) keyToPath(key string) string {
	key = strings.ReplaceAll(key, "..", "")
	key = strings.TrimPrefix(key, "/")
	parts := strings.Split(key, "/")
	return filepath.Join(append([]string{l.basePath}, parts...)...)
}

// pathToKey converts a filesystem path back to a storage key.
func (l *LocalBackend) pathToKey(path string) string {
	rel, err := filepath.Rel(l.basePath, path)
	if err != nil {
		return path
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}
