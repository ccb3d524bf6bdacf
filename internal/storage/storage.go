// Package storage abstracts the read-only backends the CSV model
// loader (internal/modelio) can read `<name>_<N>.csv` files from:
// local disk, or one of three cloud object stores. Render and build
// never write models back to storage, so the interface only exposes
// Get/Exists/List.
package storage

import (
	"context"
	"fmt"

	"github.com/voxtrace/voxtrace/internal/config"
)

// Backend is a read-only object store. Every implementation treats
// keys as forward-slash-separated paths relative to its own root
// (a local directory, an S3/GCS bucket, or an Azure container).
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Type() string
}

// Manager wraps a primary backend with an optional fallback, trying
// the fallback only when the primary errors.
type Manager struct {
	primary  Backend
	fallback Backend
}

// NewManager wraps primary with no fallback configured.
func NewManager(primary Backend) *Manager {
	return &Manager{primary: primary}
}

// SetFallback installs a fallback backend, consulted when the primary
// fails.
func (m *Manager) SetFallback(backend Backend) {
	m.fallback = backend
}

// Get retrieves key from the primary backend, falling back on error.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.primary.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if m.fallback != nil {
		if data, ferr := m.fallback.Get(ctx, key); ferr == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("failed to get %s: %w", key, err)
}

// Exists reports whether key exists in the primary backend, or the
// fallback if the primary check errors.
func (m *Manager) Exists(ctx context.Context, key string) (bool, error) {
	if exists, err := m.primary.Exists(ctx, key); err == nil {
		return exists, nil
	}
	if m.fallback != nil {
		return m.fallback.Exists(ctx, key)
	}
	return false, nil
}

// List returns keys with the given prefix from the primary backend,
// or the fallback if the primary listing errors.
func (m *Manager) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := m.primary.List(ctx, prefix)
	if err != nil && m.fallback != nil {
		return m.fallback.List(ctx, prefix)
	}
	return keys, err
}

// NewFromConfig constructs the backend named by cfg.Backend.
func NewFromConfig(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "local", "":
		if cfg.LocalPath == "" {
			return nil, fmt.Errorf("local storage path not configured")
		}
		return NewLocalBackend(cfg.LocalPath), nil
	case "s3":
		return NewS3Backend(cfg.CloudBucket, cfg.CloudRegion, cfg.CloudPrefix)
	case "gcs":
		return NewGCSBackend(cfg.CloudBucket, cfg.CloudPrefix)
	case "azure":
		return NewAzureBackend(cfg.CloudBucket, cfg.CloudPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
