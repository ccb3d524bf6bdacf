package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalBackendGetExistsList(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(dir, "scene_0.csv", "1,2,3\n"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	backend := NewLocalBackend(dir)
	ctx := context.Background()

	exists, err := backend.Exists(ctx, "scene_0.csv")
	if err != nil || !exists {
		t.Fatalf("expected scene_0.csv to exist, got exists=%v err=%v", exists, err)
	}

	data, err := backend.Get(ctx, "scene_0.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "1,2,3\n" {
		t.Fatalf("unexpected contents: %q", data)
	}

	keys, err := backend.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != "scene_0.csv" {
		t.Fatalf("expected [scene_0.csv], got %v", keys)
	}
}

func TestLocalBackendMissingKey(t *testing.T) {
	backend := NewLocalBackend(t.TempDir())
	ctx := context.Background()

	exists, err := backend.Exists(ctx, "missing.csv")
	if err != nil || exists {
		t.Fatalf("expected missing key to report false, got exists=%v err=%v", exists, err)
	}

	if _, err := backend.Get(ctx, "missing.csv"); err == nil {
		t.Fatalf("expected an error reading a missing key")
	}
}

type failingBackend struct{}

func (failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("primary down")
}
func (failingBackend) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("primary down")
}
func (failingBackend) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, errors.New("primary down")
}
func (failingBackend) Type() string { return "failing" }

func TestManagerFallsBackOnPrimaryError(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(dir, "scene_0.csv", "x\n"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	mgr := NewManager(failingBackend{})
	mgr.SetFallback(NewLocalBackend(dir))

	data, err := mgr.Get(context.Background(), "scene_0.csv")
	if err != nil {
		t.Fatalf("expected fallback to serve the key, got %v", err)
	}
	if string(data) != "x\n" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func writeFile(dir, name, contents string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644)
}
