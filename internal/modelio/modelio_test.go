package modelio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/voxtrace/voxtrace/internal/storage"
)

func TestLoadParsesSizeAndCoordinates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "cube_4.csv", "0,0,0\n1,2,3\n3,3,3\n")

	backend := storage.NewLocalBackend(dir)
	grid, err := Load(context.Background(), backend, "cube_4.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if grid.Size() != 4 {
		t.Fatalf("expected size 4, got %d", grid.Size())
	}
	if !grid.At(0, 0, 0) || !grid.At(1, 2, 3) || !grid.At(3, 3, 3) {
		t.Fatalf("expected all listed cells to be occupied")
	}
	if grid.At(2, 2, 2) {
		t.Fatalf("expected an unlisted cell to be unoccupied")
	}
}

func TestLoadRejectsMissingSizeSuffix(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "cube.csv", "0,0,0\n")

	backend := storage.NewLocalBackend(dir)
	if _, err := Load(context.Background(), backend, "cube.csv"); err == nil {
		t.Fatalf("expected an error for a filename without a size suffix")
	}
}

func TestLoadRejectsNonPowerOfTwoSize(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "cube_3.csv", "0,0,0\n")

	backend := storage.NewLocalBackend(dir)
	if _, err := Load(context.Background(), backend, "cube_3.csv"); err == nil {
		t.Fatalf("expected an error for a non-power-of-two size")
	}
}

func TestListFiltersAndSortsCSVFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b_2.csv", "0,0,0\n")
	write(t, dir, "a_2.csv", "0,0,0\n")
	write(t, dir, "notes.txt", "ignore me\n")

	backend := storage.NewLocalBackend(dir)
	keys, err := List(context.Background(), backend, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a_2.csv" || keys[1] != "b_2.csv" {
		t.Fatalf("expected sorted [a_2.csv b_2.csv], got %v", keys)
	}
}

func write(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
