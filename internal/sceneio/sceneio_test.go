package sceneio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/internal/storage"
)

func writeModel(t *testing.T, dir, name string, voxels [][3]int) string {
	t.Helper()
	var sb []byte
	for _, v := range voxels {
		sb = append(sb, []byte(fmt.Sprintf("%d,%d,%d\n", v[0], v[1], v[2]))...)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), sb, 0o644))
	return name
}

func TestBuildSingleModel(t *testing.T) {
	dir := t.TempDir()
	key := writeModel(t, dir, "cube_2.csv", [][3]int{{0, 0, 0}})
	backend := storage.NewLocalBackend(dir)

	result, err := Build(context.Background(), backend, DefaultPlacements([]string{key}), nil)
	require.NoError(t, err)
	assert.Len(t, result.Scene.SVOs, 1)
	assert.Equal(t, 1, len(result.NodeCounts))
}

func TestBuildSharesSVOAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	key := writeModel(t, dir, "cube_2.csv", [][3]int{{0, 0, 0}})
	backend := storage.NewLocalBackend(dir)

	placements := []Placement{
		{ModelKey: key, Translation: [3]float32{0, 0, 0}, Scale: 1},
		{ModelKey: key, Translation: [3]float32{2, 0, 0}, Scale: 1},
		{ModelKey: key, Translation: [3]float32{4, 0, 0}, Scale: 1},
	}

	result, err := Build(context.Background(), backend, placements, nil)
	require.NoError(t, err)
	assert.Len(t, result.Scene.SVOs, 1, "repeated model key should share one SVO arena slot")

	nodes, leaves := result.Scene.BVH.Stats()
	assert.Equal(t, 4, nodes, "sentinel + 2 pair-parents + 1 root")
	assert.Equal(t, 3, leaves)
}
