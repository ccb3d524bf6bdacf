package sceneio

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/internal/storage"
)

func TestEncodeSceneSectionSizes(t *testing.T) {
	dir := t.TempDir()
	key := writeModel(t, dir, "cube_2.csv", [][3]int{{0, 0, 0}})
	require.NoError(t, os.MkdirAll(dir, 0o755))
	backend := storage.NewLocalBackend(dir)

	result, err := Build(context.Background(), backend, DefaultPlacements([]string{key}), nil)
	require.NoError(t, err)

	encoded := EncodeScene(result.Scene)
	assert.Greater(t, len(encoded), 4, "must carry at least the magic header")
	assert.Equal(t, byte('V'), encoded[0])

	nodePoolBytes, bvhNodeBytes, bvhLeafBytes := SectionSizes(result.Scene)
	assert.Greater(t, nodePoolBytes, 0)
	assert.Greater(t, bvhNodeBytes, 0)
	assert.Greater(t, bvhLeafBytes, 0)
}
