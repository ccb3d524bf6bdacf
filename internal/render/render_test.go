package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/scene"
	"github.com/voxtrace/voxtrace/internal/shading"
	"github.com/voxtrace/voxtrace/internal/svo"
	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

func buildSingleVoxelScene(t *testing.T) *scene.Scene {
	t.Helper()
	grid, err := voxelgrid.New(2)
	require.NoError(t, err)
	grid.Set(0, 0, 0)
	tree := svo.Build(grid)

	instances := []bvh.Instance{{
		Address:     0,
		Translation: [3]float32{0, 0, 0},
		Scale:       1,
		InvModel:    scene.Identity4(),
		Model:       scene.Identity4(),
	}}
	h := bvh.Build(instances)
	return &scene.Scene{SVOs: []*svo.SVO{tree}, BVH: h}
}

func TestRenderHitsOccupiedVoxel(t *testing.T) {
	sc := buildSingleVoxelScene(t)
	cam := scene.Camera{
		Origin:     scene.Vec3{X: -2, Y: 0.5, Z: 0.5},
		Rotation:   scene.Identity4(),
		Width:      8,
		Height:     8,
		FOVDegrees: 60,
	}
	gen := scene.NewRayGenerator(cam)
	lights := []shading.Light{{Kind: shading.Directional, Direction: scene.Vec3{X: 1, Y: 0, Z: 0}, Intensity: 1, Color: [3]float32{1, 1, 1}}}

	frame, rays := Render(sc, gen, cam, lights, Options{Workers: 2, Miss: 0x000000})
	assert.Equal(t, 8*8, len(frame.Pixels))
	assert.Greater(t, rays, int64(0))

	nonBlack := 0
	for _, p := range frame.Pixels {
		if p != 0 {
			nonBlack++
		}
	}
	assert.Greater(t, nonBlack, 0, "expected at least one ray to hit the voxel")
}

func TestRenderSingleWorker(t *testing.T) {
	sc := buildSingleVoxelScene(t)
	cam := scene.Camera{
		Origin:     scene.Vec3{X: -2, Y: 0.5, Z: 0.5},
		Rotation:   scene.Identity4(),
		Width:      4,
		Height:     4,
		FOVDegrees: 60,
	}
	gen := scene.NewRayGenerator(cam)

	frame, _ := Render(sc, gen, cam, nil, Options{Workers: 1})
	assert.Equal(t, 16, len(frame.Pixels))
}
