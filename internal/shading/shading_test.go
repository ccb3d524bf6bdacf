package shading

import (
	"testing"

	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/scene"
	"github.com/voxtrace/voxtrace/internal/svo"
	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

func buildOccluderScene(t *testing.T) *scene.Scene {
	t.Helper()
	grid, err := voxelgrid.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	grid.Set(0, 0, 0)
	tree := svo.Build(grid)

	instances := []bvh.Instance{
		{Address: 0, Translation: [3]float32{0, 0, 0}, Scale: 1, InvModel: scene.Identity4(), Model: scene.Identity4()},
	}
	h := bvh.Build(instances)
	return &scene.Scene{SVOs: []*svo.SVO{tree}, BVH: h}
}

func TestShadeOccludedLightContributesNothing(t *testing.T) {
	s := buildOccluderScene(t)

	// A synthetic hit far from the occluder, lit by a directional
	// light shining back through the occluder's position.
	hit := scene.Hit{
		Pos:    scene.Vec3{X: 5, Y: 0.5, Z: 0.5},
		Normal: scene.Vec3{X: 1, Y: 0, Z: 0},
		Color:  0xFFFFFF,
	}
	lights := []Light{
		{Kind: Directional, Direction: scene.Vec3{X: 1, Y: 0, Z: 0}, Intensity: 1, Color: [3]float32{1, 1, 1}},
	}

	out := Shade(s, Unpack(hit.Color), hit, lights)
	if out != 0 {
		t.Fatalf("expected an occluded light to contribute nothing, got %06x", out)
	}
}

func TestShadeUnoccludedLightContributesDiffuse(t *testing.T) {
	s := buildOccluderScene(t)

	hit := scene.Hit{
		Pos:    scene.Vec3{X: -1, Y: 0.5, Z: 0.5},
		Normal: scene.Vec3{X: -1, Y: 0, Z: 0},
		Color:  0xFFFFFF,
	}
	// Light shining straight along the surface normal, with nothing
	// between the hit point and the light.
	lights := []Light{
		{Kind: Directional, Direction: scene.Vec3{X: 1, Y: 0, Z: 0}, Intensity: 3, Color: [3]float32{1, 1, 1}},
	}

	out := Shade(s, Unpack(hit.Color), hit, lights)
	if out == 0 {
		t.Fatalf("expected a nonzero diffuse contribution")
	}
}

func TestPackClamps(t *testing.T) {
	if Pack([3]float32{2, -1, 0.5}) != 0xFF007F {
		t.Fatalf("expected clamping to 0xFF007F, got %06x", Pack([3]float32{2, -1, 0.5}))
	}
}

func TestUnpackPackRoundTrip(t *testing.T) {
	c := uint32(0x112233)
	if Pack(Unpack(c)) != c {
		t.Fatalf("expected round trip to preserve %06x, got %06x", c, Pack(Unpack(c)))
	}
}
