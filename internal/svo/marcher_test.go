package svo

import (
	"math"
	"testing"

	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

func buildSVO(t *testing.T, size uint32, occupied [3]uint32) *SVO {
	t.Helper()
	grid, err := voxelgrid.New(size)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	grid.Set(occupied[0], occupied[1], occupied[2])
	return Build(grid)
}

func TestTraceSingleVoxelAtOrigin(t *testing.T) {
	s := buildSVO(t, 2, [3]uint32{0, 0, 0})

	hit, ok := s.Trace(Vec3{X: -1, Y: 0.5, Z: 0.5}, Vec3{X: 1, Y: 0, Z: 0})
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Normal != (Vec3{X: -1, Y: 0, Z: 0}) {
		t.Fatalf("expected -X face normal, got %+v", hit.Normal)
	}
	if hit.Color != 0x000000 {
		t.Fatalf("expected color 0, got %x", hit.Color)
	}
}

func TestTraceTwoDeepOctreeMiss(t *testing.T) {
	s := buildSVO(t, 4, [3]uint32{3, 3, 3})

	_, ok := s.Trace(Vec3{X: -1, Y: 4.5, Z: 4.5}, Vec3{X: 1, Y: 0, Z: 0})
	if ok {
		t.Fatalf("expected the ray through empty space to miss")
	}
}

func TestTraceTwoDeepOctreeHit(t *testing.T) {
	s := buildSVO(t, 4, [3]uint32{3, 3, 3})

	hit, ok := s.Trace(Vec3{X: 10, Y: 3.5, Z: 3.5}, Vec3{X: -1, Y: 0, Z: 0})
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(float64(hit.T-6)) > 0.5 {
		t.Fatalf("expected t close to 6, got %v", hit.T)
	}
	if hit.Normal != (Vec3{X: 1, Y: 0, Z: 0}) {
		t.Fatalf("expected +X face normal, got %+v", hit.Normal)
	}
}

func TestTraceMissForEmptyGrid(t *testing.T) {
	grid, _ := voxelgrid.New(2)
	grid.Set(1, 1, 1)
	s := Build(grid)

	_, ok := s.Trace(Vec3{X: -5, Y: -5, Z: -5}, Vec3{X: -1, Y: -1, Z: -1})
	if ok {
		t.Fatalf("a ray aimed away from the only occupied cell must miss")
	}
}
