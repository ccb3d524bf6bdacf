package svo

import (
	"testing"

	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

func TestBuildSingleVoxel(t *testing.T) {
	grid, err := voxelgrid.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	grid.Set(0, 0, 0)

	s := Build(grid)

	if len(s.Pool) != 9 {
		t.Fatalf("expected root + one tile of 8 nodes = 9 pool entries, got %d", len(s.Pool))
	}
	if s.Pool[0].ChildIdx() != 1 {
		t.Fatalf("expected root to point at tile index 1, got %d", s.Pool[0].ChildIdx())
	}

	// The slot whose child offsets resolve to (0,0,0) is i=7 (every bit
	// set selects the base coordinate, not the +half one).
	occupiedSlot := s.Pool[1+7]
	if occupiedSlot.IsEmpty() {
		t.Fatalf("expected the (0,0,0) slot to be occupied")
	}
	if !occupiedSlot.IsLeaf() {
		t.Fatalf("expected a single-level grid to bottom out at a leaf")
	}
	if occupiedSlot.Color() != 0 {
		t.Fatalf("expected color 0 for voxel at origin, got %x", occupiedSlot.Color())
	}

	for i := 0; i < 8; i++ {
		if i == 7 {
			continue
		}
		if !s.Pool[1+i].IsEmpty() {
			t.Fatalf("expected slot %d to remain empty", i)
		}
	}
}

func TestBuildTwoLevelGrid(t *testing.T) {
	grid, _ := voxelgrid.New(4)
	grid.Set(3, 3, 3)

	s := Build(grid)

	leaves := 0
	for _, n := range s.Pool {
		if !n.IsEmpty() && n.IsLeaf() {
			leaves++
		}
	}
	if leaves != 1 {
		t.Fatalf("expected exactly one leaf, got %d", leaves)
	}
}
