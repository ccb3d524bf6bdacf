package voxelgrid

import "testing"

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := New(3); err == nil {
		t.Fatalf("expected error for non-power-of-two size")
	}
}

func TestSetAndAt(t *testing.T) {
	g, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Set(1, 2, 3)
	if !g.At(1, 2, 3) {
		t.Fatalf("expected (1,2,3) to be occupied")
	}
	if g.At(0, 0, 0) {
		t.Fatalf("expected (0,0,0) to be empty")
	}
	if g.At(100, 0, 0) {
		t.Fatalf("out-of-bounds At should report false, not panic")
	}
}

func TestSampleBlock(t *testing.T) {
	g, _ := New(8)
	g.Set(4, 4, 4)
	if !g.Sample(0, 0, 0, 8) {
		t.Fatalf("expected whole-grid sample to find the occupied cell")
	}
	if g.Sample(0, 0, 0, 4) {
		t.Fatalf("expected the opposite octant to be empty")
	}
	if !g.Sample(4, 4, 4, 4) {
		t.Fatalf("expected the containing octant to be occupied")
	}
}

func TestOccupiedEnumeratesAll(t *testing.T) {
	g, _ := New(4)
	g.Set(0, 0, 0)
	g.Set(3, 3, 3)
	count := 0
	g.Occupied(func(x, y, z uint32) { count++ })
	if count != 2 {
		t.Fatalf("expected 2 occupied cells, got %d", count)
	}
}
