package rasterizer

import (
	"testing"

	"github.com/voxtrace/voxtrace/internal/morton"
	"github.com/voxtrace/voxtrace/internal/simdvec"
)

func identity() simdvec.Mat4 {
	return simdvec.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func TestRasterizeMarksAllThreeLevels(t *testing.T) {
	h, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var b simdvec.Batch
	b.X[0], b.Y[0], b.Z[0], b.W[0] = 5, 6, 7, 1
	list := &simdvec.List{Batches: []simdvec.Batch{b}}

	h.Rasterize(list, identity())

	m := morton.Encode3D(5, 6, 7)
	if !h.Occupied(m) {
		t.Fatalf("expected finest level to be marked occupied at key %d", m)
	}
	if h.Levels[1].Get(m>>levelShiftBits) == 0 {
		t.Fatalf("expected mid level to be marked occupied")
	}
	if h.Levels[2].Get(m>>(2*levelShiftBits)) == 0 {
		t.Fatalf("expected coarse level to be marked occupied")
	}
}

func TestRasterizeSkipsZeroW(t *testing.T) {
	h, _ := New()
	var b simdvec.Batch
	b.X[0], b.Y[0], b.Z[0], b.W[0] = 1, 1, 1, 0
	list := &simdvec.List{Batches: []simdvec.Batch{b}}
	h.Rasterize(list, identity())
	if h.Occupied(morton.Encode3D(1, 1, 1)) {
		t.Fatalf("a zero-w point should not be projected")
	}
}

func TestRasterizeUnmarkedCellReadsZero(t *testing.T) {
	h, _ := New()
	if h.Occupied(morton.Encode3D(9, 9, 9)) {
		t.Fatalf("an untouched cell must read back as unoccupied")
	}
}
