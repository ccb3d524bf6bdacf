// Package rasterizer projects a transformed point cloud into three
// Morton-indexed occupancy levels at decreasing resolution. It is an
// alternate voxelization path: the SVO builder does not use it and
// samples the voxel grid directly.
package rasterizer

import (
	"github.com/voxtrace/voxtrace/internal/morton"
	"github.com/voxtrace/voxtrace/internal/simdvec"
	"github.com/voxtrace/voxtrace/internal/sparse"
)

// brickWidth is the edge length of one rasterization brick; each
// successive level groups 16x16x16 = 4096 cells of the level below it
// into a single cell, which is 12 Morton bits (3 octree levels).
const brickWidth = 16

const levelShiftBits = 12 // log2(brickWidth^3)

// Hierarchy holds the three occupancy levels, finest first: Levels[0]
// is indexed by the full Morton key, Levels[1] by key>>12, Levels[2] by
// key>>24.
type Hierarchy struct {
	Levels [3]*sparse.Slice[uint8]
}

// New allocates a three-level hierarchy: Levels[0] spans brickWidth^9
// cells, Levels[1] brickWidth^6, and Levels[2] brickWidth^3. Each level
// is backed by a lazily-committed sparse slice, so the allocation is
// cheap even though the address space is not: only touched cells are
// ever paged in.
func New() (*Hierarchy, error) {
	h := &Hierarchy{}
	volume := uint64(1)
	for level := 2; level >= 0; level-- {
		volume *= brickWidth * brickWidth * brickWidth
		s, err := sparse.New[uint8](int(volume))
		if err != nil {
			return nil, err
		}
		h.Levels[level] = s
	}
	return h, nil
}

// Rasterize transforms every point in list by transform, divides by
// the homogeneous w to project into the target space, rounds to the
// nearest integer cell, and marks that cell occupied at all three
// levels simultaneously via the Morton-key bit shifts above.
func (h *Hierarchy) Rasterize(list *simdvec.List, transform simdvec.Mat4) {
	for _, b := range list.Batches {
		t := (&simdvec.List{Batches: []simdvec.Batch{b}}).Transform(transform).Batches[0]
		for lane := 0; lane < simdvec.NLanes; lane++ {
			w := t.W[lane]
			if w == 0 {
				continue
			}
			x := roundToUint64(t.X[lane] / w)
			y := roundToUint64(t.Y[lane] / w)
			z := roundToUint64(t.Z[lane] / w)
			m := morton.Encode3D(x, y, z)
			h.Levels[0].Set(m, 1)
			h.Levels[1].Set(m>>levelShiftBits, 1)
			h.Levels[2].Set(m>>(2*levelShiftBits), 1)
		}
	}
}

// Occupied reports whether the Morton key m is marked occupied at the
// finest level.
func (h *Hierarchy) Occupied(m uint64) bool {
	return h.Levels[0].Get(m) != 0
}

func roundToUint64(f float32) uint64 {
	if f <= 0 {
		return 0
	}
	return uint64(f + 0.5)
}
