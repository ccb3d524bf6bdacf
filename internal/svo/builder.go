package svo

import "github.com/voxtrace/voxtrace/internal/voxelgrid"

// SVO is a flat pool of nodes forming a sparse voxel octree, rooted at
// node_pool[0]. Size is the octree's extent in the [1,2) unit-cube
// space the ray-marcher operates in (kept at (1,1,1) — see the design
// note on the marcher's fixed coordinate convention).
type SVO struct {
	Pool []Node
	Size [3]float32
}

// Build constructs an SVO from a dense occupancy grid. grid.Size()
// must be a power of two; the recursion bottoms out at half_size==1,
// where a child becomes a leaf rather than recursing one level
// further into single-cell nodes.
//
// Child-slot bit convention, fixed for the lifetime of this type and
// shared with the ray-marcher's face-normal table in marcher.go: a set
// bit 0 of a slot index selects the base (lower) x half and a clear bit
// 0 the +x half; bits 1 and 2 do the same for y and z. A set bit does
// not select the + side (see childOffsets).
// Mixing a pool built under a different convention with this
// marcher silently produces wrong intersections, not a crash.
func Build(grid *voxelgrid.Grid) *SVO {
	svo := &SVO{Size: [3]float32{1, 1, 1}}
	svo.Pool = append(svo.Pool, newEmptyNode())
	setNode(&svo.Pool[0], false, false, 1, 0xFF00FF)
	svo.buildOctree(grid, 0, 0, 0, grid.Size())
	return svo
}

// childOffsets gives, for slot i in 0..8, the coordinate offset along
// each axis: a zero bit in slot i selects the +half side of that axis,
// a set bit selects the base side. This is the fixed convention the
// marcher's face-normal table in marcher.go assumes.
func childOffsets(x, y, z, half uint32) (cx, cy, cz [8]uint32) {
	for i := 0; i < 8; i++ {
		if i&1 == 0 {
			cx[i] = x + half
		} else {
			cx[i] = x
		}
		if i&2 == 0 {
			cy[i] = y + half
		} else {
			cy[i] = y
		}
		if i&4 == 0 {
			cz[i] = z + half
		} else {
			cz[i] = z
		}
	}
	return
}

// buildOctree recursively partitions the cube [x,x+size)^3 into eight
// half-size children, appending a fresh tile of 8 nodes for this call
// and recursing into any child that contains occupied voxels. It
// returns the pool index of the tile it appended, matching the
// reference builder's return-and-link convention used by the caller to
// wire a parent's child_idx field.
func (s *SVO) buildOctree(grid *voxelgrid.Grid, x, y, z, size uint32) uint32 {
	half := size >> 1
	cx, cy, cz := childOffsets(x, y, z, half)

	tileIdx := uint32(len(s.Pool))
	for i := 0; i < 8; i++ {
		s.Pool = append(s.Pool, newEmptyNode())
	}

	for i := 0; i < 8; i++ {
		if !grid.Sample(cx[i], cy[i], cz[i], half) {
			continue
		}
		color := cx[i] | (cy[i] << 8) | (cz[i] << 16)
		if half != 1 {
			childIdx := s.buildOctree(grid, cx[i], cy[i], cz[i], half)
			setNode(&s.Pool[tileIdx+uint32(i)], false, false, childIdx, color)
		} else {
			setNode(&s.Pool[tileIdx+uint32(i)], false, true, childIdxMask, color)
		}
	}
	return tileIdx
}

// SizeBytes returns the flat memory footprint of the node pool, the
// number the build CLI reports alongside build duration.
func (s *SVO) SizeBytes() int {
	return len(s.Pool) * 8
}

// Stats reports the node count, used by the build command's summary
// output and the --stats flag.
func (s *SVO) Stats() (nodes int, bytes int) {
	return len(s.Pool), s.SizeBytes()
}
