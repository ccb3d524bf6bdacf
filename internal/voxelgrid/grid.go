// Package voxelgrid holds the dense occupancy source the SVO builder
// consumes: a cubical boolean field of power-of-two edge length, built
// once from a list of occupied coordinates and read-only thereafter.
package voxelgrid

import "github.com/voxtrace/voxtrace/internal/errors"

// Grid is a dense N×N×N occupancy field.
type Grid struct {
	size uint32
	data []bool // indexed as x*size*size + y*size + z
}

// New creates an empty grid of the given edge length. size must be a
// power of two, per the data model (§3).
func New(size uint32) (*Grid, error) {
	if size == 0 || size&(size-1) != 0 {
		return nil, errors.Newf(errors.KindInput, "voxelgrid", "New", "size %d is not a power of two", size)
	}
	return &Grid{size: size, data: make([]bool, uint64(size)*uint64(size)*uint64(size))}, nil
}

// Size returns the grid's edge length.
func (g *Grid) Size() uint32 { return g.size }

// Set marks (x,y,z) as occupied.
func (g *Grid) Set(x, y, z uint32) {
	errors.Requiref(x < g.size && y < g.size && z < g.size, "voxelgrid", "Set", "coordinate (%d,%d,%d) out of bounds for size %d", x, y, z, g.size)
	g.data[g.index(x, y, z)] = true
}

// At reports whether the single cell (x,y,z) is occupied.
func (g *Grid) At(x, y, z uint32) bool {
	if x >= g.size || y >= g.size || z >= g.size {
		return false
	}
	return g.data[g.index(x, y, z)]
}

// Sample reports whether any cell in the axis-aligned block
// [x,x+s)×[y,y+s)×[z,z+s) is occupied, short-circuiting on the first hit.
// Used exclusively by the SVO builder, where each recursion level halves
// s, keeping the cubic scan cheap.
func (g *Grid) Sample(x, y, z, s uint32) bool {
	for x1 := x; x1 < x+s; x1++ {
		for y1 := y; y1 < y+s; y1++ {
			for z1 := z; z1 < z+s; z1++ {
				if g.At(x1, y1, z1) {
					return true
				}
			}
		}
	}
	return false
}

// Occupied calls fn once for every occupied cell, in row-major (x,y,z)
// order. The SIMD rasterization path (§4.D) does not use it: it wants
// Morton order and walks the grid itself — see simdvec.FromGrid.
func (g *Grid) Occupied(fn func(x, y, z uint32)) {
	for x := uint32(0); x < g.size; x++ {
		for y := uint32(0); y < g.size; y++ {
			for z := uint32(0); z < g.size; z++ {
				if g.data[g.index(x, y, z)] {
					fn(x, y, z)
				}
			}
		}
	}
}

func (g *Grid) index(x, y, z uint32) uint64 {
	s := uint64(g.size)
	return uint64(x)*s*s + uint64(y)*s + uint64(z)
}
