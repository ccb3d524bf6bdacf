// Package simdvec implements the structure-of-arrays vector batch used
// to transform occupied voxel centers through a 4x4 matrix. Each Batch
// holds NLanes points as four parallel float32 lanes (x, y, z, w)
// rather than NLanes separate Vector4 values, so a Transform call walks
// four flat slices instead of chasing pointers through an
// array-of-structs — the shape a compiler can autovectorize, even
// without an explicit SIMD type. No third-party SIMD library in the
// corpus targets portable float lanes in Go; see SPEC_FULL.md's note on
// this component for why the batch stays on top of the standard
// library instead.
package simdvec

import (
	"github.com/voxtrace/voxtrace/internal/errors"
	"github.com/voxtrace/voxtrace/internal/morton"
	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

// NLanes is the batch width: how many points a single Batch carries.
const NLanes = 8

// Batch holds NLanes homogeneous points as four parallel lane arrays.
type Batch struct {
	X, Y, Z, W [NLanes]float32
}

// Mat4 is a row-major 4x4 matrix, m[row*4+col].
type Mat4 [16]float32

// List is an ordered sequence of batches.
type List struct {
	Batches []Batch
}

// Len returns the number of batches.
func (l *List) Len() int { return len(l.Batches) }

// FromGrid builds a List from every occupied cell in g, visited in
// Morton order so spatially-close points land in the same batch — the
// access pattern the rasterizer relies on. The
// final partial batch, if any, is zero-padded in its unused lanes.
func FromGrid(g *voxelgrid.Grid) *List {
	var batches []Batch
	var cur Batch
	idx := 0
	size := uint64(g.Size())
	volume := size * size * size
	for m := uint64(0); m < volume; m++ {
		mx, my, mz := morton.Decode3D(m)
		x, y, z := uint32(mx), uint32(my), uint32(mz)
		if x >= g.Size() || y >= g.Size() || z >= g.Size() {
			continue
		}
		if !g.At(x, y, z) {
			continue
		}
		cur.X[idx] = float32(x)
		cur.Y[idx] = float32(y)
		cur.Z[idx] = float32(z)
		cur.W[idx] = 1.0
		idx++
		if idx == NLanes {
			batches = append(batches, cur)
			cur = Batch{}
			idx = 0
		}
	}
	if idx > 0 {
		batches = append(batches, cur)
	}
	return &List{Batches: batches}
}

// FromVectors packs a flat slice of (x,y,z,w) points into batches. len
// must be a multiple of NLanes — callers with a partial tail should pad
// before calling, mirroring the strict assertion in the reference
// implementation this type is modeled on.
func FromVectors(xs, ys, zs, ws []float32) (*List, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) || len(xs) != len(ws) {
		return nil, errors.New(errors.KindInput, "simdvec", "FromVectors", "lane slices must have equal length")
	}
	if len(xs)%NLanes != 0 {
		return nil, errors.Newf(errors.KindInput, "simdvec", "FromVectors", "length %d is not a multiple of %d", len(xs), NLanes)
	}
	batches := make([]Batch, len(xs)/NLanes)
	for i := range batches {
		base := i * NLanes
		copy(batches[i].X[:], xs[base:base+NLanes])
		copy(batches[i].Y[:], ys[base:base+NLanes])
		copy(batches[i].Z[:], zs[base:base+NLanes])
		copy(batches[i].W[:], ws[base:base+NLanes])
	}
	return &List{Batches: batches}, nil
}

// Transform returns a new List with every point multiplied by m. The
// four lane arrays are walked independently per matrix row so each
// inner loop is a flat float32 multiply-accumulate over NLanes — the
// same shape as the scalar path, just batched.
func (l *List) Transform(m Mat4) *List {
	out := &List{Batches: make([]Batch, len(l.Batches))}
	for i, b := range l.Batches {
		var r Batch
		for lane := 0; lane < NLanes; lane++ {
			x, y, z, w := b.X[lane], b.Y[lane], b.Z[lane], b.W[lane]
			r.X[lane] = m[0]*x + m[1]*y + m[2]*z + m[3]*w
			r.Y[lane] = m[4]*x + m[5]*y + m[6]*z + m[7]*w
			r.Z[lane] = m[8]*x + m[9]*y + m[10]*z + m[11]*w
			r.W[lane] = m[12]*x + m[13]*y + m[14]*z + m[15]*w
		}
		out.Batches[i] = r
	}
	return out
}

// Stats reports the batch count and total lane count (batches*NLanes,
// zero-padded lanes included), mirroring the
// diagnostic the reference implementation prints after rasterization.
func (l *List) Stats() (batches int, points int) {
	return len(l.Batches), len(l.Batches) * NLanes
}
