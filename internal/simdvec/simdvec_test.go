package simdvec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

func TestFromVectorsRejectsNonMultiple(t *testing.T) {
	_, err := FromVectors(make([]float32, 3), make([]float32, 3), make([]float32, 3), make([]float32, 3))
	if err == nil {
		t.Fatalf("expected error for length not a multiple of NLanes")
	}
}

// TestTransformMatchesScalar builds 1024 random points, batches them,
// transforms through a random 4x4 matrix, and checks every lane
// against an independent scalar transform of the same point — the
// batched path must be bit-for-bit identical to doing it one vector at
// a time.
func TestTransformMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 1024
	xs := make([]float32, n)
	ys := make([]float32, n)
	zs := make([]float32, n)
	ws := make([]float32, n)
	for i := 0; i < n; i++ {
		xs[i] = rng.Float32()
		ys[i] = rng.Float32()
		zs[i] = rng.Float32()
		ws[i] = rng.Float32()
	}

	var m Mat4
	for i := range m {
		m[i] = rng.Float32()
	}

	list, err := FromVectors(xs, ys, zs, ws)
	if err != nil {
		t.Fatalf("FromVectors: %v", err)
	}
	transformed := list.Transform(m)

	idx := 0
	for _, b := range transformed.Batches {
		for lane := 0; lane < NLanes; lane++ {
			x, y, z, w := xs[idx], ys[idx], zs[idx], ws[idx]
			wantX := m[0]*x + m[1]*y + m[2]*z + m[3]*w
			wantY := m[4]*x + m[5]*y + m[6]*z + m[7]*w
			wantZ := m[8]*x + m[9]*y + m[10]*z + m[11]*w
			wantW := m[12]*x + m[13]*y + m[14]*z + m[15]*w
			if b.X[lane] != wantX || b.Y[lane] != wantY || b.Z[lane] != wantZ || b.W[lane] != wantW {
				t.Fatalf("lane %d mismatch: got (%v,%v,%v,%v) want (%v,%v,%v,%v)",
					idx, b.X[lane], b.Y[lane], b.Z[lane], b.W[lane], wantX, wantY, wantZ, wantW)
			}
			idx++
		}
	}
	if idx != n {
		t.Fatalf("expected to check %d points, checked %d", n, idx)
	}
}

func TestFromGridMortonOrderAndPadding(t *testing.T) {
	g, _ := voxelgrid.New(4)
	g.Set(0, 0, 0)
	g.Set(1, 0, 0)
	g.Set(0, 1, 0)
	list := FromGrid(g)
	batches, points := list.Stats()
	if batches != 1 {
		t.Fatalf("expected 1 batch for 3 points, got %d", batches)
	}
	if points != NLanes {
		t.Fatalf("expected %d points accounted for (including padding), got %d", NLanes, points)
	}
	// The 4th and later lanes are zero-padding, distinguishable from a
	// real point at the origin by their w component being 0, not 1.
	b := list.Batches[0]
	for lane := 3; lane < NLanes; lane++ {
		if b.W[lane] != 0 {
			t.Fatalf("expected padding lane %d to have w=0, got %v", lane, b.W[lane])
		}
	}
	if b.W[0] != 1 || b.W[1] != 1 || b.W[2] != 1 {
		t.Fatalf("expected real points to carry w=1")
	}
}

func TestTransformIdentity(t *testing.T) {
	g, _ := voxelgrid.New(2)
	g.Set(1, 1, 1)
	list := FromGrid(g)
	identity := Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	out := list.Transform(identity)
	b := out.Batches[0]
	if math.Abs(float64(b.X[0]-1)) > 1e-6 || math.Abs(float64(b.Y[0]-1)) > 1e-6 || math.Abs(float64(b.Z[0]-1)) > 1e-6 {
		t.Fatalf("identity transform should preserve coordinates, got (%v,%v,%v)", b.X[0], b.Y[0], b.Z[0])
	}
}
