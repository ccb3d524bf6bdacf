// Package bvh builds a bounding-volume hierarchy of bounding spheres
// over SVO instances, letting the scene tracer cull whole subtrees of
// instances before paying for a per-instance ray/octree traversal.
package bvh

import (
	"math"
	"sort"

	"github.com/voxtrace/voxtrace/internal/morton"
)

// leafBit marks a BVH node's left/right index as pointing into the
// Leaves array rather than the Nodes array.
const leafBit = 0x80000000

// sentinelNode is the index of the always-empty node every odd-tail
// pair's missing sibling points at. A child reference equal to this
// index (with leafBit clear) is a no-op during traversal.
const sentinelNode = 0

// Instance is one SVO placed in the scene: an address into the SVO
// arena plus the similarity transform (translation + rotation + scale)
// from object space to world space, reduced here to the two things the
// builder needs (translation for Morton sorting and bounding, and the
// precomputed world-to-object inverse the tracer will use) plus the
// uniform scale that sizes the instance's bounding sphere.
type Instance struct {
	Address     uint32
	Translation [3]float32
	Scale       float32
	InvModel    [16]float32 // row-major 4x4 inverse of the model matrix
	Model       [16]float32 // row-major 4x4 forward model matrix
}

// Node is a bounding sphere plus two child indices, 28 bytes in memory
// and 32 bytes (zero-padded) in gpulayout's wire form. The top
// bit of Left/Right selects which array the remaining 31 bits index
// into — see leafBit.
type Node struct {
	Center       [4]float32
	Radius       float32
	Left, Right  uint32
}

// Leaf is one instance record as the tracer consumes it: the
// pre-inverted model matrix and the SVO arena address it traces into.
// Model, the forward transform, rides alongside for the CPU tracer's
// convenience when mapping an object-space hit back to world space;
// the GPU wire format (internal/gpulayout) serializes only InvModel
// and ModelAddress, matching §6.
type Leaf struct {
	InvModel     [16]float32
	Model        [16]float32
	ModelAddress uint32
}

// BVH is the built hierarchy: a root index plus the flat node and leaf
// arrays every index in the tree points into.
type BVH struct {
	Root  uint32
	Nodes []Node
	Leaves []Leaf
}

type sortedLeaf struct {
	key     uint64
	leaf    Leaf
	center  [3]float32
	radius  float32
}

func centerAndRadius(inst Instance) ([3]float32, float32) {
	return inst.Translation, inst.Scale
}

type sphere struct {
	center [3]float32
	radius float32
}

// boundingSphere merges two spheres by bounding both with an AABB and
// taking the diagonal midpoint/half-length as the new center/radius.
// This is not a minimum bounding sphere, but it is cheap and monotone
// (never shrinks when given a superset of geometry).
func boundingSphere(a, b sphere) sphere {
	inf := float32(math.Inf(1))
	min := [3]float32{inf, inf, inf}
	max := [3]float32{-inf, -inf, -inf}
	for _, s := range [2]sphere{a, b} {
		for i := 0; i < 3; i++ {
			if v := s.center[i] - s.radius; v < min[i] {
				min[i] = v
			}
			if v := s.center[i] + s.radius; v > max[i] {
				max[i] = v
			}
		}
	}
	var center [3]float32
	var distSq float32
	for i := 0; i < 3; i++ {
		center[i] = (min[i] + max[i]) / 2
		d := max[i] - min[i]
		distSq += d * d
	}
	return sphere{center: center, radius: float32(math.Sqrt(float64(distSq))) / 2}
}

// Build constructs a BVH over instances. It is linear in instance
// count: one Morton sort, one pass to pair leaves into parent nodes,
// and a bottom-up merge pass over the resulting node queue.
func Build(instances []Instance) *BVH {
	sorted := make([]sortedLeaf, len(instances))
	for i, inst := range instances {
		center, radius := centerAndRadius(inst)
		mortonPos := [3]float32{center[0] * 10, center[1] * 10, center[2] * 10}
		key := morton.Encode3D(uint64(mortonPos[0]), uint64(mortonPos[1]), uint64(mortonPos[2]))
		sorted[i] = sortedLeaf{
			key:    key,
			leaf:   Leaf{InvModel: inst.InvModel, Model: inst.Model, ModelAddress: inst.Address},
			center: center,
			radius: radius,
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	b := &BVH{}
	b.Nodes = append(b.Nodes, Node{}) // sentinel at index 0

	var queue []uint32
	for i := 0; i < len(sorted); i += 2 {
		leafIdx := uint32(len(b.Leaves))
		b.Leaves = append(b.Leaves, sorted[i].leaf)

		var left, right uint32
		var sp sphere
		if i == len(sorted)-1 {
			left = leafIdx | leafBit
			right = sentinelNode
			sp = sphere{center: sorted[i].center, radius: sorted[i].radius}
		} else {
			rightLeafIdx := uint32(len(b.Leaves))
			b.Leaves = append(b.Leaves, sorted[i+1].leaf)
			left = leafIdx | leafBit
			right = rightLeafIdx | leafBit
			sp = boundingSphere(
				sphere{center: sorted[i].center, radius: sorted[i].radius},
				sphere{center: sorted[i+1].center, radius: sorted[i+1].radius},
			)
		}

		b.Nodes = append(b.Nodes, Node{
			Center: [4]float32{sp.center[0], sp.center[1], sp.center[2], 1},
			Radius: sp.radius,
			Left:   left,
			Right:  right,
		})
		queue = append(queue, uint32(len(b.Nodes)-1))
	}

	for len(queue) > 1 {
		leftIdx, rightIdx := queue[0], queue[1]
		queue = queue[2:]

		leftNode, rightNode := b.Nodes[leftIdx], b.Nodes[rightIdx]
		sp := boundingSphere(
			sphere{center: [3]float32{leftNode.Center[0], leftNode.Center[1], leftNode.Center[2]}, radius: leftNode.Radius},
			sphere{center: [3]float32{rightNode.Center[0], rightNode.Center[1], rightNode.Center[2]}, radius: rightNode.Radius},
		)
		b.Nodes = append(b.Nodes, Node{
			Center: [4]float32{sp.center[0], sp.center[1], sp.center[2], 1},
			Radius: sp.radius,
			Left:   leftIdx,
			Right:  rightIdx,
		})
		queue = append(queue, uint32(len(b.Nodes)-1))
	}

	b.Root = queue[0]
	return b
}

// IsLeafRef reports whether a Node.Left/Right value addresses the
// Leaves array.
func IsLeafRef(ref uint32) bool { return ref&leafBit != 0 }

// RefIndex strips the leaf tag bit, returning the plain array index.
func RefIndex(ref uint32) uint32 { return ref &^ leafBit }

// IsSentinel reports whether a node-indexed ref points at the always-
// empty root sentinel — the marker for a pair's missing sibling.
func IsSentinel(ref uint32) bool { return !IsLeafRef(ref) && ref == sentinelNode }

// Stats reports the node and leaf counts, used by the build command's
// summary output and the Prometheus build-time gauges.
func (b *BVH) Stats() (nodes, leaves int) {
	return len(b.Nodes), len(b.Leaves)
}
