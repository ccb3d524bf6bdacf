// Package svo implements the sparse voxel octree: a flat pool of
// 8-byte nodes built once from a dense voxel grid, then traversed by
// an allocation-free iterative ray-marcher.
package svo

// Node is the packed on-disk/in-memory representation of one octree
// slot: word0 carries the empty/leaf flags and child pool index, word1
// carries the packed color. This layout is wire-identical to the GPU
// node pool buffer (see internal/gpulayout) — nothing here may change
// without updating that encoding too.
type Node [2]uint32

const (
	emptyBit    = 1 << 31
	leafBit     = 1 << 30
	childIdxMask = 0x3fffffff
)

// newEmptyNode returns a node with only the empty bit set, the default
// state for every freshly-allocated slot.
func newEmptyNode() Node {
	return Node{emptyBit, 0}
}

// setNode overwrites a node in place with the given flags, child pool
// index (or, for a leaf, the sentinel 0x3fffffff), and packed color.
func setNode(n *Node, empty, leaf bool, children uint32, color uint32) {
	var w0 uint32
	if empty {
		w0 |= emptyBit
	}
	if leaf {
		w0 |= leafBit
	}
	w0 |= children & childIdxMask
	n[0] = w0
	n[1] = color
}

// IsEmpty reports whether the node's empty bit is set.
func (n Node) IsEmpty() bool { return n[0]&emptyBit != 0 }

// IsLeaf reports whether the node's leaf bit is set.
func (n Node) IsLeaf() bool { return n[0]&leafBit != 0 }

// ChildIdx returns the node's 30-bit child pool index.
func (n Node) ChildIdx() uint32 { return n[0] & childIdxMask }

// Color returns the node's packed RGB color.
func (n Node) Color() uint32 { return n[1] }
