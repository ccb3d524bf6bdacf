// Package gpulayout defines the wire-identical buffer formats the GPU
// backend (out of scope here — see SPEC_FULL.md) would consume: a
// std140-packed uniform block, a tightly packed node pool, and the BVH
// node/leaf arrays. Nothing in this package touches a GPU API; it
// exists so the CPU-side structures this repo does own (svo.Node,
// bvh.Node, bvh.Leaf) have a single place documenting the exact byte
// layout a shader would expect, and a staging function that produces
// it.
package gpulayout

import (
	"encoding/binary"
	"math"

	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/svo"
)

// Uniforms mirrors the std140 layout: 16-byte alignment for the
// leading mat4, then vec4, then scalars packed into the tail.
type Uniforms struct {
	CameraRotation [16]float32 // mat4, column-major per std140
	CameraOrigin   [4]float32  // vec4 (w unused, present for 16B alignment)
	Width          uint32
	Height         uint32
	AspectRatio    float32
	FovTan         float32
	BVHRoot        uint32
	_pad           [3]uint32 // pad the tail back out to a 16B multiple
}

// uniformsWireSize is the byte size of the std140 block above:
// 16 floats + 4 floats + 5 scalars + 3 u32 padding = 28*4 = 112 bytes,
// itself a multiple of 16.
const uniformsWireSize = 16*4 + 4*4 + 5*4 + 3*4

// EncodeUniforms serializes u into its std140 wire representation.
func EncodeUniforms(u Uniforms) []byte {
	buf := make([]byte, uniformsWireSize)
	off := 0
	for _, f := range u.CameraRotation {
		binary.LittleEndian.PutUint32(buf[off:], float32bits(f))
		off += 4
	}
	for _, f := range u.CameraOrigin {
		binary.LittleEndian.PutUint32(buf[off:], float32bits(f))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:], u.Width)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], u.Height)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], float32bits(u.AspectRatio))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], float32bits(u.FovTan))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], u.BVHRoot)
	off += 4
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[off:], 0)
		off += 4
	}
	return buf
}

// EncodeNodePool serializes an SVO node pool into the tight
// [u32 word0; u32 word1] per-node layout §6 specifies — no padding
// between nodes, matching svo.Node's own in-memory shape exactly.
func EncodeNodePool(pool []svo.Node) []byte {
	buf := make([]byte, len(pool)*8)
	for i, n := range pool {
		binary.LittleEndian.PutUint32(buf[i*8:], n[0])
		binary.LittleEndian.PutUint32(buf[i*8+4:], n[1])
	}
	return buf
}

// bvhNodeWireSize is the fixed 32-byte BVH node record: vec4 center,
// f32 radius, u32 left, u32 right, then 4 bytes of zero padding.
const bvhNodeWireSize = 4*4 + 4 + 4 + 4 + 4

// EncodeBVHNodes serializes the BVH node array into its 32-byte-per-
// node wire form.
func EncodeBVHNodes(nodes []bvh.Node) []byte {
	buf := make([]byte, len(nodes)*bvhNodeWireSize)
	for i, n := range nodes {
		off := i * bvhNodeWireSize
		for j, c := range n.Center {
			binary.LittleEndian.PutUint32(buf[off+j*4:], float32bits(c))
		}
		binary.LittleEndian.PutUint32(buf[off+16:], float32bits(n.Radius))
		binary.LittleEndian.PutUint32(buf[off+20:], n.Left)
		binary.LittleEndian.PutUint32(buf[off+24:], n.Right)
	}
	return buf
}

// bvhLeafWireSize is mat4 (64B) + u32 address, padded to 16-byte
// alignment (80 bytes total), matching the on-disk/GPU leaf record.
const bvhLeafWireSize = 80

// EncodeBVHLeaves serializes the BVH leaf array into its padded
// 80-byte-per-leaf wire form.
func EncodeBVHLeaves(leaves []bvh.Leaf) []byte {
	buf := make([]byte, len(leaves)*bvhLeafWireSize)
	for i, l := range leaves {
		off := i * bvhLeafWireSize
		for j, f := range l.InvModel {
			binary.LittleEndian.PutUint32(buf[off+j*4:], float32bits(f))
		}
		binary.LittleEndian.PutUint32(buf[off+64:], l.ModelAddress)
		// remaining 12 bytes are alignment padding, left zero.
	}
	return buf
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}
