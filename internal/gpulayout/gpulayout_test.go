package gpulayout

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/svo"
)

func TestEncodeUniformsSize(t *testing.T) {
	buf := EncodeUniforms(Uniforms{Width: 1920, Height: 1080, AspectRatio: 16.0 / 9.0, FovTan: 0.577, BVHRoot: 3})
	if len(buf)%16 != 0 {
		t.Fatalf("std140 uniform block must be a multiple of 16 bytes, got %d", len(buf))
	}
	widthOff := 16*4 + 4*4
	if got := binary.LittleEndian.Uint32(buf[widthOff:]); got != 1920 {
		t.Fatalf("expected width 1920 at offset %d, got %d", widthOff, got)
	}
}

func TestEncodeNodePoolRoundTrip(t *testing.T) {
	pool := []svo.Node{{0x40000000, 0x00FF00}}
	buf := EncodeNodePool(pool)
	if len(buf) != 8 {
		t.Fatalf("expected 8 bytes for one node, got %d", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:]) != 0x40000000 {
		t.Fatalf("word0 mismatch")
	}
	if binary.LittleEndian.Uint32(buf[4:]) != 0x00FF00 {
		t.Fatalf("word1 mismatch")
	}
}

func TestEncodeBVHNodesSize(t *testing.T) {
	nodes := []bvh.Node{{Center: [4]float32{1, 2, 3, 1}, Radius: 5, Left: 1, Right: 2}}
	buf := EncodeBVHNodes(nodes)
	if len(buf) != 32 {
		t.Fatalf("expected 32 bytes per BVH node, got %d", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[16:]) != math.Float32bits(5) {
		t.Fatalf("radius field mismatch")
	}
}

func TestEncodeBVHLeavesSize(t *testing.T) {
	leaves := []bvh.Leaf{{ModelAddress: 42}}
	buf := EncodeBVHLeaves(leaves)
	if len(buf) != 80 {
		t.Fatalf("expected 80 padded bytes per BVH leaf, got %d", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[64:]) != 42 {
		t.Fatalf("model address field mismatch")
	}
}
