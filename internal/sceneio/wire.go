package sceneio

import (
	"encoding/binary"
	"fmt"

	"github.com/voxtrace/voxtrace/internal/gpulayout"
	"github.com/voxtrace/voxtrace/internal/scene"
)

// wireMagic tags an encoded scene file so a GPU-side loader (out of
// scope here, per §1) can sanity-check the format before parsing it.
var wireMagic = [4]byte{'V', 'X', 'T', 'R'}

// EncodeScene serializes sc into the §6 wire-identical buffer layout:
// a magic tag and the SVO count, then the node pool of every SVO in
// the arena and the BVH's node/leaf arrays back to back, each section
// preceded by its element count. This is a write side only — the Go renderer never needs to
// read this format back; it is produced for the external GPU
// consumer's benefit, matching §1's "both back-ends consume the
// identical node-pool and BVH byte layout" contract.
func EncodeScene(sc *scene.Scene) []byte {
	var buf []byte
	buf = append(buf, wireMagic[:]...)

	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}

	putU32(uint32(len(sc.SVOs)))
	for _, tree := range sc.SVOs {
		pool := gpulayout.EncodeNodePool(tree.Pool)
		putU32(uint32(len(tree.Pool)))
		buf = append(buf, pool...)
	}

	nodes := gpulayout.EncodeBVHNodes(sc.BVH.Nodes)
	putU32(uint32(len(sc.BVH.Nodes)))
	buf = append(buf, nodes...)

	leaves := gpulayout.EncodeBVHLeaves(sc.BVH.Leaves)
	putU32(uint32(len(sc.BVH.Leaves)))
	buf = append(buf, leaves...)

	return buf
}

// SectionSizes reports the byte size of each section EncodeScene would
// produce, for the build command's --stats summary.
func SectionSizes(sc *scene.Scene) (nodePoolBytes, bvhNodeBytes, bvhLeafBytes int) {
	for _, tree := range sc.SVOs {
		nodePoolBytes += len(tree.Pool) * 8
	}
	bvhNodeBytes = len(sc.BVH.Nodes) * 32
	bvhLeafBytes = len(sc.BVH.Leaves) * 80
	return
}

// String is a human-readable one-liner for the --stats summary.
func (r *Result) String() string {
	nodePoolBytes, bvhNodeBytes, bvhLeafBytes := SectionSizes(r.Scene)
	return fmt.Sprintf("%d SVOs, %d BVH nodes (%dB), %d BVH leaves (%dB), %dB node pools",
		len(r.Scene.SVOs), len(r.Scene.BVH.Nodes), bvhNodeBytes, len(r.Scene.BVH.Leaves), bvhLeafBytes, nodePoolBytes)
}
