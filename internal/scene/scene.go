// Package scene resolves a primary ray into a shaded pixel: it prunes
// the BVH with a sphere test, transforms a surviving ray into each
// candidate instance's object space, and defers to the SVO
// ray-marcher for the actual voxel intersection.
package scene

import (
	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/svo"
)

// Vec3 is shared with the svo package's traversal type; scene keeps
// its own alias so callers don't have to import internal/svo just to
// build a ray.
type Vec3 = svo.Vec3

// Ray is a primary or shadow ray in world space.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Hit is a world-space intersection: position, outward normal, and
// the struck surface's packed color.
type Hit struct {
	T      float32
	Pos    Vec3
	Normal Vec3
	Color  uint32
}

// Scene is the read-only data a render worker needs: the BVH over
// instances and the arena of SVOs those instances' addresses index
// into. All of it is shared read-only across worker goroutines for
// the duration of a frame (§5's concurrency model).
type Scene struct {
	SVOs []*svo.SVO
	BVH  *bvh.BVH
}

// Trace resolves the closest-or-any hit for ray against the scene's
// BVH. Traversal order across overlapping instances is unspecified —
// the tracer returns on first hit, matching §4.I's documented
// simplification — so this is not technically a nearest-hit query
// when instances overlap.
func (s *Scene) Trace(ray Ray) (Hit, bool) {
	if s.BVH == nil || len(s.BVH.Nodes) == 0 {
		return Hit{}, false
	}
	return s.traceNode(s.BVH.Root, ray)
}

func (s *Scene) traceNode(ref uint32, ray Ray) (Hit, bool) {
	if bvh.IsLeafRef(ref) {
		return s.traceLeaf(bvh.RefIndex(ref), ray)
	}
	if bvh.IsSentinel(ref) {
		return Hit{}, false
	}
	node := s.BVH.Nodes[ref]
	if !sphereIntersects(node, ray) {
		return Hit{}, false
	}
	if hit, ok := s.traceNode(node.Left, ray); ok {
		return hit, true
	}
	return s.traceNode(node.Right, ray)
}

// sphereIntersects implements the culling test from §4.I:
// |(c-o) - ((c-o)*d)d|^2 <= r^2, using a normalized ray direction so
// the projection is a true perpendicular distance.
func sphereIntersects(node bvh.Node, ray Ray) bool {
	cx := node.Center[0] - ray.Origin.X
	cy := node.Center[1] - ray.Origin.Y
	cz := node.Center[2] - ray.Origin.Z

	dx, dy, dz := normalize(ray.Dir.X, ray.Dir.Y, ray.Dir.Z)

	proj := cx*dx + cy*dy + cz*dz
	px, py, pz := cx-proj*dx, cy-proj*dy, cz-proj*dz
	distSq := px*px + py*py + pz*pz
	return distSq <= node.Radius*node.Radius
}

func (s *Scene) traceLeaf(leafIdx uint32, ray Ray) (Hit, bool) {
	leaf := s.BVH.Leaves[leafIdx]
	if int(leaf.ModelAddress) >= len(s.SVOs) {
		return Hit{}, false
	}
	tree := s.SVOs[leaf.ModelAddress]
	if tree == nil {
		return Hit{}, false
	}

	objOrigin := transformPoint(leaf.InvModel, ray.Origin)
	objDir := transformDirection(leaf.InvModel, ray.Dir)

	hit, ok := tree.Trace(objOrigin, objDir)
	if !ok {
		return Hit{}, false
	}

	objPos := Vec3{
		X: objOrigin.X + hit.T*objDir.X,
		Y: objOrigin.Y + hit.T*objDir.Y,
		Z: objOrigin.Z + hit.T*objDir.Z,
	}
	worldPos := transformPoint(leaf.Model, objPos)
	worldNormal := transformDirection(leaf.Model, hit.Normal)
	nx, ny, nz := normalize(worldNormal.X, worldNormal.Y, worldNormal.Z)

	return Hit{
		T:      hit.T,
		Pos:    worldPos,
		Normal: Vec3{X: nx, Y: ny, Z: nz},
		Color:  hit.Color,
	}, true
}

func normalize(x, y, z float32) (float32, float32, float32) {
	lenSq := x*x + y*y + z*z
	if lenSq == 0 {
		return 0, 0, 0
	}
	inv := invSqrt(lenSq)
	return x * inv, y * inv, z * inv
}
