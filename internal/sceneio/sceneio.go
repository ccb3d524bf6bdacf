// Package sceneio assembles a renderable scene.Scene from one or more
// CSV models (§6): each model is loaded once, converted to an SVO, and
// placed as one or more BVH instances with a similarity transform.
// Grounded on the teacher's repository-to-view-model assembly step in
// internal/tui/services/data_service.go, adapted to this engine's
// SVO/BVH arena shape.
package sceneio

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/voxtrace/voxtrace/internal/bvh"
	"github.com/voxtrace/voxtrace/internal/errors"
	"github.com/voxtrace/voxtrace/internal/logger"
	"github.com/voxtrace/voxtrace/internal/metrics"
	"github.com/voxtrace/voxtrace/internal/modelio"
	"github.com/voxtrace/voxtrace/internal/scene"
	"github.com/voxtrace/voxtrace/internal/storage"
	"github.com/voxtrace/voxtrace/internal/svo"
)

// Placement is one instance's similarity transform: translation,
// uniform scale, and a rotation angle (radians) about the Y axis —
// enough to exercise the BVH's per-instance InvModel/Model pair
// without a full quaternion/euler rotation stack the spec doesn't ask
// for.
type Placement struct {
	ModelKey string
	Translation [3]float32
	Scale       float32
	RotationY   float32
}

// DefaultPlacements arranges n models translated 2 units apart along
// X, each at scale 1 with no rotation.
func DefaultPlacements(modelKeys []string) []Placement {
	placements := make([]Placement, len(modelKeys))
	for i, key := range modelKeys {
		placements[i] = Placement{ModelKey: key, Translation: [3]float32{float32(i) * 2, 0, 0}, Scale: 1}
	}
	return placements
}

// Result is an assembled scene plus the per-model SVO stats the build
// command's --stats output and the TUI dashboard report.
type Result struct {
	Scene      *scene.Scene
	NodeCounts map[string]int
}

// Build loads every distinct model key referenced by placements from
// backend, builds one SVO per distinct key, and places an instance per
// placement, wiring identical keys to the same SVO arena slot the way
// §3's "instances reference SVOs through a 32-bit address" describes.
func Build(ctx context.Context, backend storage.Backend, placements []Placement, m *metrics.Metrics) (*Result, error) {
	if len(placements) == 0 {
		return nil, errors.New(errors.KindInput, "sceneio", "Build", "no model placements supplied")
	}

	addrs := make(map[string]uint32)
	var svos []*svo.SVO
	nodeCounts := make(map[string]int)

	instances := make([]bvh.Instance, 0, len(placements))
	for _, p := range placements {
		addr, ok := addrs[p.ModelKey]
		if !ok {
			grid, err := modelio.Load(ctx, backend, p.ModelKey)
			if err != nil {
				return nil, err
			}

			start := time.Now()
			tree := svo.Build(grid)
			elapsed := time.Since(start)
			addr = uint32(len(svos))
			addrs[p.ModelKey] = addr
			svos = append(svos, tree)

			nodes, _ := tree.Stats()
			nodeCounts[p.ModelKey] = nodes
			if m != nil {
				m.RecordSVOBuild(elapsed, nodes)
			}
			logger.Info("built SVO for %s: %d nodes in %s", p.ModelKey, nodes, elapsed)
		}

		model, invModel := transforms(p)
		instances = append(instances, bvh.Instance{
			Address:     addr,
			Translation: p.Translation,
			Scale:       p.Scale,
			Model:       model,
			InvModel:    invModel,
		})
	}

	start := time.Now()
	h := bvh.Build(instances)
	elapsed := time.Since(start)
	if m != nil {
		nodes, _ := h.Stats()
		m.RecordBVHBuild(elapsed, nodes)
	}

	return &Result{
		Scene:      &scene.Scene{SVOs: svos, BVH: h},
		NodeCounts: nodeCounts,
	}, nil
}

// transforms builds the row-major 4x4 model matrix (rotate about Y,
// scale, translate) and its inverse for placement p. The inverse of a
// rotation+uniform-scale+translation similarity is cheap to close-form:
// transpose the rotation, divide by scale, and negate the rotated
// translation.
func transforms(p Placement) (model, inv [16]float32) {
	s := p.Scale
	if s == 0 {
		s = 1
	}
	c := float32(math.Cos(float64(p.RotationY)))
	sn := float32(math.Sin(float64(p.RotationY)))

	// Rotation about Y, row-major, scaled.
	r00, r02 := c*s, sn*s
	r20, r22 := -sn*s, c*s

	model = [16]float32{
		r00, 0, r02, p.Translation[0],
		0, s, 0, p.Translation[1],
		r20, 0, r22, p.Translation[2],
		0, 0, 0, 1,
	}

	invS := 1 / s
	ir00, ir02 := c*invS, -sn*invS
	ir20, ir22 := sn*invS, c*invS
	tx, ty, tz := p.Translation[0], p.Translation[1], p.Translation[2]

	inv = [16]float32{
		ir00, 0, ir02, -(ir00*tx + ir02*tz),
		0, invS, 0, -ty * invS,
		ir20, 0, ir22, -(ir20*tx + ir22*tz),
		0, 0, 0, 1,
	}
	return model, inv
}

// ModelKeys extracts the distinct ModelKey of each placement, in
// first-seen order, for callers that need to report which files were
// actually loaded (e.g. the build command's summary line).
func ModelKeys(placements []Placement) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, p := range placements {
		if !seen[p.ModelKey] {
			seen[p.ModelKey] = true
			keys = append(keys, p.ModelKey)
		}
	}
	return keys
}

// String implements fmt.Stringer for a Placement, used in log lines.
func (p Placement) String() string {
	return fmt.Sprintf("%s@(%.1f,%.1f,%.1f)x%.2f", p.ModelKey, p.Translation[0], p.Translation[1], p.Translation[2], p.Scale)
}
