// Package render implements the per-pixel frame renderer: a worker
// pool partitions the framebuffer into disjoint row ranges (§5's
// "data-parallel at the pixel granularity" model), each worker tracing
// its own rows against a shared read-only Scene with no locks on the
// hot path. Grounded on the teacher's row-sharded WorkerPool
// (core/ingestion/ingestion_optimized.go).
package render

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/voxtrace/voxtrace/internal/scene"
	"github.com/voxtrace/voxtrace/internal/shading"
)

// Frame is a rendered framebuffer: width*height pixels, each packed
// 0x00RRGGBB per §6.
type Frame struct {
	Width, Height int
	Pixels        []uint32
}

// Options controls a single frame render.
type Options struct {
	Workers int // 0 selects runtime.NumCPU()
	Albedo  [3]float32
	Miss    uint32 // background color when a ray hits nothing and the axis fallback (if enabled) also misses
	AxisFallback bool
}

// Render traces one ray per pixel through gen against sc, shading each
// hit with lights, and returns the completed frame plus the total
// number of rays traced (primary + shadow), for the caller's metrics.
func Render(sc *scene.Scene, gen *scene.RayGenerator, cam scene.Camera, lights []shading.Light, opts Options) (*Frame, int64) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cam.Height {
		workers = cam.Height
	}
	if workers < 1 {
		workers = 1
	}

	frame := &Frame{Width: cam.Width, Height: cam.Height, Pixels: make([]uint32, cam.Width*cam.Height)}
	var rays int64

	rowCh := make(chan int, cam.Height)
	for y := 0; y < cam.Height; y++ {
		rowCh <- y
	}
	close(rowCh)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var localRays int64
			for y := range rowCh {
				renderRow(sc, gen, cam, lights, opts, frame, y, &localRays)
			}
			atomic.AddInt64(&rays, localRays)
		}()
	}
	wg.Wait()

	return frame, rays
}

func renderRow(sc *scene.Scene, gen *scene.RayGenerator, cam scene.Camera, lights []shading.Light, opts Options, frame *Frame, y int, rays *int64) {
	for x := 0; x < cam.Width; x++ {
		ray := gen.PrimaryRay(x, y)
		*rays++

		hit, ok := sc.Trace(ray)
		if !ok {
			frame.Pixels[y*cam.Width+x] = background(ray, opts)
			continue
		}

		albedo := opts.Albedo
		if albedo == ([3]float32{}) {
			albedo = shading.Unpack(hit.Color)
		}
		*rays += int64(len(lights))
		frame.Pixels[y*cam.Width+x] = shading.Shade(sc, albedo, hit, lights)
	}
}

// background implements the optional axis-intersection fallback
// shader carried over from the Rust original (render.rs): a primary
// ray that hits nothing still lights up near a world axis, producing
// a faint coordinate overlay instead of flat black.
func background(ray scene.Ray, opts Options) uint32 {
	if !opts.AxisFallback {
		return opts.Miss
	}
	const axisWidth = 0.01
	if distToAxis(ray.Dir.Y, ray.Dir.Z) < axisWidth {
		return 0x440000 // near the X axis
	}
	if distToAxis(ray.Dir.X, ray.Dir.Z) < axisWidth {
		return 0x004400 // near the Y axis
	}
	if distToAxis(ray.Dir.X, ray.Dir.Y) < axisWidth {
		return 0x000044 // near the Z axis
	}
	return opts.Miss
}

func distToAxis(a, b float32) float32 {
	d := a*a + b*b
	return float32(math.Sqrt(float64(d)))
}
