package scene

import "math"

// Camera holds the parameters the per-pixel primary ray generator
// needs: world-space position, a camera-to-world rotation matrix, and
// the field of view.
type Camera struct {
	Origin      Vec3
	Rotation    [16]float32 // row-major 4x4 camera-to-world rotation
	Width       int
	Height      int
	FOVDegrees  float32
}

// fovTan and aspectRatio are cached per-frame by NewRayGenerator since
// they are identical for every pixel.
type RayGenerator struct {
	cam         Camera
	fovTan      float32
	aspectRatio float32
}

// NewRayGenerator precomputes the per-frame constants §4.I calls for:
// tan(fov/2) and the aspect ratio.
func NewRayGenerator(cam Camera) *RayGenerator {
	return &RayGenerator{
		cam:         cam,
		fovTan:      float32(math.Tan(float64(cam.FOVDegrees) * math.Pi / 180 / 2)),
		aspectRatio: float32(cam.Width) / float32(cam.Height),
	}
}

// PrimaryRay computes the world-space ray through the center of pixel
// (px, py), px in [0,width), py in [0,height).
func (g *RayGenerator) PrimaryRay(px, py int) Ray {
	x := float32(px) + 0.5
	y := float32(py) + 0.5
	u := (2*x/float32(g.cam.Width) - 1) * g.aspectRatio * g.fovTan
	v := (2*y/float32(g.cam.Height) - 1) * g.fovTan

	dir := transformDirection(g.cam.Rotation, Vec3{X: u, Y: v, Z: 1})
	dx, dy, dz := normalize(-dir.X, -dir.Y, -dir.Z)

	return Ray{
		Origin: g.cam.Origin,
		Dir:    Vec3{X: dx, Y: dy, Z: dz},
	}
}
