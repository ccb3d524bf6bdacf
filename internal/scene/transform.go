package scene

import "math"

// transformPoint applies a row-major 4x4 matrix to a homogeneous point
// (w=1) and divides through by the resulting w, matching how the
// rasterizer (internal/rasterizer) projects points.
func transformPoint(m [16]float32, v Vec3) Vec3 {
	x := m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]
	y := m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]
	z := m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]
	w := m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]
	if w == 0 || w == 1 {
		return Vec3{X: x, Y: y, Z: z}
	}
	return Vec3{X: x / w, Y: y / w, Z: z / w}
}

// transformDirection applies the linear (rotation+scale) part of a
// row-major 4x4 matrix to a direction vector (w=0, no translation).
func transformDirection(m [16]float32, v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

func invSqrt(x float32) float32 {
	return float32(1 / math.Sqrt(float64(x)))
}

// Identity4 returns the row-major 4x4 identity matrix, the transform
// every SVO instance placed at the origin with no rotation or scale
// carries.
func Identity4() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
