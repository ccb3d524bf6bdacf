// Package morton interleaves and deinterleaves 3D integer coordinates into
// a single 64-bit space-filling-curve key, so that points near each other
// in 3D land near each other in the key space.
package morton

// bloatMasks are applied after each doubling shift of bloat2, spreading the
// low 21 bits of x so that two zero bits follow every original bit.
var bloatMasks = [5]uint64{
	0x1f00000000ffff,
	0x1f0000ff0000ff,
	0x100f00f00f00f00f,
	0x10c30c30c30c30c3,
	0x1249249249249249,
}

// Encode3D interleaves the low 21 bits of x, y, and z into a 63-bit Morton
// key: bit 3k of the result is bit k of x, bit 3k+1 is bit k of y, bit 3k+2
// is bit k of z.
func Encode3D(x, y, z uint64) uint64 {
	return bloat2(x) | (bloat2(y) << 1) | (bloat2(z) << 2)
}

// Decode3D reverses Encode3D, recovering the three 21-bit coordinates.
func Decode3D(m uint64) (x, y, z uint64) {
	return shrink2(m), shrink2(m >> 1), shrink2(m >> 2)
}

// bloat2 inserts two 0 bits after each of the 21 low bits of x.
func bloat2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & bloatMasks[0]
	x = (x | (x << 16)) & bloatMasks[1]
	x = (x | (x << 8)) & bloatMasks[2]
	x = (x | (x << 4)) & bloatMasks[3]
	x = (x | (x << 2)) & bloatMasks[4]
	return x
}

// shrink2 is the inverse of bloat2.
func shrink2(x uint64) uint64 {
	x &= bloatMasks[4]
	x = (x ^ (x >> 2)) & bloatMasks[3]
	x = (x ^ (x >> 4)) & bloatMasks[2]
	x = (x ^ (x >> 8)) & bloatMasks[1]
	x = (x ^ (x >> 16)) & bloatMasks[0]
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}
