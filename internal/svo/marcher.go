package svo

import (
	"math"
	"math/bits"
)

// sMax is the maximum scale: the number of mantissa bits a float32
// gives us to encode position within the traversal stack.
const sMax = 23

// epsilon guards against a zero ray direction component causing a
// division by zero in the reciprocal-direction coefficients below.
const epsilon = 1e-4

// Vec3 is a plain 3-component float32 vector, used only at the
// marcher's public boundary — the hot loop below works in scalars.
type Vec3 struct {
	X, Y, Z float32
}

// Hit describes a successful ray/octree intersection.
type Hit struct {
	T      float32
	Color  uint32
	Normal Vec3
}

type stackEntry struct {
	parentIdx uint32
	tMax      float32
}

// Trace marches the ray (origin, dir) through the octree and reports
// the first surface it crosses, if any. It allocates nothing: the
// traversal stack is a fixed-size array on the Go stack, matching the
// allocation-free contract of the per-pixel render path. Logging must
// never be added to this function.
func (s *SVO) Trace(origin, dir Vec3) (Hit, bool) {
	var stack [sMax + 1]stackEntry

	ox, oy, oz := origin.X+1.0, origin.Y+1.0, origin.Z+1.0
	dx, dy, dz := dir.X, dir.Y, dir.Z

	if abs32(dx) < epsilon {
		dx = epsilon
	}
	if abs32(dy) < epsilon {
		dy = epsilon
	}
	if abs32(dz) < epsilon {
		dz = epsilon
	}

	txCoef := 1.0 / -abs32(dx)
	tyCoef := 1.0 / -abs32(dy)
	tzCoef := 1.0 / -abs32(dz)

	txBias := txCoef * ox
	tyBias := tyCoef * oy
	tzBias := tzCoef * oz

	var octantMask uint32 = 7
	if dx > 0 {
		octantMask ^= 1
		txBias = 3.0*txCoef - txBias
	}
	if dy > 0 {
		octantMask ^= 2
		tyBias = 3.0*tyCoef - tyBias
	}
	if dz > 0 {
		octantMask ^= 4
		tzBias = 3.0*tzCoef - tzBias
	}

	tMin := max32(2.0*txCoef-txBias, max32(2.0*tyCoef-tyBias, 2.0*tzCoef-tzBias))
	tMax := min32(txCoef-txBias, min32(tyCoef-tyBias, tzCoef-tzBias))
	tMin = max32(tMin, 0)

	parentIdx := uint32(0)
	cur := uint32(0)
	curNode := s.Pool[0]
	var idx uint32
	posX, posY, posZ := float32(1.0), float32(1.0), float32(1.0)
	scale := int32(sMax - 1)
	scaleExp2 := float32(0.5)
	var stepMask uint32

	if 1.5*txCoef-txBias > tMin {
		idx ^= 1
		posX = 1.5
	}
	if 1.5*tyCoef-tyBias > tMin {
		idx ^= 2
		posY = 1.5
	}
	if 1.5*tzCoef-tzBias > tMin {
		idx ^= 4
		posZ = 1.5
	}

	for scale < sMax {
		if cur == 0 {
			curNode = s.Pool[parentIdx]
		}

		txCorner := posX*txCoef - txBias
		tyCorner := posY*tyCoef - tyBias
		tzCorner := posZ*tzCoef - tzBias
		tcMax := min32(txCorner, min32(tyCorner, tzCorner))

		childIdx := curNode.ChildIdx() + (idx ^ octantMask)
		child := s.Pool[childIdx]

		if !child.IsEmpty() && tMin <= tMax {
			tvMax := min32(tMax, tcMax)
			half := scaleExp2 * 0.5
			txCenter := half*txCoef + txCorner
			tyCenter := half*tyCoef + tyCorner
			tzCenter := half*tzCoef + tzCorner

			if tMin <= tvMax {
				if child.IsLeaf() {
					curNode = child
					break
				}

				stack[scale] = stackEntry{parentIdx: parentIdx, tMax: tMax}
				parentIdx = childIdx
				idx = 0
				scale--
				scaleExp2 = half

				if txCenter > tMin {
					idx ^= 1
					posX += scaleExp2
				}
				if tyCenter > tMin {
					idx ^= 2
					posY += scaleExp2
				}
				if tzCenter > tMin {
					idx ^= 4
					posZ += scaleExp2
				}
				tMax = tvMax
				cur = 0
				continue
			}
		}

		// ADVANCE
		stepMask = 0
		if txCorner <= tcMax {
			stepMask ^= 1
			posX -= scaleExp2
		}
		if tyCorner <= tcMax {
			stepMask ^= 2
			posY -= scaleExp2
		}
		if tzCorner <= tcMax {
			stepMask ^= 4
			posZ -= scaleExp2
		}

		tMin = tcMax
		idx ^= stepMask

		if idx&stepMask != 0 {
			// POP
			var differingBits uint32
			if stepMask&1 != 0 {
				differingBits |= math.Float32bits(posX) ^ math.Float32bits(posX+scaleExp2)
			}
			if stepMask&2 != 0 {
				differingBits |= math.Float32bits(posY) ^ math.Float32bits(posY+scaleExp2)
			}
			if stepMask&4 != 0 {
				differingBits |= math.Float32bits(posZ) ^ math.Float32bits(posZ+scaleExp2)
			}
			scale = 31 - int32(bits.LeadingZeros32(differingBits))
			scaleExp2 = math.Float32frombits(uint32((int32(scale) - sMax + 127) << 23))

			parentIdx = stack[scale].parentIdx
			tMax = stack[scale].tMax

			shx := math.Float32bits(posX) >> uint32(scale)
			shy := math.Float32bits(posY) >> uint32(scale)
			shz := math.Float32bits(posZ) >> uint32(scale)
			posX = math.Float32frombits(shx << uint32(scale))
			posY = math.Float32frombits(shy << uint32(scale))
			posZ = math.Float32frombits(shz << uint32(scale))
			idx = (shx & 1) | ((shy & 1) << 1) | ((shz & 1) << 2)
			cur = 0
		}
	}

	if scale >= sMax {
		return Hit{}, false
	}

	if stepMask == 0 {
		if 2.0*txCoef-txBias >= tMin {
			stepMask ^= 1
		}
		if 2.0*tyCoef-tyBias >= tMin {
			stepMask ^= 2
		}
		if 2.0*tzCoef-tzBias >= tMin {
			stepMask ^= 4
		}
	}

	var face uint32
	switch {
	case octantMask&1 == 0 && stepMask&1 != 0:
		face = 3
	case octantMask&2 == 0 && stepMask&2 != 0:
		face = 5
	case octantMask&4 == 0 && stepMask&4 != 0:
		face = 6
	default:
		face = stepMask
	}

	var normal Vec3
	switch face {
	case 1:
		normal.X = 1.0
	case 2:
		normal.Y = 1.0
	case 3:
		normal.X = -1.0
	case 4:
		normal.Z = 1.0
	case 5:
		normal.Y = -1.0
	case 6:
		normal.Z = -1.0
	}

	return Hit{T: tMin, Color: curNode.Color(), Normal: normal}, true
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

