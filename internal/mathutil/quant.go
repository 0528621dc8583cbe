package mathutil

import "github.com/chewxy/math32"

const quatScale = 0x7FFF

// QuantizeQuat packs a unit quaternion (x, y, z, w) into four signed 16-bit
// fixed point values: component × 0x7FFF rounded to nearest.
func QuantizeQuat(q Vector4) [4]int16 {
	var out [4]int16
	for i, c := range q {
		v := math32.Round(c * quatScale)
		switch {
		case v > 32767:
			v = 32767
		case v < -32768:
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// DequantizeQuat unpacks 16-bit fixed point components by scaling with 2⁻¹⁵.
func DequantizeQuat(q [4]int16) Vector4 {
	const s = 1.0 / 32768
	return Vector4{float32(q[0]) * s, float32(q[1]) * s, float32(q[2]) * s, float32(q[3]) * s}
}

// NormalizeQuat returns q scaled to unit length; the zero quaternion maps to
// identity.
func NormalizeQuat(q Vector4) Vector4 {
	l := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < 1e-12 {
		return Vector4{0, 0, 0, 1}
	}
	return Vector4{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}
