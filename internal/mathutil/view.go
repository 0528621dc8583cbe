package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Preview camera rotations. Assets are Y-up and face -Z; the rasterizer
// treats larger Z as nearer.
var (
	// FlipZ turns "into the screen" depth into "towards the viewer" depth.
	FlipZ = mgl32.Diag3(mgl32.Vec3{1, 1, -1})

	// PreviewFront looks at the model from the front, slightly above.
	PreviewFront = YawPitchView(0, -12)

	// PreviewThreeQuarter is PreviewFront turned 35° around the up axis.
	PreviewThreeQuarter = YawPitchView(35, -12)
)

// YawPitchView builds a preview camera from yaw and pitch in degrees: yaw
// turns the model around its up axis, pitch then tilts the camera.
func YawPitchView(yaw, pitch float32) mgl32.Mat3 {
	if math32.IsNaN(yaw) || math32.IsNaN(pitch) {
		yaw, pitch = 35, -12
	}
	return FlipZ.
		Mul3(mgl32.Rotate3DX(mgl32.DegToRad(pitch))).
		Mul3(mgl32.Rotate3DY(mgl32.DegToRad(yaw)))
}

// Bounds returns the component-wise minimum and maximum of vs. ok is false
// when vs is empty.
func Bounds(vs []Vector3) (lo, hi Vector3, ok bool) {
	if len(vs) == 0 {
		return lo, hi, false
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	return lo, hi, true
}
