// Package viewmatrix picks preview cameras and projects model-space vertices
// onto the render target.
package viewmatrix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/mathutil"
)

// DefaultFOV is the vertical field of view used when a perspective
// projection does not set one, in degrees.
const DefaultFOV = 30

// ErrUnknownView is returned by Named for an unrecognized preset.
var ErrUnknownView = errors.New("unknown view")

// Named returns a preset camera: "front", "back", "side", "top" or
// "threequarter". The empty name selects "threequarter".
func Named(name string) (mgl32.Mat3, error) {
	switch strings.ToLower(name) {
	case "", "threequarter", "three-quarter":
		return mathutil.PreviewThreeQuarter, nil
	case "front":
		return mathutil.PreviewFront, nil
	case "back":
		return mathutil.YawPitchView(180, -12), nil
	case "side":
		return mathutil.YawPitchView(90, -12), nil
	case "top":
		return mathutil.YawPitchView(0, -90), nil
	}
	return mgl32.Mat3{}, fmt.Errorf("viewmatrix: %w: %q", ErrUnknownView, name)
}

// Projection selects orthographic or perspective projection.
type Projection struct {
	Perspective bool
	FOV         float32 // degrees, 0 means DefaultFOV
}

// Frame maps rotated vertices onto a square render target. Build one with Fit
// so all parts of a model share the same framing.
type Frame struct {
	View   mgl32.Mat3
	Center mgl32.Vec2 // rotated XY center of the model
	Scale  float32    // pixels per unit
	Size   int

	perspective bool
	camDist     float32
	zCenter     float32
}

// Fit frames every vertex of parts inside a size×size target with margin
// pixels on each side.
func Fit(parts [][]mathutil.Vector3, view mgl32.Mat3, size, margin int, proj Projection) Frame {
	f := Frame{View: view, Size: size, Scale: 1}

	lo := mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := mgl32.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	seen := false
	for _, verts := range parts {
		for _, v := range verts {
			t := view.Mul3x1(v.Vec3())
			for k := 0; k < 3; k++ {
				lo[k] = min(lo[k], t[k])
				hi[k] = max(hi[k], t[k])
			}
			seen = true
		}
	}
	if !seen {
		return f
	}

	f.Center = mgl32.Vec2{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2}
	span := max(hi[0]-lo[0], hi[1]-lo[1], 0.001)
	f.Scale = float32(size-2*margin) / span

	if proj.Perspective {
		fov := proj.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		f.perspective = true
		f.zCenter = (lo[2] + hi[2]) / 2
		f.camDist = (span / 2) / math32.Tan(mgl32.DegToRad(fov/2))
	}
	return f
}

// Project transforms vertices to screen space: x right, y down, and z
// growing towards the viewer.
func (f Frame) Project(verts []mathutil.Vector3) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(verts))
	half := float32(f.Size) / 2
	for i, v := range verts {
		t := f.View.Mul3x1(v.Vec3())
		x, y := t[0]-f.Center[0], t[1]-f.Center[1]
		if f.perspective {
			depth := max(f.camDist-(t[2]-f.zCenter), 0.1)
			factor := f.camDist / depth
			x *= factor
			y *= factor
		}
		out[i] = mgl32.Vec3{x*f.Scale + half, -y*f.Scale + half, t[2]}
	}
	return out
}
