// Package raster is a small software rasterizer for asset previews: flat
// shaded, textured triangles with a z-buffer and an additive pass.
package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/mathutil"
	"eternity-assets/internal/viewmatrix"
)

var defaultColor = [4]uint8{160, 160, 170, 255}

// Part is one drawable piece of a model with its vertices already posed.
type Part struct {
	Name     string
	Vertices []mathutil.Vector3
	UVs      []mathutil.Vector2 // per vertex; nil draws the base color
	Faces    [][3]uint16
	Texture  *image.NRGBA
	Tint     mathutil.Vector4 // zero value means opaque white
	Additive bool
}

// Options controls framing and output size.
type Options struct {
	Size        int
	Supersample int
	Margin      int // pixels at output size
	View        mgl32.Mat3
	Projection  viewmatrix.Projection
	Light       *LightConfig

	// Frame fixes the framing, e.g. across the frames of an animation. Nil
	// fits the parts being drawn.
	Frame *viewmatrix.Frame
}

// Fit returns the framing that holds every part of every pose.
func Fit(poses [][]Part, opt Options) viewmatrix.Frame {
	ss := max(opt.Supersample, 1)
	var verts [][]mathutil.Vector3
	for _, parts := range poses {
		for i := range parts {
			verts = append(verts, parts[i].Vertices)
		}
	}
	return viewmatrix.Fit(verts, opt.View, opt.Size*ss, opt.Margin*ss, opt.Projection)
}

// Render draws parts into a square image of Size*Supersample pixels. All
// parts share one frame; opaque parts are drawn before additive ones.
func Render(parts []Part, opt Options) *image.NRGBA {
	ss := max(opt.Supersample, 1)
	renderSize := opt.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)
	if len(parts) == 0 {
		return fb.Image()
	}

	lc := DefaultLightConfig()
	if opt.Light != nil {
		lc = *opt.Light
	}

	var frame viewmatrix.Frame
	if opt.Frame != nil {
		frame = *opt.Frame
	} else {
		frame = Fit([][]Part{parts}, opt)
	}

	for _, additive := range []bool{false, true} {
		for i := range parts {
			if parts[i].Additive == additive {
				drawPart(fb, frame, &parts[i], &lc)
			}
		}
	}
	return fb.Image()
}

func drawPart(fb *FrameBuffer, frame viewmatrix.Frame, p *Part, lc *LightConfig) {
	if len(p.Vertices) == 0 || len(p.Faces) == 0 {
		return
	}
	screen := frame.Project(p.Vertices)

	s := Surface{Texture: p.Texture, Base: defaultColor, Tint: p.Tint, Additive: p.Additive}
	if s.Tint == (mathutil.Vector4{}) {
		s.Tint = mathutil.Vector4{1, 1, 1, 1}
	}
	if p.Texture != nil {
		s.Base = AverageColor(p.Texture)
	}

	nv := len(screen)
	hasUV := len(p.UVs) == nv
	var tri Triangle
	for _, f := range p.Faces {
		if int(f[0]) >= nv || int(f[1]) >= nv || int(f[2]) >= nv {
			continue
		}
		tri.HasUV = hasUV
		for k, vi := range f {
			tri.P[k] = screen[vi]
			if hasUV {
				tri.UV[k] = p.UVs[vi]
			}
		}
		RasterizeTriangle(fb, &tri, &s, lc)
	}
}
