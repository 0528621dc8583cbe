package raster

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/mathutil"
)

// Triangle is one face in screen space: x right, y down, z towards the
// viewer.
type Triangle struct {
	P     [3]mgl32.Vec3
	UV    [3]mathutil.Vector2
	HasUV bool
}

// Surface describes how triangles of one part are colored.
type Surface struct {
	Texture  *image.NRGBA
	Base     [4]uint8         // color when there is no texture or UV
	Tint     mathutil.Vector4 // multiplies the sampled RGBA
	Additive bool
}

// RasterizeTriangle fills one triangle with flat shading. Opaque surfaces
// test and write the z-buffer; additive surfaces add onto the color buffer
// and leave depth alone.
func RasterizeTriangle(fb *FrameBuffer, tri *Triangle, s *Surface, lc *LightConfig) {
	p0, p1, p2 := tri.P[0], tri.P[1], tri.P[2]

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	minX := max(int(math32.Floor(min(p0[0], p1[0], p2[0]))), 0)
	maxX := min(int(math32.Ceil(max(p0[0], p1[0], p2[0]))), fb.Width-1)
	minY := max(int(math32.Floor(min(p0[1], p1[1], p2[1]))), 0)
	maxY := min(int(math32.Ceil(max(p0[1], p1[1], p2[1]))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (p1[1]-p2[1])*(p0[0]-p2[0]) + (p2[0]-p1[0])*(p0[1]-p2[1])
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det
	dy12 := p1[1] - p2[1]
	dx21 := p2[0] - p1[0]
	dy20 := p2[1] - p0[1]
	dx02 := p0[0] - p2[0]

	textured := s.Texture != nil && tri.HasUV

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - p2[1]
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - p2[0]
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			zIdx := rowOff + sx
			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			if !s.Additive && z <= fb.ZBuf[zIdx] {
				continue
			}

			c := s.Base
			if textured {
				u := w0*tri.UV[0][0] + w1*tri.UV[1][0] + w2*tri.UV[2][0]
				v := w0*tri.UV[0][1] + w1*tri.UV[1][1] + w2*tri.UV[2][1]
				c[0], c[1], c[2], c[3] = SampleTexture(s.Texture, u, v)
			}
			for k := 0; k < 4; k++ {
				c[k] = clamp255(float32(c[k]) * s.Tint[k])
			}
			// Skip transparent texels
			if c[3] < 8 {
				continue
			}

			r := lc.Shade(c[0], shade)
			g := lc.Shade(c[1], shade)
			b := lc.Shade(c[2], shade)

			pxIdx := zIdx * 4
			if s.Additive {
				fb.Color[pxIdx] = clamp255(float32(fb.Color[pxIdx]) + r)
				fb.Color[pxIdx+1] = clamp255(float32(fb.Color[pxIdx+1]) + g)
				fb.Color[pxIdx+2] = clamp255(float32(fb.Color[pxIdx+2]) + b)
				// Dark additive pixels stay transparent.
				if a := clamp255(r*0.299 + g*0.587 + b*0.114); a > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = a
				}
				continue
			}

			fb.ZBuf[zIdx] = z
			fb.Color[pxIdx] = clamp255(r)
			fb.Color[pxIdx+1] = clamp255(g)
			fb.Color[pxIdx+2] = clamp255(b)
			fb.Color[pxIdx+3] = c[3]
		}
	}
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
