package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// SampleTexture performs bilinear filtering with UV wrapping. Texture space
// has v = 0 on the top row.
func SampleTexture(tex *image.NRGBA, u, v float32) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	u -= math32.Floor(u)
	v -= math32.Floor(v)

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float32(pix[i00+c])*w00 + float32(pix[i10+c])*w10 + float32(pix[i01+c])*w01 + float32(pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}

// AverageColor returns the mean opaque color of a texture, used for parts
// whose UVs are missing.
func AverageColor(tex *image.NRGBA) [4]uint8 {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	if w == 0 || h == 0 {
		return defaultColor
	}

	var sum [3]float32
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sum[0] += float32(tex.Pix[i])
			sum[1] += float32(tex.Pix[i+1])
			sum[2] += float32(tex.Pix[i+2])
		}
	}
	n := float32(w * h)
	return [4]uint8{uint8(sum[0]/n + 0.5), uint8(sum[1]/n + 0.5), uint8(sum[2]/n + 0.5), 255}
}
