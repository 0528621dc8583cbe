// Package postprocess turns a supersampled render into the final preview:
// downsampling, speck removal and framing.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales img to w×h in premultiplied alpha so transparent edges
// do not bleed dark halos. Images already no larger than the target are
// returned as is.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	// image.RGBA is premultiplied; draw converts on the way in and out.
	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(premul, image.Point{}, img, b, draw.Src, nil)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Copy(out, image.Point{}, scaled, scaled.Bounds(), draw.Src, nil)
	return out
}
