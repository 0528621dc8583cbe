package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// AlphaBounds returns the smallest rectangle holding every pixel with
// non-zero alpha, or an empty rectangle.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	r := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := image.Rect(b.Min.X+x, y, b.Min.X+x+1, y+1)
			r = r.Union(px)
		}
	}
	return r
}

// CropAndCenter crops img to its visible pixels, scales them to fill
// fillRatio of a size×size canvas keeping the aspect ratio, and centers the
// result. A fully transparent image yields a blank canvas.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	src := AlphaBounds(img)
	if src.Empty() {
		return canvas
	}

	maxDim := float64(size) * fillRatio
	scale := maxDim / float64(max(src.Dx(), src.Dy()))
	w := max(int(float64(src.Dx())*scale+0.5), 1)
	h := max(int(float64(src.Dy())*scale+0.5), 1)

	off := image.Pt((size-w)/2, (size-h)/2)
	dst := image.Rectangle{Min: off, Max: off.Add(image.Pt(w, h))}
	draw.CatmullRom.Scale(canvas, dst, img, src, draw.Src, nil)
	return canvas
}
