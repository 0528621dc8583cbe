package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func visible(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestDownsampleNoHalo(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fill(img, image.Rect(0, 0, 8, 16), color.NRGBA{255, 255, 255, 255})

	out := Downsample(img, 4, 4)
	if out.Rect.Dx() != 4 || out.Rect.Dy() != 4 {
		t.Fatalf("size = %v", out.Rect)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := out.NRGBAAt(x, y)
			if c.A > 16 && c.R < 240 {
				t.Errorf("pixel (%d,%d) = %v darkened at the edge", x, y, c)
			}
		}
	}
	if out.NRGBAAt(0, 0).A < 250 || out.NRGBAAt(3, 0).A > 5 {
		t.Errorf("alpha not preserved: %v %v", out.NRGBAAt(0, 0), out.NRGBAAt(3, 0))
	}

	if same := Downsample(img, 32, 32); same != img {
		t.Error("upscale request should return the input")
	}
}

func TestRemoveSmallClusters(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	fill(img, image.Rect(2, 2, 12, 12), color.NRGBA{200, 0, 0, 255})
	fill(img, image.Rect(17, 17, 18, 18), color.NRGBA{0, 200, 0, 255})

	out := RemoveSmallClusters(img, 0.05)
	if got := visible(out); got != 100 {
		t.Errorf("visible = %d, want 100", got)
	}
	if out.NRGBAAt(17, 17).A != 0 {
		t.Error("speck survived")
	}
	if visible(img) != 101 {
		t.Error("input was modified")
	}
}

func TestRemoveSmallClustersDiagonal(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	// A diagonal staircase is one 8-connected cluster.
	for i := 0; i < 10; i++ {
		img.SetNRGBA(i, i, color.NRGBA{255, 255, 255, 255})
	}
	img.SetNRGBA(9, 0, color.NRGBA{255, 255, 255, 255})

	out := RemoveSmallClusters(img, 0.5)
	if got := visible(out); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
	if out.NRGBAAt(9, 0).A != 0 {
		t.Error("isolated pixel survived")
	}

	single := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	single.SetNRGBA(1, 1, color.NRGBA{A: 255})
	if RemoveSmallClusters(single, 0.5) != single {
		t.Error("a single cluster should return the input")
	}
}

func TestAlphaBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if r := AlphaBounds(img); !r.Empty() {
		t.Errorf("blank image bounds = %v", r)
	}
	img.SetNRGBA(3, 4, color.NRGBA{A: 1})
	img.SetNRGBA(6, 8, color.NRGBA{A: 1})
	if r := AlphaBounds(img); r != image.Rect(3, 4, 7, 9) {
		t.Errorf("AlphaBounds = %v", r)
	}
}

func TestCropAndCenter(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	fill(img, image.Rect(0, 0, 20, 10), color.NRGBA{0, 0, 255, 255})

	out := CropAndCenter(img, 64, 0.5)
	if out.Rect != image.Rect(0, 0, 64, 64) {
		t.Fatalf("size = %v", out.Rect)
	}
	// 20×10 scaled to 32×16, centered at (16, 24).
	r := AlphaBounds(out)
	if r.Dx() < 31 || r.Dx() > 33 || r.Dy() < 15 || r.Dy() > 17 {
		t.Errorf("content bounds = %v", r)
	}
	if c := out.NRGBAAt(32, 32); c.B < 250 || c.A < 250 {
		t.Errorf("center = %v", c)
	}

	blank := CropAndCenter(image.NewNRGBA(image.Rect(0, 0, 8, 8)), 16, 0.8)
	if visible(blank) != 0 || blank.Rect.Dx() != 16 {
		t.Error("blank input should give a blank canvas")
	}
}
