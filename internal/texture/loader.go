package texture

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// LoadTexture decodes a tga, png or jpg file into an NRGBA image. The decoder
// is chosen by extension: tga has no magic, so sniffing would hand every file
// to it.
func LoadTexture(path string) (*image.NRGBA, error) {
	var decode func(io.Reader) (image.Image, error)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tga":
		decode = tga.Decode
	case ".png":
		decode = png.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	default:
		return nil, fmt.Errorf("texture: unknown extension: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img, ext == ".jpg" || ext == ".jpeg"), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image, opaque bool) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	if opaque {
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	}
	return dst
}
