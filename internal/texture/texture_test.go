package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, c)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTexture(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{200, 100, 50, 255})
		}
	}
	tests := []struct {
		name   string
		encode func(io.Writer, image.Image) error
		exact  bool
	}{
		{"a.png", png.Encode, true},
		{"b.tga", tga.Encode, true},
		{"c.jpg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 100}) }, false},
		{"d.JPEG", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }, false},
	}
	for _, tc := range tests {
		path := filepath.Join(dir, tc.name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := tc.encode(f, src); err != nil {
			t.Fatal(err)
		}
		f.Close()

		img, err := LoadTexture(path)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if img.Rect != image.Rect(0, 0, 4, 4) {
			t.Errorf("%s: bounds %v", tc.name, img.Rect)
			continue
		}
		got := img.NRGBAAt(2, 2)
		if got.A != 255 {
			t.Errorf("%s: alpha %d, want 255", tc.name, got.A)
		}
		if tc.exact && got != src.NRGBAAt(2, 2) {
			t.Errorf("%s: pixel %v, want %v", tc.name, got, src.NRGBAAt(2, 2))
		}
		if !tc.exact && (got.R < 180 || got.G < 80 || got.G > 120) {
			t.Errorf("%s: pixel %v too far from source", tc.name, got)
		}
	}

	if _, err := LoadTexture(filepath.Join(dir, "e.bmp")); err == nil {
		t.Error("unknown extension accepted")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Char\Warrior\Body_01.dds`, "body_01"},
		{"weapon/sword.DDS", "sword"},
		{"plain", "plain"},
	}
	for i, tc := range tests {
		if got := Stem(tc.in); got != tc.want {
			t.Errorf("Testcase %d. got: %q, want %q", i, got, tc.want)
		}
	}
}

func TestIndexResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a", "Body_01.png"), color.NRGBA{255, 0, 0, 255})
	if err := os.WriteFile(filepath.Join(dir, "Body_01.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := BuildIndex(dir, filepath.Join(dir, "missing"))
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	path, ok := idx.ResolvePath(`Char\body_01.dds`)
	if !ok || filepath.Ext(path) != ".png" {
		t.Errorf("ResolvePath = %q, %v; want the png", path, ok)
	}
	if _, ok := idx.ResolvePath(""); ok {
		t.Error("empty name resolved")
	}
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "skin.png"), color.NRGBA{10, 20, 30, 128})
	if err := os.WriteFile(filepath.Join(dir, "broken.tga"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	cache := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	results := make([]*image.NRGBA, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Resolve("skin.dds")
		}(i)
	}
	wg.Wait()
	for i, img := range results {
		if img == nil {
			t.Fatalf("goroutine %d got nil", i)
		}
		if img != results[0] {
			t.Errorf("goroutine %d got a different image", i)
		}
	}
	if got := results[0].NRGBAAt(1, 1); got != (color.NRGBA{10, 20, 30, 128}) {
		t.Errorf("pixel = %v", got)
	}

	if img := cache.Resolve("broken.dds"); img != nil {
		t.Error("broken texture decoded")
	}
	if n := len(cache.Failures()); n != 1 {
		t.Errorf("Failures = %d, want 1", n)
	}
	if img := cache.Resolve("absent.dds"); img != nil {
		t.Error("absent texture resolved")
	}
}
