package postprocess

import "image"

// RemoveSmallClusters clears 8-connected groups of visible pixels smaller
// than minRatio of all visible pixels. Stray specks come from sub-meshes that
// survive filtering but project to a few isolated pixels. The input is not
// modified.
func RemoveSmallClusters(img *image.NRGBA, minRatio float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	opaque := func(x, y int) bool { return img.Pix[y*img.Stride+x*4+3] > 0 }

	// Two-pass labelling: link each pixel to its already visited neighbours
	// (W, NW, N, NE), then count roots.
	ds := newDisjointSet(w * h)
	visible := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !opaque(x, y) {
				continue
			}
			visible++
			i := y*w + x
			ds.parent[i] = i
			if x > 0 && opaque(x-1, y) {
				ds.union(i, i-1)
			}
			if y == 0 {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx >= 0 && nx < w && opaque(nx, y-1) {
					ds.union(i, i-w+nx-x)
				}
			}
		}
	}
	if visible == 0 {
		return img
	}

	sizes := make(map[int]int)
	for i, p := range ds.parent {
		if p >= 0 {
			sizes[ds.find(i)]++
		}
	}
	if len(sizes) <= 1 {
		return img
	}

	minSize := int(float64(visible) * minRatio)
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)
	for i, p := range ds.parent {
		if p < 0 || sizes[ds.find(i)] >= minSize {
			continue
		}
		off := (i/w)*out.Stride + (i%w)*4
		clear(out.Pix[off : off+4])
	}
	return out
}

// disjointSet is a union-find over pixel indices; -1 marks a transparent
// pixel that belongs to no set.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	p := make([]int, n)
	for i := range p {
		p[i] = -1
	}
	return &disjointSet{parent: p}
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}
