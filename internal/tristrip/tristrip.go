// Package tristrip converts between triangle lists and single triangle strips
// as stored in MSH index blocks.
//
// Strip rule: for i >= 2 the triangle is (v[i-2], v[i-1], v[i]) when i is even
// and (v[i-2], v[i], v[i-1]) when i is odd. Triangles with a repeated index are
// connectors and produce nothing.
package tristrip

import (
	"errors"
	"fmt"
)

// ErrDegenerateTriangle is returned by Stripify for a triangle with a repeated
// index, which a strip cannot carry.
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// Decode expands an index block into triangles. With strip unset the block is
// a flat list read three indices at a time; a trailing partial triangle is
// dropped.
func Decode(indices []uint16, strip bool) [][3]uint16 {
	if len(indices) < 3 {
		return nil
	}
	if !strip {
		faces := make([][3]uint16, 0, len(indices)/3)
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, [3]uint16{indices[i], indices[i+1], indices[i+2]})
		}
		return faces
	}

	faces := make([][3]uint16, 0, len(indices)-2)
	for i := 2; i < len(indices); i++ {
		a, b, c := indices[i-2], indices[i-1], indices[i]
		if a == b || b == c || a == c {
			continue
		}
		if i%2 == 0 {
			faces = append(faces, [3]uint16{a, b, c})
		} else {
			faces = append(faces, [3]uint16{a, c, b})
		}
	}
	return faces
}

// Flatten writes faces as a flat index list.
func Flatten(faces [][3]uint16) []uint16 {
	out := make([]uint16, 0, 3*len(faces))
	for _, f := range faces {
		out = append(out, f[0], f[1], f[2])
	}
	return out
}

// Stripify builds one strip that Decode turns back into exactly faces: same
// triangles, same order, same vertex order within each triangle.
//
// A face extends the strip when its first vertex and one of the others equal
// the two trailing indices in the position the parity requires; otherwise the
// strip is bridged with repeated indices (q, a, a) so every connector triangle
// is degenerate.
func Stripify(faces [][3]uint16) ([]uint16, error) {
	strip := make([]uint16, 0, len(faces)+2)
	for n, f := range faces {
		a, b, c := f[0], f[1], f[2]
		if a == b || b == c || a == c {
			return nil, fmt.Errorf("tristrip: face %d %v: %w", n, f, ErrDegenerateTriangle)
		}

		if len(strip) == 0 {
			strip = append(strip, a, b, c)
			continue
		}

		i := len(strip)
		p, q := strip[i-2], strip[i-1]
		if p == a {
			if i%2 == 0 && q == b {
				strip = append(strip, c)
				continue
			}
			if i%2 == 1 && q == c {
				strip = append(strip, b)
				continue
			}
		}

		// Bridge: ..., p, q, q, a, a, x, y. The real face lands at i+4.
		strip = append(strip, q, a, a)
		if (i+4)%2 == 0 {
			strip = append(strip, b, c)
		} else {
			strip = append(strip, c, b)
		}
	}
	return strip, nil
}
