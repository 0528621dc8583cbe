package ani

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
)

// ParseAnim reads and decodes an ANIM file.
func ParseAnim(path string) (*Anim, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("anim: read %s: %w", path, err)
	}
	a, err := DecodeAnim(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return a, nil
}

// DecodeAnim reads (name, parent, animation) tuples until the buffer is
// exhausted. ANIM always uses 16-bit frames and quantized rotations.
func DecodeAnim(data []byte) (*Anim, error) {
	r := binio.NewReader(data)
	a := &Anim{}
	for r.Len() > 0 {
		b := Bone{
			Name:       r.CString(),
			ParentName: r.CString(),
		}
		b.Animations = []Animation{readAnimation(r, packedKeys)}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("anim: bone %d %q: %w", len(a.Bones), b.Name, err)
		}
		a.Bones = append(a.Bones, b)
	}
	return a, nil
}

// EncodeAnim writes a as an ANIM stream. Each bone must carry exactly one
// Animation.
func EncodeAnim(a *Anim) ([]byte, error) {
	w := binio.NewWriter()
	for i := range a.Bones {
		b := &a.Bones[i]
		if len(b.Animations) != 1 {
			return nil, fmt.Errorf("anim: bone %q has %d animations, want 1", b.Name, len(b.Animations))
		}
		w.CString(b.Name)
		w.CString(b.ParentName)
		if err := writeAnimation(w, packedKeys, &b.Animations[0]); err != nil {
			return nil, fmt.Errorf("anim: bone %q: %w", b.Name, err)
		}
	}
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("anim: %w", err)
	}
	return w.Bytes(), nil
}

// SaveAnim encodes a and writes it to path.
func SaveAnim(path string, a *Anim) error {
	data, err := EncodeAnim(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("anim: write %s: %w", path, err)
	}
	return nil
}

// Clip extracts clip i of f as an ANIM stream.
func (f *File) Clip(i int) (*Anim, error) {
	if i < 0 || i >= len(f.Clips) {
		return nil, fmt.Errorf("ani: clip %d of %d", i, len(f.Clips))
	}
	a := &Anim{Bones: make([]Bone, len(f.Bones))}
	for j, b := range f.Bones {
		if i >= len(b.Animations) {
			return nil, fmt.Errorf("ani: bone %q has no animation for clip %d", b.Name, i)
		}
		a.Bones[j] = Bone{
			Name:       b.Name,
			ParentName: b.ParentName,
			Animations: []Animation{b.Animations[i]},
		}
	}
	return a, nil
}
