package ani

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
)

// Save encodes f and writes it to path. Nothing is written if encoding fails.
func Save(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ani: write %s: %w", path, err)
	}
	return nil
}

// Encode serializes f. Every bone must carry one Animation per clip.
func Encode(f *File) ([]byte, error) {
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("ani: %w", err)
	}
	w := binio.NewWriter()
	eternity.WriteMagic(w, f.Magic, eternity.AniMagic, "0.1")
	w.I32(f.Version)
	w.Count(len(f.Bones))
	w.Count(len(f.Clips))
	w.PadTo(eternity.HeaderSize)

	for _, clip := range f.Clips {
		w.FixedString(clip.Name, eternity.NameSize)
	}
	for _, clip := range f.Clips {
		w.I32(clip.FrameCount)
	}
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("ani: clip table: %w", err)
	}

	c := codecFor(f.Version)
	for i := range f.Bones {
		b := &f.Bones[i]
		if len(b.Animations) != len(f.Clips) {
			return nil, fmt.Errorf("ani: bone %q has %d animations for %d clips", b.Name, len(b.Animations), len(f.Clips))
		}
		w.FixedString(b.Name, eternity.NameSize)
		w.FixedString(b.ParentName, eternity.NameSize)
		w.Zero(bonePadding)
		for j := range b.Animations {
			if err := writeAnimation(w, c, &b.Animations[j]); err != nil {
				return nil, fmt.Errorf("ani: bone %q clip %d: %w", b.Name, j, err)
			}
		}
		if err := w.Err(); err != nil {
			return nil, fmt.Errorf("ani: bone %q: %w", b.Name, err)
		}
	}
	return w.Bytes(), nil
}
