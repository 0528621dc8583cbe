// Package ani decodes and encodes Eternity Engine animations: the multi-clip
// ANI container and the headerless single-clip ANIM stream.
package ani

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
)

const (
	minVersion = 1
	maxVersion = 11

	// bonePadding follows the name and parent slots of every ANI bone.
	bonePadding = 512
)

// Parse reads and decodes an ANI file.
func Parse(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ani: read %s: %w", path, err)
	}
	f, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return f, nil
}

// Decode parses a whole ANI buffer.
func Decode(data []byte) (*File, error) {
	r := binio.NewReader(data)

	magic, err := eternity.ReadMagic(r, eternity.AniMagic)
	if err != nil {
		return nil, fmt.Errorf("ani: %w", err)
	}
	f := &File{Magic: magic}
	f.Version = r.I32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("ani: header: %w", err)
	}
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("ani: %w", err)
	}
	boneCount := r.Count(2*eternity.NameSize + bonePadding)
	clipCount := r.Count(eternity.NameSize + 4)
	r.Seek(eternity.HeaderSize)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("ani: header: %w", err)
	}

	if clipCount > 0 {
		f.Clips = make([]Clip, clipCount)
	}
	for i := range f.Clips {
		f.Clips[i].Name = r.FixedString(eternity.NameSize)
	}
	for i := range f.Clips {
		f.Clips[i].FrameCount = r.I32()
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("ani: clip table: %w", err)
	}

	c := codecFor(f.Version)
	if boneCount > 0 {
		f.Bones = make([]Bone, boneCount)
	}
	for i := range f.Bones {
		b := &f.Bones[i]
		b.Name = r.FixedString(eternity.NameSize)
		b.ParentName = r.FixedString(eternity.NameSize)
		r.Skip(bonePadding)
		if clipCount > 0 {
			b.Animations = make([]Animation, clipCount)
		}
		for j := range b.Animations {
			b.Animations[j] = readAnimation(r, c)
		}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("ani: bone %d %q: %w", i, b.Name, err)
		}
	}
	return f, nil
}
