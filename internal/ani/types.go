package ani

import "eternity-assets/internal/mathutil"

// File is a decoded ANI container: several clips over one bone set.
type File struct {
	Magic   string // e.g. "Eternity Engine Ani File 0.1"
	Version int32

	Clips []Clip
	Bones []Bone
}

// Clip is one entry of the name and frame count tables.
type Clip struct {
	Name       string
	FrameCount int32
}

// Bone carries one Animation per clip, in clip order. Bones reference the
// skeleton by name only.
type Bone struct {
	Name       string
	ParentName string

	Animations []Animation
}

// Animation is the base pose of a bone plus three sparse key tracks. An empty
// track holds the base value for the whole clip.
type Animation struct {
	BaseLocation mathutil.Vector3
	BaseRotation mathutil.Vector4 // x, y, z, w
	BaseScale    mathutil.Vector3

	Locations []VectorKey
	Rotations []RotationKey
	Scales    []VectorKey
}

type VectorKey struct {
	Frame int32
	Value mathutil.Vector3
}

type RotationKey struct {
	Frame int32
	Value mathutil.Vector4
}

// ClipIndex returns the index of the named clip, or -1.
func (f *File) ClipIndex(name string) int {
	for i, c := range f.Clips {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// FrameCount returns the frame count of clip i, or 0 when out of range.
func (f *File) FrameCount(i int) int32 {
	if i < 0 || i >= len(f.Clips) {
		return 0
	}
	return f.Clips[i].FrameCount
}

// Bone returns the named bone, or nil.
func (f *File) Bone(name string) *Bone {
	for i := range f.Bones {
		if f.Bones[i].Name == name {
			return &f.Bones[i]
		}
	}
	return nil
}

// Anim is a decoded single-clip ANIM stream.
type Anim struct {
	Bones []Bone // exactly one Animation each
}

// File wraps the stream as a one-clip ANI of the given version.
func (a *Anim) File(clip string, version int32) *File {
	f := &File{Version: version, Bones: a.Bones}
	var frames int32
	for _, b := range a.Bones {
		for _, anim := range b.Animations {
			frames = max(frames, anim.LastFrame()+1)
		}
	}
	f.Clips = []Clip{{Name: clip, FrameCount: frames}}
	return f
}
