package msh

import (
	"fmt"

	"eternity-assets/internal/eternity"
)

// UnresolvedRigBones lists rig names that do not match any bone in the file.
// The results wrap eternity.ErrUnresolvedBone and are warnings: the mesh still
// decodes, its unmatched vertices just stay in bind pose.
func (f *File) UnresolvedRigBones() []error {
	known := make(map[string]bool, len(f.Bones))
	for _, b := range f.Bones {
		known[b.Name] = true
	}
	var warnings []error
	for _, m := range f.Meshes {
		for _, name := range m.RigNames {
			if !known[name] {
				warnings = append(warnings, fmt.Errorf("mesh %q: rig bone %q: %w", m.Name, name, eternity.ErrUnresolvedBone))
			}
		}
	}
	return warnings
}

// BoneIndex returns the position of the named bone, or -1.
func (f *File) BoneIndex(name string) int {
	for i, b := range f.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// VertexCount returns the number of vertices over all meshes.
func (f *File) VertexCount() int {
	n := 0
	for _, m := range f.Meshes {
		n += len(m.Vertices)
	}
	return n
}
