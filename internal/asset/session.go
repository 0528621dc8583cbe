// Package asset opens Eternity Engine files by extension and keeps what one
// load produced together: the decoded structures, the paired mesh of a skin
// and any warnings.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eternity-assets/internal/ani"
	"eternity-assets/internal/msh"
	"eternity-assets/internal/skeleton"
	"eternity-assets/internal/skn"
)

// Kind is the format of an opened file.
type Kind int

const (
	KindUnknown Kind = iota
	KindMesh
	KindSkin
	KindAni
	KindAnim
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "msh"
	case KindSkin:
		return "skn"
	case KindAni:
		return "ani"
	case KindAnim:
		return "anim"
	}
	return "unknown"
}

// ErrUnknownFormat is returned for a file extension no codec handles.
var ErrUnknownFormat = errors.New("unknown asset format")

// KindOf maps a file name to its format by extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msh":
		return KindMesh
	case ".skn":
		return KindSkin
	case ".ani":
		return KindAni
	case ".anim":
		return KindAnim
	}
	return KindUnknown
}

// Session holds the result of one Open plus whatever is loaded into it later.
// It is owned by one caller and not safe for concurrent use.
type Session struct {
	Path string
	Kind Kind

	Mesh *msh.File
	Skin *skn.File
	Ani  *ani.File
	Anim *ani.Anim

	// Warnings are non-fatal problems: a missing paired mesh, rig or
	// animation bones that do not resolve.
	Warnings []error

	armature *skeleton.Armature
}

// Open decodes path. A skin also loads its paired mesh from the same
// directory; a missing mesh is a warning.
func Open(path string) (*Session, error) {
	s := &Session{Path: path, Kind: KindOf(path)}
	var err error
	switch s.Kind {
	case KindMesh:
		s.Mesh, err = msh.Parse(path)
		if err == nil {
			s.Warnings = append(s.Warnings, s.Mesh.UnresolvedRigBones()...)
		}
	case KindSkin:
		s.Skin, err = skn.Parse(path)
		if err == nil {
			err = s.loadPairedMesh()
		}
	case KindAni:
		s.Ani, err = ani.Parse(path)
	case KindAnim:
		s.Anim, err = ani.ParseAnim(path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MeshPath returns where the paired mesh of a skin is expected.
func (s *Session) MeshPath() string {
	if s.Skin == nil || s.Skin.MeshName == "" {
		return ""
	}
	name := strings.ReplaceAll(s.Skin.MeshName, "\\", "/")
	return filepath.Join(filepath.Dir(s.Path), filepath.FromSlash(name))
}

func (s *Session) loadPairedMesh() error {
	path := s.MeshPath()
	if path == "" {
		s.Warnings = append(s.Warnings, errors.New("skin names no mesh"))
		return nil
	}
	m, err := msh.Parse(path)
	if errors.Is(err, os.ErrNotExist) {
		s.Warnings = append(s.Warnings, fmt.Errorf("paired mesh: %w", err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("paired mesh: %w", err)
	}
	s.Mesh = m
	s.Warnings = append(s.Warnings, m.UnresolvedRigBones()...)
	if len(s.Skin.Materials) != len(m.Meshes) {
		s.Warnings = append(s.Warnings, fmt.Errorf("%d materials for %d meshes", len(s.Skin.Materials), len(m.Meshes)))
	}
	return nil
}

// Material returns the skin material of mesh i, or nil.
func (s *Session) Material(i int) *skn.Material {
	if s.Skin == nil || i < 0 || i >= len(s.Skin.Materials) {
		return nil
	}
	return &s.Skin.Materials[i]
}

// Armature returns the mesh armature, built on first use. It is nil without
// a mesh.
func (s *Session) Armature() *skeleton.Armature {
	if s.armature == nil && s.Mesh != nil {
		s.armature = skeleton.NewArmature(s.Mesh.Bones)
	}
	return s.armature
}

// LoadAnimation decodes an ANI or ANIM file and binds it to the armature in
// place of any animation loaded before. Unresolved bones are added to
// Warnings. On error the previous animation stays bound.
func (s *Session) LoadAnimation(path string) error {
	var bones []ani.Bone
	switch KindOf(path) {
	case KindAni:
		f, err := ani.Parse(path)
		if err != nil {
			return err
		}
		s.Ani, s.Anim = f, nil
		bones = f.Bones
	case KindAnim:
		a, err := ani.ParseAnim(path)
		if err != nil {
			return err
		}
		s.Ani, s.Anim = nil, a
		bones = a.Bones
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if arm := s.Armature(); arm != nil {
		s.Warnings = append(s.Warnings, arm.Attach(bones)...)
	}
	return nil
}

// ErrUnknownClip is returned by Clip for a name the loaded animation lacks.
var ErrUnknownClip = errors.New("unknown clip")

// Clip resolves a clip of the loaded animation to its index and frame count.
// The empty name selects the first clip; an ANIM stream has only that one.
func (s *Session) Clip(name string) (int, int32, error) {
	switch {
	case s.Ani != nil:
		i := 0
		if name != "" {
			if i = s.Ani.ClipIndex(name); i < 0 {
				return 0, 0, fmt.Errorf("%w: %q", ErrUnknownClip, name)
			}
		}
		if i >= len(s.Ani.Clips) {
			return 0, 0, fmt.Errorf("%w: file has no clips", ErrUnknownClip)
		}
		return i, s.Ani.FrameCount(i), nil
	case s.Anim != nil:
		return 0, s.Anim.File(name, 0).Clips[0].FrameCount, nil
	}
	return 0, 0, errors.New("no animation loaded")
}
