// Package skeleton binds ANI bone tracks to the bones of an MSH and poses the
// result. MSH files store only inverse bind matrices; the hierarchy comes from
// the parent names in the animation.
package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/ani"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/mathutil"
	"eternity-assets/internal/msh"
)

// SceneRoot is the parent name exported for root bones.
const SceneRoot = "Scene Root"

// UnresolvedBoneError reports an animation bone, or its parent, that has no
// matching armature bone. It is a warning: the bone is skipped or made a root.
type UnresolvedBoneError struct {
	Name   string
	Parent bool // the reference is a parent name
}

func (e *UnresolvedBoneError) Error() string {
	if e.Parent {
		return fmt.Sprintf("parent bone %q not in armature", e.Name)
	}
	return fmt.Sprintf("bone %q not in armature", e.Name)
}

func (e *UnresolvedBoneError) Unwrap() error { return eternity.ErrUnresolvedBone }

// Joint is one armature bone. Matrices are column-vector mgl32 matrices.
type Joint struct {
	Name        string
	Parent      int // -1 for roots
	InverseBind mgl32.Mat4
	Bind        mgl32.Mat4 // world bind pose

	Track *ani.Bone // nil when not animated
}

// Armature is a bone set with its hierarchy.
type Armature struct {
	Joints []Joint
	index  map[string]int
}

// toMat4 reinterprets a stored row-vector matrix as a column-vector mgl32
// matrix: the stored rows are the transposed columns, so the floats are
// copied in order.
func toMat4(m mathutil.Matrix4x4) mgl32.Mat4 {
	var out mgl32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*r+c] = m[r][c]
		}
	}
	return out
}

// NewArmature builds a flat armature from MSH bones. Every joint starts as a
// root until Attach supplies parents.
func NewArmature(bones []msh.Bone) *Armature {
	a := &Armature{
		Joints: make([]Joint, len(bones)),
		index:  make(map[string]int, len(bones)),
	}
	for i, b := range bones {
		inv := toMat4(b.Matrix)
		a.Joints[i] = Joint{
			Name:        b.Name,
			Parent:      -1,
			InverseBind: inv,
			Bind:        inv.Inv(),
		}
		a.index[b.Name] = i
	}
	return a
}

// Lookup finds a joint by name. Animation bones sometimes carry a two
// character suffix the mesh bone lacks; the trimmed name is tried second.
func (a *Armature) Lookup(name string) (int, bool) {
	if i, ok := a.index[name]; ok {
		return i, true
	}
	// Names are decoded from cp949, so trim characters, not bytes.
	if r := []rune(name); len(r) > 2 {
		if i, ok := a.index[string(r[:len(r)-2])]; ok {
			return i, true
		}
	}
	return -1, false
}

// Attach links animation bones to joints and sets the hierarchy from their
// parent names. Unresolved references come back as *UnresolvedBoneError
// warnings; the matching joints keep running in bind pose or become roots.
// Attach replaces whatever an earlier call bound.
func (a *Armature) Attach(bones []ani.Bone) []error {
	for j := range a.Joints {
		a.Joints[j].Track = nil
		a.Joints[j].Parent = -1
	}
	var warnings []error
	for i := range bones {
		b := &bones[i]
		j, ok := a.Lookup(b.Name)
		if !ok {
			warnings = append(warnings, &UnresolvedBoneError{Name: b.Name})
			continue
		}
		a.Joints[j].Track = b

		if b.ParentName == "" || b.ParentName == SceneRoot {
			continue
		}
		p, ok := a.index[b.ParentName]
		if !ok || p == j {
			warnings = append(warnings, &UnresolvedBoneError{Name: b.ParentName, Parent: true})
			continue
		}
		a.Joints[j].Parent = p
	}
	return warnings
}

// Pose returns the world matrix of every joint at a frame of a clip.
// Animated joints use their sampled transform; the rest keep their bind
// transform relative to their parent.
func (a *Armature) Pose(clip int, frame float32) []mgl32.Mat4 {
	worlds := make([]mgl32.Mat4, len(a.Joints))
	state := make([]uint8, len(a.Joints)) // 0 todo, 1 visiting, 2 done

	var solve func(j int) mgl32.Mat4
	solve = func(j int) mgl32.Mat4 {
		switch state[j] {
		case 2:
			return worlds[j]
		case 1:
			// cycle: treat as root
			return mgl32.Ident4()
		}
		state[j] = 1
		joint := &a.Joints[j]
		parentWorld, parentBind := mgl32.Ident4(), mgl32.Ident4()
		if joint.Parent >= 0 {
			parentWorld = solve(joint.Parent)
			parentBind = a.Joints[joint.Parent].Bind
		}

		var local mgl32.Mat4
		if joint.Track != nil && clip >= 0 && clip < len(joint.Track.Animations) {
			local = LocalMatrix(joint.Track.Animations[clip].Sample(frame))
		} else {
			local = parentBind.Inv().Mul4(joint.Bind)
		}
		worlds[j] = parentWorld.Mul4(local)
		state[j] = 2
		return worlds[j]
	}

	for j := range a.Joints {
		solve(j)
	}
	return worlds
}

// LocalMatrix composes translation, rotation and scale.
func LocalMatrix(p ani.Pose) mgl32.Mat4 {
	t := mgl32.Translate3D(p.Location[0], p.Location[1], p.Location[2])
	r := ani.ToQuat(p.Rotation).Normalize().Mat4()
	s := mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// SkinMatrices turns world matrices into skinning matrices.
func (a *Armature) SkinMatrices(worlds []mgl32.Mat4) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(worlds))
	for j := range worlds {
		out[j] = worlds[j].Mul4(a.Joints[j].InverseBind)
	}
	return out
}

// SkinVertices applies linear blend skinning to a mesh. Rig names are local
// to the mesh and resolved through Lookup; vertices without a resolvable
// influence are returned unchanged.
func (a *Armature) SkinVertices(m *msh.Mesh, skin []mgl32.Mat4) []mathutil.Vector3 {
	out := make([]mathutil.Vector3, len(m.Vertices))
	copy(out, m.Vertices)
	if !m.HasRig() {
		return out
	}

	joints := make([]int, len(m.RigNames))
	for k, name := range m.RigNames {
		joints[k], _ = a.Lookup(name)
	}

	for v := range m.Vertices {
		src := mgl32.Vec3(m.Vertices[v]).Vec4(1)
		var acc mgl32.Vec4
		var total float32
		for k := 0; k < 4; k++ {
			w := m.RigWeights[v][k]
			idx := int(m.RigIndices[v][k])
			if w == 0 || idx < 0 || idx >= len(joints) || joints[idx] < 0 || joints[idx] >= len(skin) {
				continue
			}
			acc = acc.Add(skin[joints[idx]].Mul4x1(src).Mul(w))
			total += w
		}
		if total > 0 {
			out[v] = mathutil.Vector3(acc.Vec3().Mul(1 / total))
		}
	}
	return out
}
