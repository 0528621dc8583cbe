package msh

import "eternity-assets/internal/mathutil"

// File is a decoded MSH asset.
type File struct {
	Magic   string // e.g. "Eternity Engine Mesh File 0.13"
	Version int32

	LODCount    int32
	UVAnimation bool
	BoundsMax   mathutil.Vector3
	BoundsMin   mathutil.Vector3

	Bones      []Bone
	Meshes     []Mesh
	Collisions []Collision
	Dummies    []Dummy
}

// Bone holds a skeleton bone and its inverse bind matrix (row-vector form).
type Bone struct {
	Name   string
	Matrix mathutil.Matrix4x4
}

// Mesh holds one sub-mesh. Rig indices point into RigNames, not into the
// file's bone list.
type Mesh struct {
	ParentName  string
	Name        string
	UseTriStrip bool

	Faces        [][3]uint16
	Vertices     []mathutil.Vector3
	Normals      []mathutil.Vector3
	UVs          [][]mathutil.Vector2 // one slice per UV channel
	VertexColors []uint32             // packed D3DCOLOR, empty when absent

	RigIndices [][4]int16
	RigWeights [][4]float32
	RigNames   []string
}

// HasRig reports whether the mesh carries a rig block.
func (m *Mesh) HasRig() bool { return len(m.RigIndices) > 0 }

// Influence binds a vertex to a bone with a weight.
type Influence struct {
	Bone   string
	Weight float32
}

// Influences returns the bone bindings of vertex v. Slots with zero weight
// are padding (their index is 0 by convention) and are skipped.
func (m *Mesh) Influences(v int) []Influence {
	if v < 0 || v >= len(m.RigIndices) || v >= len(m.RigWeights) {
		return nil
	}
	var out []Influence
	for k := 0; k < 4; k++ {
		w := m.RigWeights[v][k]
		if w == 0 {
			continue
		}
		idx := int(m.RigIndices[v][k])
		if idx < 0 || idx >= len(m.RigNames) {
			continue
		}
		out = append(out, Influence{Bone: m.RigNames[idx], Weight: w})
	}
	return out
}

// Dummy is a named locator. Matrix is stored from version 13, Position below;
// encoding derives whichever one is unset from the other.
type Dummy struct {
	Name       string
	ParentName string
	Matrix     mathutil.Matrix4x4
	Position   mathutil.Vector3
}

// Location returns the dummy position for the given file version.
func (d *Dummy) Location(version int32) mathutil.Vector3 {
	if version > 12 {
		return d.transform().Translation()
	}
	return d.position()
}

// CollisionType is the on-disk tag of a collision shape.
type CollisionType int32

const (
	CollisionBox CollisionType = iota
	CollisionSphere
	CollisionCapsule
	CollisionTriangleList
)

func (t CollisionType) String() string {
	switch t {
	case CollisionBox:
		return "box"
	case CollisionSphere:
		return "sphere"
	case CollisionCapsule:
		return "capsule"
	case CollisionTriangleList:
		return "triangles"
	}
	return "unknown"
}

// Collision is a collision primitive. Names are stored from version 11.
type Collision struct {
	Name  string
	Shape Shape
}

// Shape is one of Box, Sphere, Capsule or TriangleList.
type Shape interface {
	Type() CollisionType
}

type Box struct {
	Center mathutil.Vector3
	Axis   mathutil.Matrix3x3
	Extent mathutil.Vector3
}

type Sphere struct {
	Center mathutil.Vector3
	Radius float32
}

type Capsule struct {
	Center    mathutil.Vector3
	Direction mathutil.Vector3
	Radius    float32
}

// Triangle is stored as a corner and two edge vectors.
type Triangle struct {
	Location mathutil.Vector3
	EdgeA    mathutil.Vector3
	EdgeB    mathutil.Vector3
}

type TriangleList struct {
	Triangles []Triangle
}

func (*Box) Type() CollisionType          { return CollisionBox }
func (*Sphere) Type() CollisionType       { return CollisionSphere }
func (*Capsule) Type() CollisionType      { return CollisionCapsule }
func (*TriangleList) Type() CollisionType { return CollisionTriangleList }
