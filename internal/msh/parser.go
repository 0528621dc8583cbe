// Package msh decodes and encodes Eternity Engine mesh files: skeleton bones,
// sub-meshes with optional rig blocks, collision primitives and dummies.
package msh

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/mathutil"
	"eternity-assets/internal/tristrip"
)

// Parse reads and decodes an MSH file.
func Parse(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("msh: read %s: %w", path, err)
	}
	f, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return f, nil
}

// Decode parses a whole MSH buffer. No partial result is returned on error.
func Decode(data []byte) (*File, error) {
	r := binio.NewReader(data)

	magic, err := eternity.ReadMagic(r, eternity.MeshMagic)
	if err != nil {
		return nil, fmt.Errorf("msh: %w", err)
	}
	f := &File{Magic: magic}

	f.Version = r.I32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("msh: header: %w", err)
	}
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("msh: %w", err)
	}

	meshCount := r.Count(meshHeaderSize)
	f.LODCount = r.I32()
	f.UVAnimation = r.U8() != 0
	r.Skip(3)
	f.BoundsMax = r.Vec3()
	f.BoundsMin = r.Vec3()
	boneCount := r.Count(eternity.NameSize + 64)
	collisionCount := r.Count(4)
	dummyCount := r.Count(eternity.NameSize + 12)
	r.Seek(eternity.HeaderSize)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("msh: header: %w", err)
	}

	l := layoutFor(f.Version)

	f.Bones = makeN[Bone](boneCount)
	for i := range f.Bones {
		f.Bones[i] = Bone{
			Name:   r.FixedString(eternity.NameSize),
			Matrix: r.Mat4(),
		}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("msh: bones: %w", err)
	}

	f.Meshes = makeN[Mesh](meshCount)
	for i := range f.Meshes {
		if err := readMesh(r, &f.Meshes[i]); err != nil {
			return nil, fmt.Errorf("msh: mesh %d: %w", i, err)
		}
	}

	f.Collisions = makeN[Collision](collisionCount)
	for i := range f.Collisions {
		c, err := readCollision(r, l)
		if err != nil {
			return nil, fmt.Errorf("msh: collision %d: %w", i, err)
		}
		f.Collisions[i] = c
	}

	f.Dummies = makeN[Dummy](dummyCount)
	for i := range f.Dummies {
		f.Dummies[i] = l.readDummy(r)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("msh: dummy %d: %w", i, err)
		}
	}

	return f, nil
}

func readMesh(r *binio.Reader, m *Mesh) error {
	start := r.Offset()
	m.ParentName = r.FixedString(eternity.NameSize)
	m.Name = r.FixedString(eternity.NameSize)

	nv := r.Count(24) // position + normal
	ni := r.Count(2)
	nuv := r.Count(max(1, 8*nv))
	m.UseTriStrip = r.U8() != 0
	useRig := r.U8() != 0
	useColor := r.U8() != 0
	r.Skip(1)
	r.Skip(start + meshHeaderSize - r.Offset())
	if err := r.Err(); err != nil {
		return err
	}

	// Faces: each mesh picks strip or list by its own flag.
	m.Faces = tristrip.Decode(r.U16s(ni), m.UseTriStrip)

	m.Vertices = readVec3s(r, nv)
	m.Normals = readVec3s(r, nv)

	m.UVs = makeN[[]mathutil.Vector2](nuv)
	for c := range m.UVs {
		uv := makeN[mathutil.Vector2](nv)
		for i := range uv {
			uv[i] = r.Vec2()
		}
		m.UVs[c] = uv
	}

	if useColor {
		m.VertexColors = makeN[uint32](nv)
		for i := range m.VertexColors {
			m.VertexColors[i] = r.U32()
		}
	}

	if useRig {
		m.RigIndices = makeN[[4]int16](nv)
		for i := range m.RigIndices {
			idx := r.I16s(4)
			if idx != nil {
				m.RigIndices[i] = [4]int16{idx[0], idx[1], idx[2], idx[3]}
			}
		}
		m.RigWeights = makeN[[4]float32](nv)
		for i := range m.RigWeights {
			w := r.F32s(4)
			if w != nil {
				m.RigWeights[i] = [4]float32{w[0], w[1], w[2], w[3]}
			}
		}
		names := r.Count(eternity.NameSize)
		m.RigNames = makeN[string](names)
		for i := range m.RigNames {
			m.RigNames[i] = r.FixedString(eternity.NameSize)
		}
	}

	return r.Err()
}

func readVec3s(r *binio.Reader, n int) []mathutil.Vector3 {
	out := makeN[mathutil.Vector3](n)
	for i := range out {
		out[i] = r.Vec3()
	}
	return out
}

func readCollision(r *binio.Reader, l layout) (Collision, error) {
	var c Collision
	tag := CollisionType(r.I32())
	if l.namedCollisions {
		c.Name = r.PrefixedString()
	}
	if err := r.Err(); err != nil {
		return c, err
	}

	switch tag {
	case CollisionBox:
		c.Shape = &Box{Center: r.Vec3(), Axis: r.Mat3(), Extent: r.Vec3()}
	case CollisionSphere:
		c.Shape = &Sphere{Center: r.Vec3(), Radius: r.F32()}
	case CollisionCapsule:
		c.Shape = &Capsule{Center: r.Vec3(), Direction: r.Vec3(), Radius: r.F32()}
	case CollisionTriangleList:
		n := r.Count(36)
		tl := &TriangleList{Triangles: makeN[Triangle](n)}
		for i := range tl.Triangles {
			tl.Triangles[i] = Triangle{Location: r.Vec3(), EdgeA: r.Vec3(), EdgeB: r.Vec3()}
		}
		c.Shape = tl
	default:
		return c, fmt.Errorf("%w: %d", eternity.ErrUnknownCollisionType, tag)
	}
	return c, r.Err()
}

// makeN returns nil for n == 0 so absent blocks decode to nil slices.
func makeN[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, n)
}
