package msh

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/tristrip"
)

// Save encodes f and writes it to path. Nothing is written if encoding fails.
func Save(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("msh: write %s: %w", path, err)
	}
	return nil
}

// Encode serializes f in the layout of f.Version.
func Encode(f *File) ([]byte, error) {
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("msh: %w", err)
	}
	l := layoutFor(f.Version)
	w := binio.NewWriter()

	eternity.WriteMagic(w, f.Magic, eternity.MeshMagic, fmt.Sprintf("0.%d", f.Version))
	w.I32(f.Version)
	w.Count(len(f.Meshes))
	w.I32(f.LODCount)
	w.Bool(f.UVAnimation)
	w.Zero(3)
	w.Vec3(f.BoundsMax)
	w.Vec3(f.BoundsMin)
	w.Count(len(f.Bones))
	w.Count(len(f.Collisions))
	w.Count(len(f.Dummies))
	w.PadTo(eternity.HeaderSize)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("msh: header: %w", err)
	}

	for i := range f.Bones {
		w.FixedString(f.Bones[i].Name, eternity.NameSize)
		w.Mat4(f.Bones[i].Matrix)
		if err := w.Err(); err != nil {
			return nil, fmt.Errorf("msh: bone %d: %w", i, err)
		}
	}

	for i := range f.Meshes {
		if err := writeMesh(w, &f.Meshes[i]); err != nil {
			return nil, fmt.Errorf("msh: mesh %d %q: %w", i, f.Meshes[i].Name, err)
		}
	}

	for i := range f.Collisions {
		if err := writeCollision(w, l, &f.Collisions[i]); err != nil {
			return nil, fmt.Errorf("msh: collision %d: %w", i, err)
		}
	}

	for i := range f.Dummies {
		if err := l.writeDummy(w, &f.Dummies[i]); err != nil {
			return nil, fmt.Errorf("msh: dummy %d: %w", i, err)
		}
		if err := w.Err(); err != nil {
			return nil, fmt.Errorf("msh: dummy %d: %w", i, err)
		}
	}

	return w.Bytes(), nil
}

func writeMesh(w *binio.Writer, m *Mesh) error {
	nv := len(m.Vertices)
	if len(m.Normals) != nv {
		return fmt.Errorf("%d normals for %d vertices", len(m.Normals), nv)
	}
	for c, uv := range m.UVs {
		if len(uv) != nv {
			return fmt.Errorf("uv channel %d has %d entries for %d vertices", c, len(uv), nv)
		}
	}
	if len(m.VertexColors) != 0 && len(m.VertexColors) != nv {
		return fmt.Errorf("%d vertex colors for %d vertices", len(m.VertexColors), nv)
	}
	if m.HasRig() && (len(m.RigIndices) != nv || len(m.RigWeights) != nv) {
		return fmt.Errorf("rig has %d indices and %d weights for %d vertices",
			len(m.RigIndices), len(m.RigWeights), nv)
	}

	var indices []uint16
	if m.UseTriStrip {
		var err error
		if indices, err = tristrip.Stripify(m.Faces); err != nil {
			return err
		}
	} else {
		indices = tristrip.Flatten(m.Faces)
	}

	start := w.Len()
	w.FixedString(m.ParentName, eternity.NameSize)
	w.FixedString(m.Name, eternity.NameSize)
	w.Count(nv)
	w.Count(len(indices))
	w.Count(len(m.UVs))
	w.Bool(m.UseTriStrip)
	w.Bool(m.HasRig())
	w.Bool(len(m.VertexColors) != 0)
	w.Zero(1)
	w.PadTo(start + meshHeaderSize)

	w.U16s(indices)
	for _, v := range m.Vertices {
		w.Vec3(v)
	}
	for _, n := range m.Normals {
		w.Vec3(n)
	}
	for _, uv := range m.UVs {
		for _, t := range uv {
			w.Vec2(t)
		}
	}
	for _, c := range m.VertexColors {
		w.U32(c)
	}
	if m.HasRig() {
		for _, idx := range m.RigIndices {
			w.I16s(idx[:])
		}
		for _, wt := range m.RigWeights {
			w.F32s(wt[:])
		}
		w.Count(len(m.RigNames))
		for _, name := range m.RigNames {
			w.FixedString(name, eternity.NameSize)
		}
	}
	return w.Err()
}

func writeCollision(w *binio.Writer, l layout, c *Collision) error {
	if c.Shape == nil {
		return fmt.Errorf("%w: no shape", eternity.ErrUnknownCollisionType)
	}
	w.I32(int32(c.Shape.Type()))
	if l.namedCollisions {
		w.PrefixedString(c.Name)
	}
	switch s := c.Shape.(type) {
	case *Box:
		w.Vec3(s.Center)
		w.Mat3(s.Axis)
		w.Vec3(s.Extent)
	case *Sphere:
		w.Vec3(s.Center)
		w.F32(s.Radius)
	case *Capsule:
		w.Vec3(s.Center)
		w.Vec3(s.Direction)
		w.F32(s.Radius)
	case *TriangleList:
		w.Count(len(s.Triangles))
		for _, t := range s.Triangles {
			w.Vec3(t.Location)
			w.Vec3(t.EdgeA)
			w.Vec3(t.EdgeB)
		}
	default:
		return fmt.Errorf("%w: %T", eternity.ErrUnknownCollisionType, c.Shape)
	}
	return w.Err()
}
