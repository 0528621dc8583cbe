// Package skn decodes and encodes Eternity Engine skin files: the material
// list paired with an MSH. From version 11 the material stream is stored as
// five permuted fragments.
package skn

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
)

const (
	minVersion = 1
	maxVersion = 11

	// fragmentVersion is the first version with a fragmented body.
	fragmentVersion = 11

	materialHeaderSize = 1024
)

// Parse reads and decodes an SKN file.
func Parse(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skn: read %s: %w", path, err)
	}
	f, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return f, nil
}

// Decode parses a whole SKN buffer.
func Decode(data []byte) (*File, error) {
	r := binio.NewReader(data)

	magic, err := eternity.ReadMagic(r, eternity.SkinMagic)
	if err != nil {
		return nil, fmt.Errorf("skn: %w", err)
	}
	f := &File{Magic: magic}
	f.MeshName = r.FixedString(eternity.NameSize)
	f.Version = r.I32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("skn: header: %w", err)
	}
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("skn: %w", err)
	}

	count := r.Count(materialHeaderSize)
	bodySize := 0
	if f.Version >= fragmentVersion {
		bodySize = r.Count(1)
		f.FragmentsOrder = r.I32()
	}
	r.Seek(eternity.HeaderSize)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("skn: header: %w", err)
	}

	body := r
	if f.Version >= fragmentVersion {
		stored := r.Bytes(bodySize)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("skn: body: %w", err)
		}
		logical, err := Reassemble(stored, f.FragmentsOrder)
		if err != nil {
			return nil, fmt.Errorf("skn: %w", err)
		}
		body = binio.NewReader(logical)
	}

	if count > 0 {
		f.Materials = make([]Material, count)
	}
	for i := range f.Materials {
		if err := readMaterial(body, &f.Materials[i]); err != nil {
			return nil, fmt.Errorf("skn: material %d: %w", i, err)
		}
	}
	return f, nil
}

func readMaterial(r *binio.Reader, m *Material) error {
	start := r.Offset()
	m.Name = r.FixedString(eternity.NameSize)
	m.Effect = r.FixedString(eternity.NameSize)
	m.Alpha = r.F32()
	m.AlphaBlend = r.I32() != 0
	r.Skip(start + materialHeaderSize - r.Offset())

	n := r.Count(8) // shortest property: zero-length name + matrix tag
	if err := r.Err(); err != nil {
		return err
	}
	if n > 0 {
		m.Properties = make([]Property, n)
	}
	for i := range m.Properties {
		p, err := readProperty(r)
		if err != nil {
			return fmt.Errorf("property %d: %w", i, err)
		}
		m.Properties[i] = p
	}
	return nil
}

func readProperty(r *binio.Reader) (Property, error) {
	p := Property{Name: r.PrefixedString()}
	tag := PropertyType(r.I32())
	if err := r.Err(); err != nil {
		return p, err
	}
	switch tag {
	case PropertyInt:
		p.Value = Int(r.I32())
	case PropertyFloat:
		p.Value = Float(r.F32())
	case PropertyVector:
		p.Value = Vector(r.Vec4())
	case PropertyTexture:
		p.Value = Texture(r.PrefixedString())
	case PropertyMatrix:
		p.Value = None{}
	default:
		return p, fmt.Errorf("%q: %w: %d", p.Name, eternity.ErrUnknownPropertyType, tag)
	}
	return p, r.Err()
}
