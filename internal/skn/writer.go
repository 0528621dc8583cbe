package skn

import (
	"fmt"
	"os"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/mathutil"
)

// Save encodes f and writes it to path. Nothing is written if encoding fails.
func Save(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("skn: write %s: %w", path, err)
	}
	return nil
}

// Encode serializes f in the layout of f.Version.
func Encode(f *File) ([]byte, error) {
	if err := eternity.CheckVersion(f.Version, minVersion, maxVersion); err != nil {
		return nil, fmt.Errorf("skn: %w", err)
	}

	body := binio.NewWriter()
	for i := range f.Materials {
		if err := writeMaterial(body, &f.Materials[i]); err != nil {
			return nil, fmt.Errorf("skn: material %d %q: %w", i, f.Materials[i].Name, err)
		}
	}
	stream := body.Bytes()

	w := binio.NewWriter()
	eternity.WriteMagic(w, f.Magic, eternity.SkinMagic, "0.1")
	w.FixedString(f.MeshName, eternity.NameSize)
	w.I32(f.Version)
	w.Count(len(f.Materials))
	if f.Version >= fragmentVersion {
		stored, err := Fragment(stream, f.FragmentsOrder)
		if err != nil {
			return nil, fmt.Errorf("skn: %w", err)
		}
		stream = stored
		w.Count(len(stream))
		w.I32(f.FragmentsOrder)
	}
	w.PadTo(eternity.HeaderSize)
	w.Raw(stream)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("skn: %w", err)
	}
	return w.Bytes(), nil
}

func writeMaterial(w *binio.Writer, m *Material) error {
	start := w.Len()
	w.FixedString(m.Name, eternity.NameSize)
	w.FixedString(m.Effect, eternity.NameSize)
	w.F32(m.Alpha)
	w.Bool32(m.AlphaBlend)
	w.PadTo(start + materialHeaderSize)

	w.Count(len(m.Properties))
	for _, p := range m.Properties {
		if p.Value == nil {
			return fmt.Errorf("property %q: %w: no value", p.Name, eternity.ErrUnknownPropertyType)
		}
		w.PrefixedString(p.Name)
		w.I32(int32(p.Value.Type()))
		switch v := p.Value.(type) {
		case Int:
			w.I32(int32(v))
		case Float:
			w.F32(float32(v))
		case Vector:
			w.Vec4(mathutil.Vector4(v))
		case Texture:
			w.PrefixedString(string(v))
		case None:
		default:
			return fmt.Errorf("property %q: %w: %T", p.Name, eternity.ErrUnknownPropertyType, p.Value)
		}
	}
	return w.Err()
}
