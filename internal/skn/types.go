package skn

import "eternity-assets/internal/mathutil"

// File is a decoded SKN asset.
type File struct {
	Magic    string // e.g. "Eternity Engine Skin File 0.1"
	MeshName string // paired MSH, relative to the SKN's directory
	Version  int32

	// FragmentsOrder selects the body permutation from version 11.
	FragmentsOrder int32

	Materials []Material
}

// Material is one entry per mesh, in mesh order.
type Material struct {
	Name       string
	Effect     string // shader file, e.g. "DiffuseAvatar.fx"
	Alpha      float32
	AlphaBlend bool

	Properties []Property
}

// Property is a named shader parameter.
type Property struct {
	Name  string
	Value Value
}

// PropertyType is the on-disk tag of a property value.
type PropertyType int32

const (
	PropertyInt PropertyType = iota
	PropertyFloat
	PropertyVector
	PropertyTexture
	PropertyMatrix
)

func (t PropertyType) String() string {
	switch t {
	case PropertyInt:
		return "int"
	case PropertyFloat:
		return "float"
	case PropertyVector:
		return "vector"
	case PropertyTexture:
		return "texture"
	case PropertyMatrix:
		return "matrix"
	}
	return "unknown"
}

// Value is one of Int, Float, Vector, Texture or None.
type Value interface {
	Type() PropertyType
}

type Int int32

type Float float32

type Vector mathutil.Vector4

// Texture is a texture file name, e.g. "warrior_body.dds".
type Texture string

// None carries no payload. It is what a matrix-tagged property decodes to.
type None struct{}

func (Int) Type() PropertyType     { return PropertyInt }
func (Float) Type() PropertyType   { return PropertyFloat }
func (Vector) Type() PropertyType  { return PropertyVector }
func (Texture) Type() PropertyType { return PropertyTexture }
func (None) Type() PropertyType    { return PropertyMatrix }

// Lookup returns the value of the named property.
func (m *Material) Lookup(name string) (Value, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Texture returns the texture bound to the named property, or "".
func (m *Material) Texture(name string) string {
	v, ok := m.Lookup(name)
	if !ok {
		return ""
	}
	t, _ := v.(Texture)
	return string(t)
}

// DiffuseTexture returns the g_DiffuseTex binding.
func (m *Material) DiffuseTexture() string { return m.Texture("g_DiffuseTex") }

// DiffuseColor returns g_MaterialDiffuse, or opaque white when unset.
func (m *Material) DiffuseColor() mathutil.Vector4 {
	if v, ok := m.Lookup("g_MaterialDiffuse"); ok {
		if c, ok := v.(Vector); ok {
			return mathutil.Vector4(c)
		}
	}
	return mathutil.Vector4{1, 1, 1, 1}
}
