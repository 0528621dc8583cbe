package skn

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
)

func sampleFile(version int32, order int32) *File {
	return &File{
		Magic:          "Eternity Engine Skin File 0.1",
		MeshName:       "warrior_body.msh",
		Version:        version,
		FragmentsOrder: order,
		Materials: []Material{
			{
				Name:       "body",
				Effect:     "DiffuseAvatar.fx",
				Alpha:      1,
				AlphaBlend: false,
				Properties: []Property{
					{Name: "g_MaterialAmbient", Value: Vector{0.5, 0.5, 0.5, 1}},
					{Name: "g_MaterialDiffuse", Value: Vector{1, 0.9, 0.8, 1}},
					{Name: "g_EmissivePower", Value: Float(0.25)},
					{Name: "g_DiffuseTex", Value: Texture("warrior_body.dds")},
					{Name: "g_SkinIndex", Value: Int(3)},
					{Name: "g_WorldView", Value: None{}},
				},
			},
			{
				Name:       "hair",
				Effect:     "DiffuseAlpha.fx",
				Alpha:      0.5,
				AlphaBlend: true,
				Properties: []Property{
					{Name: "g_DiffuseTex", Value: Texture("워리어_머리.dds")},
				},
			},
			{Name: "empty", Effect: "Diffuse.fx", Alpha: 1},
		},
	}
}

func TestFragmentReassemble(t *testing.T) {
	bodies := [][]byte{
		nil,
		[]byte("abc"),
		[]byte("0123456789"),
		[]byte("the quick brown fox jumps over the lazy dog"),
	}
	for _, body := range bodies {
		for order := int32(0); order < 5; order++ {
			stored, err := Fragment(body, order)
			if err != nil {
				t.Fatalf("Fragment(%q, %d): %v", body, order, err)
			}
			if len(stored) != len(body) {
				t.Fatalf("Fragment(%q, %d) has %d bytes", body, order, len(stored))
			}
			got, err := Reassemble(stored, order)
			if err != nil {
				t.Fatalf("Reassemble: %v", err)
			}
			if !bytes.Equal(got, body) {
				t.Errorf("order %d: Reassemble(Fragment(%q)) = %q", order, body, got)
			}
		}
	}
}

func TestFragmentLayout(t *testing.T) {
	// 12 bytes: four fragments of 2, the last absorbs 4.
	body := []byte("AABBCCDDEEEE")
	tests := []struct {
		order int32
		want  string
	}{
		{0, "CCAAEEEEBBDD"},
		{1, "EEEEDDAACCBB"},
		{2, "BBEEEEDDAACC"},
		{3, "DDCCBBEEEEAA"},
		{4, "AADDBBEEEECC"},
	}
	for _, tc := range tests {
		got, err := Fragment(body, tc.order)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tc.want {
			t.Errorf("Fragment order %d = %q, want %q", tc.order, got, tc.want)
		}
	}
}

func TestMalformedFragmentOrder(t *testing.T) {
	for _, order := range []int32{-1, 5, 1000} {
		if _, err := Reassemble([]byte("0123456789"), order); !errors.Is(err, eternity.ErrMalformedFragmentOrder) {
			t.Errorf("Reassemble order %d: got %v", order, err)
		}
		if _, err := Fragment([]byte("0123456789"), order); !errors.Is(err, eternity.ErrMalformedFragmentOrder) {
			t.Errorf("Fragment order %d: got %v", order, err)
		}
	}

	f := sampleFile(11, 7)
	if _, err := Encode(f); !errors.Is(err, eternity.ErrMalformedFragmentOrder) {
		t.Errorf("Encode: got %v", err)
	}

	f.FragmentsOrder = 2
	data, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	data[524] = 9
	if _, err := Decode(data); !errors.Is(err, eternity.ErrMalformedFragmentOrder) {
		t.Errorf("Decode: got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []*File{
		sampleFile(1, 0),
		sampleFile(10, 0),
		sampleFile(11, 0),
		sampleFile(11, 1),
		sampleFile(11, 2),
		sampleFile(11, 3),
		sampleFile(11, 4),
	}
	for _, want := range tests {
		data, err := Encode(want)
		if err != nil {
			t.Fatalf("v%d/%d: Encode: %v", want.Version, want.FragmentsOrder, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("v%d/%d: Decode: %v", want.Version, want.FragmentsOrder, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("v%d/%d: got %+v, want %+v", want.Version, want.FragmentsOrder, got, want)
		}
		again, err := Encode(got)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(again, data) {
			t.Errorf("v%d/%d: re-encoded bytes differ", want.Version, want.FragmentsOrder)
		}
	}
}

func TestFragmentedBodyIsPermuted(t *testing.T) {
	plain, err := Encode(sampleFile(10, 0))
	if err != nil {
		t.Fatal(err)
	}
	frag, err := Encode(sampleFile(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) != len(frag) {
		t.Fatalf("body sizes differ: %d vs %d", len(plain), len(frag))
	}
	if bytes.Equal(plain[eternity.HeaderSize:], frag[eternity.HeaderSize:]) {
		t.Error("fragmented body is stored in logical order")
	}
	r := binio.NewReader(frag)
	r.Seek(520)
	if size := r.I32(); int(size) != len(frag)-eternity.HeaderSize {
		t.Errorf("body_size = %d, want %d", size, len(frag)-eternity.HeaderSize)
	}
}

// writeRawProperty builds a v10 file with one material carrying a single
// property with the given tag and no payload.
func writeRawProperty(t *testing.T, tag int32) []byte {
	t.Helper()
	w := binio.NewWriter()
	eternity.WriteMagic(w, "", eternity.SkinMagic, "0.1")
	w.FixedString("a.msh", eternity.NameSize)
	w.I32(10)
	w.I32(1)
	w.PadTo(eternity.HeaderSize)
	w.FixedString("m", eternity.NameSize)
	w.FixedString("fx", eternity.NameSize)
	w.F32(1)
	w.I32(0)
	w.PadTo(eternity.HeaderSize + materialHeaderSize)
	w.I32(1)
	w.PrefixedString("g_Odd")
	w.I32(tag)
	w.Zero(16)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.Bytes()
}

func TestUnknownPropertyType(t *testing.T) {
	if _, err := Decode(writeRawProperty(t, 4)); err != nil {
		t.Errorf("matrix tag: %v", err)
	}
	f, err := Decode(writeRawProperty(t, 5))
	if !errors.Is(err, eternity.ErrUnknownPropertyType) {
		t.Errorf("tag 5: got %v, want ErrUnknownPropertyType", err)
	}
	if f != nil {
		t.Error("partial result returned")
	}
}

func TestShortestProperties(t *testing.T) {
	// Three matrix properties with zero-length names fill the body exactly.
	w := binio.NewWriter()
	eternity.WriteMagic(w, "", eternity.SkinMagic, "0.1")
	w.FixedString("a.msh", eternity.NameSize)
	w.I32(10)
	w.I32(1)
	w.PadTo(eternity.HeaderSize)
	w.FixedString("m", eternity.NameSize)
	w.FixedString("fx", eternity.NameSize)
	w.F32(1)
	w.I32(0)
	w.PadTo(eternity.HeaderSize + materialHeaderSize)
	w.I32(3)
	for i := 0; i < 3; i++ {
		w.I32(0)
		w.I32(int32(PropertyMatrix))
	}
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	f, err := Decode(w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	props := f.Materials[0].Properties
	if len(props) != 3 {
		t.Fatalf("%d properties, want 3", len(props))
	}
	for i, p := range props {
		if p.Name != "" || p.Value != (None{}) {
			t.Errorf("property %d = %+v", i, p)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := Encode(sampleFile(11, 3))
	if err != nil {
		t.Fatal(err)
	}
	badMagic := append([]byte(nil), good...)
	copy(badMagic, "Eternity Engine Mesh File")
	badVersion := append([]byte(nil), good...)
	badVersion[512] = 12

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", badMagic, eternity.ErrInvalidMagic},
		{"version", badVersion, eternity.ErrUnsupportedVersion},
		{"truncated", good[:len(good)-1], binio.ErrTruncated},
		{"header only", good[:eternity.HeaderSize], binio.ErrTruncated},
	}
	for _, tc := range tests {
		if _, err := Decode(tc.data); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestMaterialLookup(t *testing.T) {
	f := sampleFile(11, 0)
	body := &f.Materials[0]
	if got := body.DiffuseTexture(); got != "warrior_body.dds" {
		t.Errorf("DiffuseTexture = %q", got)
	}
	if got := body.Texture("g_EmissivePower"); got != "" {
		t.Errorf("Texture on a float = %q, want empty", got)
	}
	if got := body.DiffuseColor(); got[1] != 0.9 {
		t.Errorf("DiffuseColor = %v", got)
	}
	if got := f.Materials[2].DiffuseColor(); got != [4]float32{1, 1, 1, 1} {
		t.Errorf("default DiffuseColor = %v", got)
	}
}

func TestSaveParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.skn")
	want := sampleFile(11, 4)
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(Save(f)) differs")
	}
}
