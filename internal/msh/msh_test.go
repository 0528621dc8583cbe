package msh

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/mathutil"
)

func sampleFile(version int32) *File {
	f := &File{
		Magic:       fmt.Sprintf("%s 0.%d", eternity.MeshMagic, version),
		Version:     version,
		LODCount:    1,
		UVAnimation: true,
		BoundsMax:   mathutil.Vector3{1, 2, 3},
		BoundsMin:   mathutil.Vector3{-1, -2, -3},
		Bones: []Bone{
			{Name: "Bip01", Matrix: mathutil.IdentityMatrix4x4()},
			{Name: "Bip01 Spine", Matrix: mathutil.TranslationMatrix4x4(mathutil.Vector3{0, -10, 0})},
		},
		Meshes: []Mesh{
			{
				ParentName:  "Scene Root",
				Name:        "Body",
				UseTriStrip: true,
				Faces:       [][3]uint16{{0, 1, 2}, {1, 3, 2}, {0, 2, 3}},
				Vertices:    []mathutil.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
				Normals:     []mathutil.Vector3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
				UVs: [][]mathutil.Vector2{
					{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
					{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}},
				},
				VertexColors: []uint32{0xFFFFFFFF, 0xFF0000FF, 0xFF00FF00, 0xFFFF0000},
				RigIndices:   [][4]int16{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}, {1, 0, 0, 0}},
				RigWeights:   [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {0.25, 0.75, 0, 0}, {1, 0, 0, 0}},
				RigNames:     []string{"Bip01", "Bip01 Spine"},
			},
			{
				Name:     "Weapon",
				Faces:    [][3]uint16{{2, 1, 0}},
				Vertices: []mathutil.Vector3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
				Normals:  []mathutil.Vector3{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}},
			},
		},
		Collisions: []Collision{
			{Name: "box", Shape: &Box{
				Center: mathutil.Vector3{0, 5, 0},
				Axis:   mathutil.Matrix3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				Extent: mathutil.Vector3{2, 5, 2},
			}},
			{Name: "head", Shape: &Sphere{Center: mathutil.Vector3{0, 12, 0}, Radius: 1.5}},
			{Name: "arm", Shape: &Capsule{Center: mathutil.Vector3{3, 8, 0}, Direction: mathutil.Vector3{1, 0, 0}, Radius: 0.5}},
			{Name: "floor", Shape: &TriangleList{Triangles: []Triangle{
				{Location: mathutil.Vector3{0, 0, 0}, EdgeA: mathutil.Vector3{1, 0, 0}, EdgeB: mathutil.Vector3{0, 0, 1}},
			}}},
		},
	}
	if version == 10 {
		for i := range f.Collisions {
			f.Collisions[i].Name = ""
		}
	}
	if version > 12 {
		f.Dummies = []Dummy{
			{Name: "#hand", ParentName: "Bip01 Spine", Matrix: mathutil.TranslationMatrix4x4(mathutil.Vector3{4, 5, 6})},
			{Name: "#root", Matrix: mathutil.IdentityMatrix4x4()},
		}
	} else {
		f.Dummies = []Dummy{
			{Name: "#hand", ParentName: "Bip01 Spine", Position: mathutil.Vector3{4, 5, 6}},
			{Name: "#root", Position: mathutil.Vector3{0, 0, 0}},
		}
	}
	return f
}

func TestRoundTrip(t *testing.T) {
	for version := int32(minVersion); version <= maxVersion; version++ {
		want := sampleFile(version)
		data, err := Encode(want)
		if err != nil {
			t.Fatalf("version %d: Encode: %v", version, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("version %d: Decode: %v", version, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("version %d: round trip mismatch\ngot:  %+v\nwant: %+v", version, got, want)
		}
		again, err := Encode(got)
		if err != nil {
			t.Fatalf("version %d: re-Encode: %v", version, err)
		}
		if !reflect.DeepEqual(again, data) {
			t.Errorf("version %d: re-encoded bytes differ", version)
		}
	}
}

func TestDummyAcrossVersions(t *testing.T) {
	tests := []struct {
		from, to int32
	}{
		{13, 12},
		{13, 10},
		{12, 13},
		{11, 13},
	}
	for _, tc := range tests {
		f := sampleFile(tc.from)
		f.Version = tc.to
		f.Magic = ""
		if tc.to == 10 {
			for i := range f.Collisions {
				f.Collisions[i].Name = ""
			}
		}
		data, err := Encode(f)
		if err != nil {
			t.Fatalf("%d->%d: Encode: %v", tc.from, tc.to, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("%d->%d: Decode: %v", tc.from, tc.to, err)
		}
		if len(got.Dummies) != 2 {
			t.Fatalf("%d->%d: %d dummies", tc.from, tc.to, len(got.Dummies))
		}
		hand, root := got.Dummies[0], got.Dummies[1]
		if loc := hand.Location(tc.to); loc != (mathutil.Vector3{4, 5, 6}) {
			t.Errorf("%d->%d: hand at %v, want [4 5 6]", tc.from, tc.to, loc)
		}
		if hand.ParentName != "Bip01 Spine" {
			t.Errorf("%d->%d: hand parent %q", tc.from, tc.to, hand.ParentName)
		}
		if tc.to > 12 {
			if root.Matrix != mathutil.IdentityMatrix4x4() {
				t.Errorf("%d->%d: root matrix %v, want identity", tc.from, tc.to, root.Matrix)
			}
			if hand.Matrix != mathutil.TranslationMatrix4x4(mathutil.Vector3{4, 5, 6}) {
				t.Errorf("%d->%d: hand matrix %v", tc.from, tc.to, hand.Matrix)
			}
		}
	}
}

func TestDefaultMagic(t *testing.T) {
	f := sampleFile(12)
	f.Magic = ""
	data, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Eternity Engine Mesh File 0.12"; got.Magic != want {
		t.Errorf("Magic = %q, want %q", got.Magic, want)
	}
}

func TestBodyStartsAtFixedOffset(t *testing.T) {
	f := sampleFile(13)
	data, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	r := binio.NewReader(data)
	if err := r.Seek(eternity.HeaderSize); err != nil {
		t.Fatal(err)
	}
	if name := r.FixedString(eternity.NameSize); name != "Bip01" {
		t.Errorf("first bone at 0x400 = %q, want Bip01", name)
	}
}

// encodeStripMesh writes a single-mesh file by hand so the index block is
// exactly what the test provides.
func encodeStripMesh(t *testing.T, indices []uint16, strip bool) []byte {
	t.Helper()
	w := binio.NewWriter()
	eternity.WriteMagic(w, "", eternity.MeshMagic, "0.13")
	w.I32(13)
	w.I32(1) // meshes
	w.I32(1) // lods
	w.Zero(4)
	w.Vec3(mathutil.Vector3{})
	w.Vec3(mathutil.Vector3{})
	w.I32(0) // bones
	w.I32(0) // collisions
	w.I32(0) // dummies
	w.PadTo(eternity.HeaderSize)

	start := w.Len()
	w.FixedString("", eternity.NameSize)
	w.FixedString("strip", eternity.NameSize)
	w.I32(4)
	w.Count(len(indices))
	w.I32(0)
	w.Bool(strip)
	w.Zero(3)
	w.PadTo(start + meshHeaderSize)
	w.U16s(indices)
	for i := 0; i < 8; i++ {
		w.Vec3(mathutil.Vector3{float32(i), 0, 0})
	}
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.Bytes()
}

func TestDecodeStripMesh(t *testing.T) {
	tests := []struct {
		indices []uint16
		strip   bool
		want    [][3]uint16
	}{
		{[]uint16{0, 1, 2, 1, 2, 3}, true, [][3]uint16{{0, 1, 2}, {1, 3, 2}}},
		{[]uint16{0, 1, 2, 1, 2, 3}, false, [][3]uint16{{0, 1, 2}, {1, 2, 3}}},
	}
	for i, tc := range tests {
		f, err := Decode(encodeStripMesh(t, tc.indices, tc.strip))
		if err != nil {
			t.Fatalf("Testcase %d: %v", i, err)
		}
		if got := f.Meshes[0].Faces; !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, tc.want)
		}
	}
}

func encodeOldDummy(t *testing.T, stored, parent string) []byte {
	t.Helper()
	w := binio.NewWriter()
	eternity.WriteMagic(w, "", eternity.MeshMagic, "0.12")
	w.I32(12)
	w.I32(0)
	w.I32(0)
	w.Zero(4)
	w.Vec3(mathutil.Vector3{})
	w.Vec3(mathutil.Vector3{})
	w.I32(0)
	w.I32(0)
	w.I32(1)
	w.PadTo(eternity.HeaderSize)
	w.FixedString(stored, eternity.NameSize)
	w.Vec3(mathutil.Vector3{1, 2, 3})
	if parent != "" {
		w.FixedString(parent, eternity.NameSize)
	}
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.Bytes()
}

func TestOldDummyParentMarker(t *testing.T) {
	tests := []struct {
		stored, parent string
		wantName       string
	}{
		{"L#weapon", "Bip01 R Hand", "#weapon"},
		{"#weapon", "", "#weapon"},
	}
	for i, tc := range tests {
		f, err := Decode(encodeOldDummy(t, tc.stored, tc.parent))
		if err != nil {
			t.Fatalf("Testcase %d: %v", i, err)
		}
		d := f.Dummies[0]
		if d.Name != tc.wantName || d.ParentName != tc.parent {
			t.Errorf("Testcase %d. got: (%q, %q), want (%q, %q)", i, d.Name, d.ParentName, tc.wantName, tc.parent)
		}
		if want := (mathutil.Vector3{1, 2, 3}); d.Location(f.Version) != want {
			t.Errorf("Testcase %d. location %v, want %v", i, d.Location(f.Version), want)
		}
	}
}

func TestAmbiguousDummyName(t *testing.T) {
	f := sampleFile(11)
	f.Dummies = []Dummy{{Name: "Lantern"}}
	if _, err := Encode(f); !errors.Is(err, ErrAmbiguousDummyName) {
		t.Errorf("Encode: got %v, want ErrAmbiguousDummyName", err)
	}

	f.Version = 13
	if _, err := Encode(f); err != nil {
		t.Errorf("Encode v13: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := Encode(sampleFile(13))
	if err != nil {
		t.Fatal(err)
	}

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "Eternity Engine Skin File")

	badVersion := append([]byte(nil), good...)
	badVersion[eternity.MagicSize] = 9

	badCollision := sampleFile(13)
	badCollision.Collisions = []Collision{{Shape: &Sphere{}}}
	badCollision.Dummies = nil
	collisionData, err := Encode(badCollision)
	if err != nil {
		t.Fatal(err)
	}
	// tag, empty prefixed name (4+1), center, radius
	collisionData[len(collisionData)-(4+5+12+4)] = 9

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", badMagic, eternity.ErrInvalidMagic},
		{"version", badVersion, eternity.ErrUnsupportedVersion},
		{"truncated header", good[:100], binio.ErrTruncated},
		{"truncated body", good[:len(good)-10], binio.ErrTruncated},
		{"collision", collisionData, eternity.ErrUnknownCollisionType},
	}
	for _, tc := range tests {
		f, err := Decode(tc.data)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
		if f != nil {
			t.Errorf("%s: partial result returned", tc.name)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	long := sampleFile(13)
	long.Bones[0].Name = fmt.Sprintf("%0300d", 0)
	if _, err := Encode(long); !errors.Is(err, binio.ErrStringTooLong) {
		t.Errorf("long name: got %v, want ErrStringTooLong", err)
	}

	mismatch := sampleFile(13)
	mismatch.Meshes[1].Normals = mismatch.Meshes[1].Normals[:1]
	if _, err := Encode(mismatch); err == nil {
		t.Error("normal count mismatch: no error")
	}

	version := sampleFile(13)
	version.Version = 14
	if _, err := Encode(version); !errors.Is(err, eternity.ErrUnsupportedVersion) {
		t.Errorf("version: got %v, want ErrUnsupportedVersion", err)
	}
}

func TestSaveParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.msh")
	want := sampleFile(13)
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

func TestInfluences(t *testing.T) {
	m := sampleFile(13).Meshes[0]
	tests := []struct {
		v    int
		want []Influence
	}{
		{0, []Influence{{"Bip01", 1}}},
		{2, []Influence{{"Bip01", 0.25}, {"Bip01 Spine", 0.75}}},
		{9, nil},
	}
	for _, tc := range tests {
		if got := m.Influences(tc.v); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Influences(%d) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestUnresolvedRigBones(t *testing.T) {
	f := sampleFile(13)
	if w := f.UnresolvedRigBones(); len(w) != 0 {
		t.Errorf("unexpected warnings: %v", w)
	}
	f.Meshes[0].RigNames[1] = "Bip01 Tail"
	w := f.UnresolvedRigBones()
	if len(w) != 1 || !errors.Is(w[0], eternity.ErrUnresolvedBone) {
		t.Errorf("warnings = %v, want one ErrUnresolvedBone", w)
	}
}
