package msh

import (
	"errors"
	"fmt"
	"strings"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/eternity"
	"eternity-assets/internal/mathutil"
)

const (
	minVersion = 10
	maxVersion = 13

	meshHeaderSize = 1024

	// dummyParentMarker prefixes a dummy name in the pre-13 layout when a
	// parent name slot follows the position. It conflates name content with
	// framing; it is kept only for compatibility.
	dummyParentMarker = "L"
)

// ErrAmbiguousDummyName is returned when encoding a parentless dummy whose
// name starts with the parent marker in the pre-13 layout: decoding it back
// would strip the marker and read a parent slot that is not there.
var ErrAmbiguousDummyName = errors.New("dummy name starts with parent marker")

// layout holds the version-dependent record shapes, picked once per file.
type layout struct {
	namedCollisions bool
	readDummy       func(r *binio.Reader) Dummy
	writeDummy      func(w *binio.Writer, d *Dummy) error
}

func layoutFor(version int32) layout {
	l := layout{
		namedCollisions: version > 10,
		readDummy:       readDummyPosition,
		writeDummy:      writeDummyPosition,
	}
	if version > 12 {
		l.readDummy = readDummyMatrix
		l.writeDummy = writeDummyMatrix
	}
	return l
}

func readDummyMatrix(r *binio.Reader) Dummy {
	return Dummy{
		Name:       r.FixedString(eternity.NameSize),
		ParentName: r.FixedString(eternity.NameSize),
		Matrix:     r.Mat4(),
	}
}

func writeDummyMatrix(w *binio.Writer, d *Dummy) error {
	w.FixedString(d.Name, eternity.NameSize)
	w.FixedString(d.ParentName, eternity.NameSize)
	w.Mat4(d.transform())
	return nil
}

func readDummyPosition(r *binio.Reader) Dummy {
	d := Dummy{
		Name:     r.FixedString(eternity.NameSize),
		Position: r.Vec3(),
	}
	if strings.HasPrefix(d.Name, dummyParentMarker) {
		d.Name = strings.TrimPrefix(d.Name, dummyParentMarker)
		d.ParentName = r.FixedString(eternity.NameSize)
	}
	return d
}

func writeDummyPosition(w *binio.Writer, d *Dummy) error {
	if d.ParentName == "" {
		if strings.HasPrefix(d.Name, dummyParentMarker) {
			return fmt.Errorf("%q: %w", d.Name, ErrAmbiguousDummyName)
		}
		w.FixedString(d.Name, eternity.NameSize)
		w.Vec3(d.position())
		return nil
	}
	w.FixedString(dummyParentMarker+d.Name, eternity.NameSize)
	w.Vec3(d.position())
	w.FixedString(d.ParentName, eternity.NameSize)
	return nil
}

// transform and position fill the field the other layout leaves unset, so a
// dummy decoded from one version encodes in the other. Rotation does not
// survive the position layout.
func (d *Dummy) transform() mathutil.Matrix4x4 {
	if d.Matrix == (mathutil.Matrix4x4{}) {
		return mathutil.TranslationMatrix4x4(d.Position)
	}
	return d.Matrix
}

func (d *Dummy) position() mathutil.Vector3 {
	if d.Position == (mathutil.Vector3{}) && d.Matrix != (mathutil.Matrix4x4{}) {
		return d.Matrix.Translation()
	}
	return d.Position
}
