package binio

import (
	"encoding/binary"
	"fmt"
	"math"

	"eternity-assets/internal/mathutil"
)

// Writer appends little-endian values to an in-memory buffer.
type Writer struct {
	buf []byte
	err error
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Err() error { return w.err }

// Fail records err unless an earlier error is already held.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) Raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	if w.err != nil || n <= 0 {
		return
	}
	w.buf = append(w.buf, make([]byte, n)...)
}

// PadTo zero-fills the buffer up to an absolute offset.
func (w *Writer) PadTo(off int) {
	if w.err != nil {
		return
	}
	if len(w.buf) > off {
		w.err = fmt.Errorf("header of %d bytes overruns offset %d", len(w.buf), off)
		return
	}
	w.Zero(off - len(w.buf))
}

func (w *Writer) U8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// Bool32 writes a flag stored as a full int32.
func (w *Writer) Bool32(v bool) {
	if v {
		w.I32(1)
	} else {
		w.I32(0)
	}
}

func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

func (w *Writer) U16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) U32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

// Count writes a slice length as int32.
func (w *Writer) Count(n int) {
	if n > math.MaxInt32 {
		w.Fail(fmt.Errorf("count %d exceeds int32", n))
		return
	}
	w.I32(int32(n))
}

func (w *Writer) I16s(v []int16) {
	for _, x := range v {
		w.I16(x)
	}
}

func (w *Writer) U16s(v []uint16) {
	for _, x := range v {
		w.U16(x)
	}
}

func (w *Writer) F32s(v []float32) {
	for _, x := range v {
		w.F32(x)
	}
}

// FixedString writes s into an n-byte slot padded with NUL bytes. A string
// that encodes to more than n bytes is an error; it is never truncated.
func (w *Writer) FixedString(s string, n int) {
	if w.err != nil {
		return
	}
	b, err := encodeString(s)
	if err != nil {
		w.err = fmt.Errorf("encode %q: %w", s, err)
		return
	}
	if len(b) > n {
		w.err = fmt.Errorf("%q is %d bytes, slot is %d: %w", s, len(b), n, ErrStringTooLong)
		return
	}
	w.buf = append(w.buf, b...)
	w.Zero(n - len(b))
}

// CString writes s followed by a single NUL byte.
func (w *Writer) CString(s string) {
	if w.err != nil {
		return
	}
	b, err := encodeString(s)
	if err != nil {
		w.err = fmt.Errorf("encode %q: %w", s, err)
		return
	}
	w.buf = append(w.buf, b...)
	w.U8(0)
}

// PrefixedString writes the byte length of s plus its terminator as int32,
// then s and the terminator.
func (w *Writer) PrefixedString(s string) {
	if w.err != nil {
		return
	}
	b, err := encodeString(s)
	if err != nil {
		w.err = fmt.Errorf("encode %q: %w", s, err)
		return
	}
	w.Count(len(b) + 1)
	w.Raw(b)
	w.U8(0)
}

func (w *Writer) Vec2(v mathutil.Vector2) {
	w.F32(v[0])
	w.F32(v[1])
}

func (w *Writer) Vec3(v mathutil.Vector3) {
	for _, f := range v {
		w.F32(f)
	}
}

func (w *Writer) Vec4(v mathutil.Vector4) {
	for _, f := range v {
		w.F32(f)
	}
}

func (w *Writer) Mat3(m mathutil.Matrix3x3) {
	for _, row := range m {
		w.Vec3(row)
	}
}

func (w *Writer) Mat4(m mathutil.Matrix4x4) {
	for _, row := range m {
		w.Vec4(row)
	}
}

// QuatI16 writes a quaternion as four 16-bit fixed point components.
func (w *Writer) QuatI16(q mathutil.Vector4) {
	for _, c := range mathutil.QuantizeQuat(q) {
		w.I16(c)
	}
}
