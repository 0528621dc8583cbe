// Package binio implements the little-endian cursor used by every Eternity
// Engine codec. Reads and writes are sticky on error: once a call fails, later
// calls are no-ops that return zero values, and Err reports the first failure.
package binio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"eternity-assets/internal/mathutil"
)

var (
	// ErrTruncated is returned when a read needs more bytes than remain.
	ErrTruncated = errors.New("truncated data")
	// ErrStringTooLong is returned when a string does not fit its fixed slot.
	ErrStringTooLong = errors.New("string too long for slot")
)

// Reader is a sequential cursor over an in-memory buffer.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }

// Offset returns the current absolute position.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.off >= len(r.data) {
		return 0
	}
	return len(r.data) - r.off
}

// Seek moves the cursor to an absolute offset. Seeking to the end of the
// buffer is allowed; past it is truncation.
func (r *Reader) Seek(off int) error {
	if r.err != nil {
		return r.err
	}
	if off < 0 || off > len(r.data) {
		r.err = fmt.Errorf("seek to %d of %d bytes: %w", off, len(r.data), ErrTruncated)
		return r.err
	}
	r.off = off
	return nil
}

// take returns the next n bytes or records a truncation error.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("read %d bytes at offset %d of %d: %w", n, r.off, len(r.data), ErrTruncated)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Skip(n int) {
	r.take(n)
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) I16() int16 {
	return int16(r.U16())
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) I32() int32 {
	return int32(r.U32())
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Count reads an int32 element count. Negative counts and counts that cannot
// possibly fit in the remaining buffer (elemSize bytes each) are truncation.
func (r *Reader) Count(elemSize int) int {
	at := r.off
	n := int(r.I32())
	if r.err != nil {
		return 0
	}
	if n < 0 || (elemSize > 0 && n > r.Len()/elemSize) {
		r.err = fmt.Errorf("count %d at offset %d: %w", n, at, ErrTruncated)
		return 0
	}
	return n
}

func (r *Reader) I16s(n int) []int16 {
	b := r.take(2 * n)
	if b == nil {
		return nil
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

func (r *Reader) U16s(n int) []uint16 {
	b := r.take(2 * n)
	if b == nil {
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out
}

func (r *Reader) I32s(n int) []int32 {
	b := r.take(4 * n)
	if b == nil {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func (r *Reader) F32s(n int) []float32 {
	b := r.take(4 * n)
	if b == nil {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

// FixedString reads an n-byte slot, drops every NUL byte and decodes cp949.
func (r *Reader) FixedString(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	return r.decode(b)
}

// CString reads up to and including the next NUL byte.
func (r *Reader) CString() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.data[r.off:], 0)
	if i < 0 {
		r.err = fmt.Errorf("unterminated string at offset %d: %w", r.off, ErrTruncated)
		return ""
	}
	return r.decode(r.take(i + 1))
}

// PrefixedString reads an int32 byte length (terminator included) followed by
// that many bytes.
func (r *Reader) PrefixedString() string {
	n := r.Count(1)
	return r.FixedString(n)
}

func (r *Reader) decode(b []byte) string {
	s, err := decodeString(b)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("decode string at offset %d: %w", r.off-len(b), err)
	}
	return s
}

func (r *Reader) Vec2() mathutil.Vector2 {
	f := r.F32s(2)
	if f == nil {
		return mathutil.Vector2{}
	}
	return mathutil.Vector2{f[0], f[1]}
}

func (r *Reader) Vec3() mathutil.Vector3 {
	f := r.F32s(3)
	if f == nil {
		return mathutil.Vector3{}
	}
	return mathutil.Vector3{f[0], f[1], f[2]}
}

func (r *Reader) Vec4() mathutil.Vector4 {
	f := r.F32s(4)
	if f == nil {
		return mathutil.Vector4{}
	}
	return mathutil.Vector4{f[0], f[1], f[2], f[3]}
}

func (r *Reader) Mat3() mathutil.Matrix3x3 {
	return mathutil.Matrix3x3{r.Vec3(), r.Vec3(), r.Vec3()}
}

func (r *Reader) Mat4() mathutil.Matrix4x4 {
	return mathutil.Matrix4x4{r.Vec4(), r.Vec4(), r.Vec4(), r.Vec4()}
}

// QuatI16 reads a quaternion stored as four 16-bit fixed point components.
func (r *Reader) QuatI16() mathutil.Vector4 {
	q := r.I16s(4)
	if q == nil {
		return mathutil.Vector4{}
	}
	return mathutil.DequantizeQuat([4]int16{q[0], q[1], q[2], q[3]})
}
