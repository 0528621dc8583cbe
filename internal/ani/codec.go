package ani

import (
	"errors"
	"fmt"
	"math"

	"eternity-assets/internal/binio"
	"eternity-assets/internal/mathutil"
)

// ErrFrameOutOfRange is returned when a key frame does not fit the frame
// index width of the target version.
var ErrFrameOutOfRange = errors.New("frame index out of range")

// packedVersion is the first ANI version with 16-bit frames and quantized
// rotation keys.
const packedVersion = 11

// keyCodec is the key encoding of one format revision. It is picked once per
// file.
type keyCodec struct {
	name string

	readFrame  func(r *binio.Reader) int32
	writeFrame func(w *binio.Writer, frame int32) error

	readRotation  func(r *binio.Reader) mathutil.Vector4
	writeRotation func(w *binio.Writer, q mathutil.Vector4)
}

var wideKeys = keyCodec{
	name:      "int32/float",
	readFrame: func(r *binio.Reader) int32 { return r.I32() },
	writeFrame: func(w *binio.Writer, frame int32) error {
		w.I32(frame)
		return nil
	},
	readRotation:  (*binio.Reader).Vec4,
	writeRotation: (*binio.Writer).Vec4,
}

var packedKeys = keyCodec{
	name:      "int16/quantized",
	readFrame: func(r *binio.Reader) int32 { return int32(r.I16()) },
	writeFrame: func(w *binio.Writer, frame int32) error {
		if frame < math.MinInt16 || frame > math.MaxInt16 {
			return fmt.Errorf("%w: %d does not fit int16", ErrFrameOutOfRange, frame)
		}
		w.I16(int16(frame))
		return nil
	},
	readRotation:  (*binio.Reader).QuatI16,
	writeRotation: (*binio.Writer).QuatI16,
}

func codecFor(version int32) keyCodec {
	if version >= packedVersion {
		return packedKeys
	}
	return wideKeys
}

// readAnimation reads one record: base location, base rotation (always
// float), base scale, then the location, rotation and scale tracks.
func readAnimation(r *binio.Reader, c keyCodec) Animation {
	a := Animation{
		BaseLocation: r.Vec3(),
		BaseRotation: r.Vec4(),
		BaseScale:    r.Vec3(),
	}
	// The smallest key is a 16-bit frame and a 12-byte vector.
	if n := r.Count(14); n > 0 {
		a.Locations = make([]VectorKey, n)
		for i := range a.Locations {
			a.Locations[i] = VectorKey{Frame: c.readFrame(r), Value: r.Vec3()}
		}
	}
	if n := r.Count(10); n > 0 {
		a.Rotations = make([]RotationKey, n)
		for i := range a.Rotations {
			a.Rotations[i] = RotationKey{Frame: c.readFrame(r), Value: c.readRotation(r)}
		}
	}
	if n := r.Count(14); n > 0 {
		a.Scales = make([]VectorKey, n)
		for i := range a.Scales {
			a.Scales[i] = VectorKey{Frame: c.readFrame(r), Value: r.Vec3()}
		}
	}
	return a
}

func writeAnimation(w *binio.Writer, c keyCodec, a *Animation) error {
	w.Vec3(a.BaseLocation)
	w.Vec4(a.BaseRotation)
	w.Vec3(a.BaseScale)

	w.Count(len(a.Locations))
	for _, k := range a.Locations {
		if err := c.writeFrame(w, k.Frame); err != nil {
			return fmt.Errorf("location key: %w", err)
		}
		w.Vec3(k.Value)
	}
	w.Count(len(a.Rotations))
	for _, k := range a.Rotations {
		if err := c.writeFrame(w, k.Frame); err != nil {
			return fmt.Errorf("rotation key: %w", err)
		}
		c.writeRotation(w, k.Value)
	}
	w.Count(len(a.Scales))
	for _, k := range a.Scales {
		if err := c.writeFrame(w, k.Frame); err != nil {
			return fmt.Errorf("scale key: %w", err)
		}
		w.Vec3(k.Value)
	}
	return w.Err()
}
