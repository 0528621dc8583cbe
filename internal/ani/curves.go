package ani

import (
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/mathutil"
)

// LocationCurve returns the location track with the base value as the frame 0
// key. A key at frame 0 overrides the base value.
func (a *Animation) LocationCurve() []VectorKey {
	return withBase(a.Locations, VectorKey{Value: a.BaseLocation}, func(k VectorKey) int32 { return k.Frame })
}

// RotationCurve is LocationCurve for rotations.
func (a *Animation) RotationCurve() []RotationKey {
	return withBase(a.Rotations, RotationKey{Value: a.BaseRotation}, func(k RotationKey) int32 { return k.Frame })
}

// ScaleCurve is LocationCurve for scales.
func (a *Animation) ScaleCurve() []VectorKey {
	return withBase(a.Scales, VectorKey{Value: a.BaseScale}, func(k VectorKey) int32 { return k.Frame })
}

func withBase[K any](keys []K, base K, frame func(K) int32) []K {
	out := make([]K, 0, len(keys)+1)
	if !slices.ContainsFunc(keys, func(k K) bool { return frame(k) == 0 }) {
		out = append(out, base)
	}
	out = append(out, keys...)
	sort.SliceStable(out, func(i, j int) bool { return frame(out[i]) < frame(out[j]) })
	return out
}

// LastFrame returns the highest key frame over all tracks, 0 without keys.
func (a *Animation) LastFrame() int32 {
	var last int32
	for _, k := range a.Locations {
		last = max(last, k.Frame)
	}
	for _, k := range a.Rotations {
		last = max(last, k.Frame)
	}
	for _, k := range a.Scales {
		last = max(last, k.Frame)
	}
	return last
}

// Pose is a sampled bone transform in parent space.
type Pose struct {
	Location mathutil.Vector3
	Rotation mathutil.Vector4 // x, y, z, w
	Scale    mathutil.Vector3
}

// Sample evaluates the animation at a fractional frame. Locations and scales
// are interpolated linearly, rotations spherically; frames outside the keyed
// range hold the nearest key.
func (a *Animation) Sample(frame float32) Pose {
	return Pose{
		Location: sampleVector(a.LocationCurve(), frame),
		Rotation: sampleRotation(a.RotationCurve(), frame),
		Scale:    sampleVector(a.ScaleCurve(), frame),
	}
}

// bracket returns the keys around frame and the blend factor between them.
func bracket(n int, frameAt func(int) int32, frame float32) (int, int, float32) {
	i := sort.Search(n, func(i int) bool { return float32(frameAt(i)) > frame })
	switch {
	case i == 0:
		return 0, 0, 0
	case i == n:
		return n - 1, n - 1, 0
	}
	f0, f1 := float32(frameAt(i-1)), float32(frameAt(i))
	return i - 1, i, (frame - f0) / (f1 - f0)
}

func sampleVector(keys []VectorKey, frame float32) mathutil.Vector3 {
	i, j, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, frame)
	a, b := toVec3(keys[i].Value), toVec3(keys[j].Value)
	return fromVec3(a.Add(b.Sub(a).Mul(t)))
}

func sampleRotation(keys []RotationKey, frame float32) mathutil.Vector4 {
	i, j, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, frame)
	if i == j {
		return keys[i].Value
	}
	q := mgl32.QuatSlerp(ToQuat(keys[i].Value), ToQuat(keys[j].Value), t)
	return FromQuat(q)
}

func toVec3(v mathutil.Vector3) mgl32.Vec3 { return mgl32.Vec3(v) }

func fromVec3(v mgl32.Vec3) mathutil.Vector3 { return mathutil.Vector3(v) }

// ToQuat converts a stored (x, y, z, w) quaternion.
func ToQuat(v mathutil.Vector4) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// FromQuat converts back to stored (x, y, z, w) order.
func FromQuat(q mgl32.Quat) mathutil.Vector4 {
	return mathutil.Vector4{q.V[0], q.V[1], q.V[2], q.W}
}
