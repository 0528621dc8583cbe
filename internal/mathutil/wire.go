package mathutil

import "github.com/go-gl/mathgl/mgl32"

// Wire types hold values exactly as stored on disk: float32 components,
// matrices row by row.

type Vector2 [2]float32

type Vector3 [3]float32

type Vector4 [4]float32

type Matrix3x3 [3]Vector3

type Matrix4x4 [4]Vector4

// IdentityMatrix4x4 returns the 4×4 identity in wire form.
func IdentityMatrix4x4() Matrix4x4 {
	return Matrix4x4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Vec3 returns v as an mgl32 vector.
func (v Vector3) Vec3() mgl32.Vec3 { return mgl32.Vec3(v) }

// Translation returns the translation row of a row-vector (DirectX) affine
// matrix.
func (m Matrix4x4) Translation() Vector3 {
	return Vector3{m[3][0], m[3][1], m[3][2]}
}

// TranslationMatrix4x4 builds a row-vector affine matrix that only translates.
func TranslationMatrix4x4(t Vector3) Matrix4x4 {
	m := IdentityMatrix4x4()
	m[3] = Vector4{t[0], t[1], t[2], 1}
	return m
}
