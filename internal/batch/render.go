package batch

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"eternity-assets/internal/asset"
	"eternity-assets/internal/filter"
	"eternity-assets/internal/postprocess"
	"eternity-assets/internal/raster"
	"eternity-assets/internal/texture"
	"eternity-assets/internal/viewmatrix"
)

// Options are the render settings shared by every item of a run.
type Options struct {
	Textures    texture.Resolver
	RenderSize  int
	Supersample int
	FillRatio   float64
	SkipEffects bool
	View        mgl32.Mat3
	Projection  viewmatrix.Projection
}

// Pose selects a frame of an animation clip loaded into the session.
type Pose struct {
	Clip  int
	Frame float32
}

// Parts turns the meshes of a session into raster parts. With a nil pose,
// or a session without an animation, meshes are drawn in bind pose.
func Parts(s *asset.Session, opt Options, pose *Pose) []raster.Part {
	if s.Mesh == nil {
		return nil
	}

	var skin []mgl32.Mat4
	arm := s.Armature()
	if pose != nil && (s.Ani != nil || s.Anim != nil) {
		skin = arm.SkinMatrices(arm.Pose(pose.Clip, pose.Frame))
	}

	var parts []raster.Part
	for i := range s.Mesh.Meshes {
		m := &s.Mesh.Meshes[i]
		mat := s.Material(i)
		if !filter.Keep(m, mat, opt.SkipEffects) {
			continue
		}
		faces := filter.FilterComponents(m, 6)
		if len(faces) == 0 {
			continue
		}

		p := raster.Part{Name: m.Name, Vertices: m.Vertices, Faces: faces}
		if skin != nil {
			p.Vertices = arm.SkinVertices(m, skin)
		}
		if len(m.UVs) > 0 {
			p.UVs = m.UVs[0]
		}
		if mat != nil {
			if opt.Textures != nil {
				p.Texture = opt.Textures.Resolve(mat.DiffuseTexture())
			}
			p.Tint = mat.DiffuseColor()
			p.Tint[3] *= mat.Alpha
			p.Additive = mat.AlphaBlend && filter.IsEffectMaterial(mat)
		}
		parts = append(parts, p)
	}
	return parts
}

func (o Options) raster() raster.Options {
	return raster.Options{
		Size:        o.RenderSize,
		Supersample: o.Supersample,
		View:        o.View,
		Projection:  o.Projection,
	}
}

// Render draws one still preview: rasterize, downsample, drop specks, then
// crop and center.
func Render(parts []raster.Part, opt Options) *image.NRGBA {
	img := raster.Render(parts, opt.raster())
	img = postprocess.Downsample(img, opt.RenderSize, opt.RenderSize)
	img = postprocess.RemoveSmallClusters(img, 0.02)
	return postprocess.CropAndCenter(img, opt.RenderSize, opt.FillRatio)
}

// RenderFrames draws an animation under one shared framing so the model
// does not jump between frames. The margin follows FillRatio.
func RenderFrames(poses [][]raster.Part, opt Options) []image.Image {
	ro := opt.raster()
	ro.Margin = int(float64(opt.RenderSize) * (1 - opt.FillRatio) / 2)
	frame := raster.Fit(poses, ro)
	ro.Frame = &frame

	out := make([]image.Image, len(poses))
	for i, parts := range poses {
		img := raster.Render(parts, ro)
		out[i] = postprocess.Downsample(img, opt.RenderSize, opt.RenderSize)
	}
	return out
}
