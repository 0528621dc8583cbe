// Package filter decides which sub-meshes of an asset belong in a preview:
// effect overlays and stray fragments are dropped.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"eternity-assets/internal/msh"
	"eternity-assets/internal/skn"
)

// effectShaderRE matches shader files used by glow, trail and distortion
// layers.
var effectShaderRE = regexp.MustCompile(`(?i)(?:glow|trail|distort|additive|effect|aura|flash|emissive)`)

var effectTexturePatterns = []string{
	"glow", "flare", "effect", "aura", "spark", "fire",
	"blur", "shine", "halo", "trail", "light", "energy",
}

// texStem lowercases a texture reference and drops directory and extension.
func texStem(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "\\", "/"))
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsEffectMaterial reports whether a material draws an overlay rather than
// surface geometry: an effect shader, or an alpha-blended material whose
// diffuse texture is named like an effect.
func IsEffectMaterial(m *skn.Material) bool {
	if m == nil {
		return false
	}
	if effectShaderRE.MatchString(m.Effect) {
		return true
	}
	if !m.AlphaBlend {
		return false
	}
	stem := texStem(m.DiffuseTexture())
	for _, p := range effectTexturePatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	return false
}

// IsEffectMesh reports whether a mesh is a tiny billboard: at most 8
// vertices and 4 faces spanning less than minSpan units. Large quads such as
// decals are kept.
func IsEffectMesh(m *msh.Mesh, minSpan float32) bool {
	nv, nf := len(m.Vertices), len(m.Faces)
	if nv == 0 || nv > 8 || nf > 4 {
		return false
	}
	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	var span float32
	for k := 0; k < 3; k++ {
		span = max(span, hi[k]-lo[k])
	}
	return span <= minSpan
}

// Keep reports whether mesh i of a session should be drawn. mat may be nil
// for a mesh without a skin.
func Keep(m *msh.Mesh, mat *skn.Material, skipEffects bool) bool {
	if len(m.Faces) == 0 {
		return false
	}
	if mat != nil && mat.Alpha <= 0 {
		return false
	}
	if !skipEffects {
		return true
	}
	return !IsEffectMaterial(mat) && !IsEffectMesh(m, 20)
}

// FilterComponents drops small vertex islands that sit far from the largest
// connected piece of the mesh. It returns the kept faces; vertex data is
// shared with m.
func FilterComponents(m *msh.Mesh, minVerts int) [][3]uint16 {
	nv := len(m.Vertices)
	if nv <= 2*minVerts || len(m.Faces) == 0 {
		return m.Faces
	}

	adj := make([][]int, nv)
	for _, f := range m.Faces {
		for a := 0; a < 3; a++ {
			for b := a + 1; b < 3; b++ {
				va, vb := int(f[a]), int(f[b])
				if va >= nv || vb >= nv {
					continue
				}
				adj[va] = append(adj[va], vb)
				adj[vb] = append(adj[vb], va)
			}
		}
	}

	visited := make([]bool, nv)
	var components [][]int
	for v := 0; v < nv; v++ {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		var comp []int
		stack := []int{v}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[curr] {
				continue
			}
			visited[curr] = true
			comp = append(comp, curr)
			for _, nb := range adj[curr] {
				if !visited[nb] {
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, comp)
	}
	if len(components) <= 1 {
		return m.Faces
	}

	largest := 0
	for i, c := range components {
		if len(c) > len(components[largest]) {
			largest = i
		}
	}
	lo, hi := bounds(m, components[largest])
	var span float32
	for k := 0; k < 3; k++ {
		span = max(span, hi[k]-lo[k])
	}

	keep := make([]bool, nv)
	for i, comp := range components {
		if i != largest && len(comp) < minVerts && !near(m, comp, lo, hi, span*0.4) {
			continue
		}
		for _, v := range comp {
			keep[v] = true
		}
	}

	var faces [][3]uint16
	for _, f := range m.Faces {
		if int(f[0]) < nv && int(f[1]) < nv && int(f[2]) < nv && keep[f[0]] && keep[f[1]] && keep[f[2]] {
			faces = append(faces, f)
		}
	}
	return faces
}

func bounds(m *msh.Mesh, verts []int) (lo, hi [3]float32) {
	lo, hi = m.Vertices[verts[0]], m.Vertices[verts[0]]
	for _, vi := range verts {
		v := m.Vertices[vi]
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	return lo, hi
}

// near reports whether the centroid of comp lies within dist of the box.
func near(m *msh.Mesh, comp []int, lo, hi [3]float32, dist float32) bool {
	var c [3]float32
	for _, vi := range comp {
		for k := 0; k < 3; k++ {
			c[k] += m.Vertices[vi][k]
		}
	}
	var d2 float32
	for k := 0; k < 3; k++ {
		c[k] /= float32(len(comp))
		switch {
		case c[k] < lo[k]:
			d2 += (lo[k] - c[k]) * (lo[k] - c[k])
		case c[k] > hi[k]:
			d2 += (c[k] - hi[k]) * (c[k] - hi[k])
		}
	}
	return d2 < dist*dist
}
