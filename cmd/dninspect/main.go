package main

import (
	"flag"
	"fmt"
	"os"

	"eternity-assets/internal/ani"
	"eternity-assets/internal/asset"
	"eternity-assets/internal/mathutil"
	"eternity-assets/internal/msh"
	"eternity-assets/internal/skn"
)

func main() {
	verbose := flag.Bool("v", false, "Print per-record details")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dninspect [-v] file.{msh,skn,ani,anim}...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		s, err := asset.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s (%s)\n", path, s.Kind)
		if s.Skin != nil {
			printSkin(s.Skin, *verbose)
		}
		if s.Mesh != nil {
			printMesh(s.Mesh, *verbose)
		}
		if s.Ani != nil {
			printAni(s.Ani, *verbose)
		}
		if s.Anim != nil {
			printBones(s.Anim.Bones, *verbose)
		}
		for _, w := range s.Warnings {
			fmt.Printf("  warning: %v\n", w)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func printMesh(f *msh.File, verbose bool) {
	fmt.Printf("  %q version %d\n", f.Magic, f.Version)
	fmt.Printf("  Meshes: %d, Bones: %d, Collisions: %d, Dummies: %d, Vertices: %d\n",
		len(f.Meshes), len(f.Bones), len(f.Collisions), len(f.Dummies), f.VertexCount())
	fmt.Printf("  BBox: min %v max %v\n", f.BoundsMin, f.BoundsMax)

	for i := range f.Meshes {
		m := &f.Meshes[i]
		fmt.Printf("  Mesh[%d] %q parent=%q: verts=%d, faces=%d, uv=%d, strip=%v, rig=%d bones, colors=%v\n",
			i, m.Name, m.ParentName, len(m.Vertices), len(m.Faces), len(m.UVs), m.UseTriStrip, len(m.RigNames), len(m.VertexColors) > 0)
		if lo, hi, ok := mathutil.Bounds(m.Vertices); ok {
			fmt.Printf("    BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		}
		if verbose {
			for _, name := range m.RigNames {
				fmt.Printf("    rig: %s\n", name)
			}
		}
	}

	if verbose {
		for i, b := range f.Bones {
			fmt.Printf("  Bone[%d] %q\n", i, b.Name)
		}
	}
	for i, c := range f.Collisions {
		fmt.Printf("  Collision[%d] %s %q\n", i, c.Shape.Type(), c.Name)
	}
	for i := range f.Dummies {
		d := &f.Dummies[i]
		fmt.Printf("  Dummy[%d] %q parent=%q at %v\n", i, d.Name, d.ParentName, d.Location(f.Version))
	}
}

func printSkin(f *skn.File, verbose bool) {
	fmt.Printf("  %q version %d, mesh %q", f.Magic, f.Version, f.MeshName)
	if f.Version >= 11 {
		fmt.Printf(", fragment order %d", f.FragmentsOrder)
	}
	fmt.Println()
	for i := range f.Materials {
		m := &f.Materials[i]
		fmt.Printf("  Material[%d] %q effect=%q alpha=%.2f blend=%v diffuse=%q\n",
			i, m.Name, m.Effect, m.Alpha, m.AlphaBlend, m.DiffuseTexture())
		if !verbose {
			continue
		}
		for _, p := range m.Properties {
			fmt.Printf("    %-24s %-8s %v\n", p.Name, p.Value.Type(), p.Value)
		}
	}
}

func printAni(f *ani.File, verbose bool) {
	fmt.Printf("  %q version %d, %d bones\n", f.Magic, f.Version, len(f.Bones))
	for i, c := range f.Clips {
		fmt.Printf("  Clip[%d] %q: %d frames\n", i, c.Name, c.FrameCount)
	}
	printBones(f.Bones, verbose)
}

func printBones(bones []ani.Bone, verbose bool) {
	if !verbose {
		return
	}
	for _, b := range bones {
		fmt.Printf("  Bone %q parent=%q\n", b.Name, b.ParentName)
		for j := range b.Animations {
			a := &b.Animations[j]
			fmt.Printf("    [%d] keys loc=%d rot=%d scale=%d, last frame %d\n",
				j, len(a.Locations), len(a.Rotations), len(a.Scales), a.LastFrame())
		}
	}
}
