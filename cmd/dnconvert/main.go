package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eternity-assets/internal/ani"
	"eternity-assets/internal/asset"
	"eternity-assets/internal/msh"
	"eternity-assets/internal/skn"
)

func main() {
	in := flag.String("in", "", "Input file (.msh, .skn, .ani or .anim)")
	out := flag.String("out", "", "Output file; an .anim input may be written as .ani")
	version := flag.Int("version", 0, "Target format version (default: keep)")
	fragments := flag.Int("fragments", -1, "SKN fragment order 0-4 for version 11 (default: keep)")
	clip := flag.String("clip", "", "Clip name when converting ANIM to ANI, or clip to extract from ANI to ANIM")
	keepMagic := flag.Bool("keep-magic", false, "Keep the input magic string instead of the default for the target version")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := convert(*in, *out, int32(*version), int32(*fragments), *clip, *keepMagic); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}

func convert(in, out string, version, fragments int32, clip string, keepMagic bool) error {
	s, err := asset.Open(in)
	if err != nil {
		return err
	}
	target := asset.KindOf(out)

	switch {
	case s.Kind == asset.KindMesh && target == asset.KindMesh:
		f := s.Mesh
		f.Version = pick(version, f.Version)
		if !keepMagic {
			f.Magic = ""
		}
		return msh.Save(out, f)

	case s.Kind == asset.KindSkin && target == asset.KindSkin:
		f := s.Skin
		f.Version = pick(version, f.Version)
		if fragments >= 0 {
			f.FragmentsOrder = fragments
		}
		if !keepMagic {
			f.Magic = ""
		}
		return skn.Save(out, f)

	case s.Kind == asset.KindAni && target == asset.KindAni:
		f := s.Ani
		f.Version = pick(version, f.Version)
		if !keepMagic {
			f.Magic = ""
		}
		return ani.Save(out, f)

	case s.Kind == asset.KindAnim && target == asset.KindAni:
		if clip == "" {
			clip = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		}
		return ani.Save(out, s.Anim.File(clip, pick(version, 11)))

	case s.Kind == asset.KindAni && target == asset.KindAnim:
		i := 0
		if clip != "" {
			if i = s.Ani.ClipIndex(clip); i < 0 {
				return fmt.Errorf("%w: %q", asset.ErrUnknownClip, clip)
			}
		}
		a, err := s.Ani.Clip(i)
		if err != nil {
			return err
		}
		return ani.SaveAnim(out, a)

	case s.Kind == asset.KindAnim && target == asset.KindAnim:
		return ani.SaveAnim(out, s.Anim)
	}
	return fmt.Errorf("cannot convert %s to %s", s.Kind, target)
}

func pick(v, keep int32) int32 {
	if v > 0 {
		return v
	}
	return keep
}
