package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"eternity-assets/internal/batch"
	"eternity-assets/internal/config"
	"eternity-assets/internal/texture"
	"eternity-assets/internal/viewmatrix"
)

func main() {
	configFile := flag.String("config", "", "Path to a .json or .yaml config file")
	testN := flag.Int("test", 0, "Render only the first N models for testing")
	match := flag.String("match", "", "Render only models whose path contains this text")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Directory to scan for .skn/.msh files (default: cwd)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	animFile := flag.String("ani", "", "ANI or ANIM file to pose every model with")
	clip := flag.String("clip", "", "Clip name inside -ani (default: first clip)")
	frame := flag.Float64("frame", 0, "Frame of the clip to render")
	frames := flag.Int("frames", 0, "Render N frames of the clip as an animated WebP")
	view := flag.String("view", "", "Camera: threequarter, front, back, side, top")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Workers:   *workers,
		Animation: *animFile,
		Clip:      *clip,
		Frame:     float32(*frame),
		Frames:    *frames,
		View:      *view,
	})

	camera, err := viewmatrix.Named(cfg.View)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths, err := batch.Find(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *match != "" {
		var filtered []string
		for _, p := range paths {
			if strings.Contains(strings.ToLower(p), strings.ToLower(*match)) {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}
	if *testN > 0 && *testN < len(paths) {
		paths = paths[:*testN]
	}
	if len(paths) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	texIndex := texture.BuildIndex(cfg.TextureDirs...)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if cfg.Animation != "" {
		mode = fmt.Sprintf(" (pose: %s)", filepath.Base(cfg.Animation))
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Eternity Engine model previews -> WebP%s\n", mode)
	fmt.Printf("Models: %d, Workers: %d\n", len(paths), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Options: batch.Options{
			Textures:    texCache,
			RenderSize:  cfg.RenderSize,
			Supersample: cfg.Supersample,
			FillRatio:   cfg.FillRatio,
			SkipEffects: cfg.SkipEffects,
			View:        camera,
			Projection:  viewmatrix.Projection{Perspective: cfg.Perspective},
		},
		OutputDir:  cfg.OutputDir,
		Workers:    cfg.Workers,
		Animation:  cfg.Animation,
		Clip:       cfg.Clip,
		Frame:      cfg.Frame,
		AnimFrames: cfg.AnimFrames,
		Progress:   term.IsTerminal(int(os.Stdout.Fd())),
	}, cfg.DataDir, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := batch.Summary(results)
	fmt.Printf("Rendered: %d/%d\n", success, len(paths))

	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			if shown == 20 {
				fmt.Printf("  ... and %d more\n", failed-shown)
				break
			}
			fmt.Printf("  %s: %s\n", r.Path, r.Error)
			shown++
		}
	}

	for _, err := range texCache.Failures() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
