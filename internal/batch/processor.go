// Package batch renders previews for every model under a directory with a
// worker pool and writes them as WebP files plus a manifest.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"eternity-assets/internal/asset"
	"eternity-assets/internal/raster"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Options
	OutputDir string
	Workers   int

	// Animation, when set, is loaded into every session and posed at
	// Clip/Frame, or played over AnimFrames frames.
	Animation  string
	Clip       string
	Frame      float32
	AnimFrames int

	// Progress prints a throughput line every two seconds.
	Progress bool
}

// Result holds the outcome of processing one model.
type Result struct {
	Path     string // relative to the scanned root
	Image    string // relative to OutputDir
	Parts    int
	Warnings []string
	Success  bool
	Error    string
}

// Find lists the models under root in lexical order: every skin, and every
// mesh that no skin in the same directory shares a stem with.
func Find(root string) ([]string, error) {
	skins := make(map[string]bool)
	var meshes, out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch asset.KindOf(path) {
		case asset.KindSkin:
			skins[stemKey(path)] = true
			out = append(out, path)
		case asset.KindMesh:
			meshes = append(meshes, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", root, err)
	}
	for _, m := range meshes {
		if !skins[stemKey(m)] {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func stemKey(path string) string {
	return strings.ToLower(strings.TrimSuffix(path, filepath.Ext(path)))
}

// Run processes all models using a worker pool. Results are in the order of
// paths.
func Run(cfg Config, root string, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := max(cfg.Workers, 1)
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processItem(cfg, root, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func processItem(cfg Config, root, path string) Result {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	res := Result{Path: filepath.ToSlash(rel)}
	res.Image = strings.TrimSuffix(res.Path, filepath.Ext(res.Path)) + ".webp"
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(res.Image))

	s, err := asset.Open(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	err = render(cfg, s, outPath, &res)
	for _, w := range s.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func render(cfg Config, s *asset.Session, outPath string, res *Result) error {
	if s.Mesh == nil {
		return errors.New("no mesh to render")
	}

	var pose *Pose
	if cfg.Animation != "" {
		if err := s.LoadAnimation(cfg.Animation); err != nil {
			return err
		}
		clip, count, err := s.Clip(cfg.Clip)
		if err != nil {
			return err
		}
		if cfg.AnimFrames > 1 && count > 1 {
			return writeAnimated(cfg, s, clip, count, outPath, res)
		}
		pose = &Pose{Clip: clip, Frame: cfg.Frame}
	}

	parts := Parts(s, cfg.Options, pose)
	if len(parts) == 0 {
		return errNothingToDraw
	}
	res.Parts = len(parts)
	img := Render(parts, cfg.Options)
	return writeWebP(outPath, func(f *os.File) error {
		return nativewebp.Encode(f, img, nil)
	})
}

var errNothingToDraw = errors.New("every mesh was filtered out")

// frameDuration is the playback time of one source frame at 30 fps, in
// milliseconds.
const frameDuration = 1000.0 / 30

func writeAnimated(cfg Config, s *asset.Session, clip int, count int32, outPath string, res *Result) error {
	frames := cfg.AnimFrames
	poses := make([][]raster.Part, frames)
	step := float32(count-1) / float32(frames)
	for i := range poses {
		poses[i] = Parts(s, cfg.Options, &Pose{Clip: clip, Frame: float32(i) * step})
	}
	if len(poses[0]) == 0 {
		return errNothingToDraw
	}
	res.Parts = len(poses[0])

	imgs := RenderFrames(poses, cfg.Options)
	anim := &nativewebp.Animation{
		Images:    imgs,
		Durations: make([]uint, frames),
		Disposals: make([]uint, frames),
	}
	for i := range anim.Durations {
		anim.Durations[i] = uint(float32(frameDuration)*step + 0.5)
		anim.Disposals[i] = 1
	}
	return writeWebP(outPath, func(f *os.File) error {
		return nativewebp.EncodeAll(f, anim, nil)
	})
}

func writeWebP(path string, encode func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("webp encode: %w", err)
	}
	return f.Close()
}
