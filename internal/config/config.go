// Package config loads render settings for the preview tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	DataDir     string   `json:"data_dir" yaml:"data_dir"`
	OutputDir   string   `json:"output_dir" yaml:"output_dir"`
	TextureDirs []string `json:"texture_dirs" yaml:"texture_dirs"`

	// Render settings
	RenderSize  int     `json:"render_size" yaml:"render_size"`
	Supersample int     `json:"supersample" yaml:"supersample"`
	Workers     int     `json:"workers" yaml:"workers"`
	SkipEffects bool    `json:"skip_effects" yaml:"skip_effects"`
	View        string  `json:"view" yaml:"view"`
	Perspective bool    `json:"perspective" yaml:"perspective"`
	FillRatio   float64 `json:"fill_ratio" yaml:"fill_ratio"`

	// Optional pose: every model is rendered at this clip and frame.
	Animation string  `json:"animation" yaml:"animation"`
	Clip      string  `json:"clip" yaml:"clip"`
	Frame     float32 `json:"frame" yaml:"frame"`

	// AnimFrames > 1 renders that many frames of the clip into an animated
	// WebP instead of a still.
	AnimFrames int `json:"anim_frames" yaml:"anim_frames"`
}

// Load reads a config file. Files ending in .yaml or .yml are YAML, anything
// else is JSON. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	Frames    int
	Workers   int
	Animation string
	Clip      string
	Frame     float32
	View      string
}

// Resolve applies flags over the file values, then fills empty fields with
// defaults. Relative paths are taken against DataDir.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.AnimFrames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Animation != "" {
		c.Animation = flags.Animation
	}
	if flags.Clip != "" {
		c.Clip = flags.Clip
	}
	if flags.Frame != 0 {
		c.Frame = flags.Frame
	}
	if flags.View != "" {
		c.View = flags.View
	}

	if c.DataDir == "" {
		c.DataDir, _ = os.Getwd()
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.DataDir, "renders")
	}
	c.OutputDir = c.under(c.OutputDir)
	if c.Animation != "" {
		c.Animation = c.under(c.Animation)
	}
	if len(c.TextureDirs) == 0 {
		c.TextureDirs = []string{c.DataDir}
	}
	for i, d := range c.TextureDirs {
		c.TextureDirs[i] = c.under(d)
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
}

func (c *Config) under(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
