package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	want := Config{
		DataDir:     "/data",
		TextureDirs: []string{"tex", "/shared/tex"},
		RenderSize:  128,
		SkipEffects: true,
		Clip:        "Idle",
		Frame:       2.5,
	}

	yamlPath := writeFile(t, "render.yaml", `
data_dir: /data
texture_dirs: [tex, /shared/tex]
render_size: 128
skip_effects: true
clip: Idle
frame: 2.5
`)
	jsonPath := writeFile(t, "render.json", `{
	"data_dir": "/data",
	"texture_dirs": ["tex", "/shared/tex"],
	"render_size": 128,
	"skip_effects": true,
	"clip": "Idle",
	"frame": 2.5
}`)

	for _, path := range []string{yamlPath, jsonPath} {
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", filepath.Base(path), err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Load(%s) = %+v, want %+v", filepath.Base(path), got, want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file loaded")
	}
	if _, err := Load(writeFile(t, "bad.yml", "render_size: [")); err == nil {
		t.Error("malformed yaml loaded")
	}
	if _, err := Load(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("malformed json loaded")
	}
}

func TestResolve(t *testing.T) {
	c := Config{
		DataDir:     "/data",
		TextureDirs: []string{"tex", "/shared/tex"},
		AnimFrames:  4,
	}
	c.Resolve(Flags{Frames: 12, Animation: "anim/idle.ani", Clip: "Walk"})

	if c.AnimFrames != 12 {
		t.Errorf("AnimFrames = %d, flag should win", c.AnimFrames)
	}
	if c.OutputDir != filepath.Join("/data", "renders") {
		t.Errorf("OutputDir = %q", c.OutputDir)
	}
	if c.Animation != filepath.Join("/data", "anim", "idle.ani") {
		t.Errorf("Animation = %q", c.Animation)
	}
	if want := []string{filepath.Join("/data", "tex"), "/shared/tex"}; !reflect.DeepEqual(c.TextureDirs, want) {
		t.Errorf("TextureDirs = %v", c.TextureDirs)
	}
	if c.RenderSize != 256 || c.Supersample != 2 || c.Workers <= 0 || c.FillRatio != 0.9 || c.Clip != "Walk" {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestResolveDefaultTextureDir(t *testing.T) {
	c := Config{DataDir: "/data"}
	c.Resolve(Flags{})
	if !reflect.DeepEqual(c.TextureDirs, []string{"/data"}) {
		t.Errorf("TextureDirs = %v", c.TextureDirs)
	}
}
