// Package config loads the playground's render configuration.
//
// The native format is line oriented:
//
//	# comment
//	vert = main.vert
//	frag = main.frag
//	frag[1] = blur.frag
//	texture = image.png
//	objects_count = 8
//
// Files ending in .yml or .yaml are read as YAML mappings with the same keys.
// Unknown keys and bad values produce warnings, never errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxPasses is the number of vert[N]/frag[N] slots.
	MaxPasses = 3
	// ObjectsCapacity bounds objects_count.
	ObjectsCapacity = 1024
)

// PassPaths names the shader sources of one render pass.
type PassPaths struct {
	Vert string
	Frag string
}

func (p PassPaths) complete() bool { return p.Vert != "" && p.Frag != "" }

type Config struct {
	Passes  [MaxPasses]PassPaths
	Texture string

	// FollowScale is how fast, per second, the orbit center closes the
	// distance to the mouse.
	FollowScale float32
	// ObjectSize is the side of each orbiting square in pixels.
	ObjectSize float32
	// RotateRadius is the orbit radius in pixels.
	RotateRadius float32
	// RotateSpeed is the angular speed in radians per second.
	RotateSpeed  float32
	ObjectsCount int
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Passes:       [MaxPasses]PassPaths{{Vert: "main.vert", Frag: "main.frag"}},
		FollowScale:  4,
		ObjectSize:   50,
		RotateRadius: 200,
		RotateSpeed:  1,
	}
}

// ActivePasses returns the leading passes that name both shaders.
func (c Config) ActivePasses() []PassPaths {
	var out []PassPaths
	for _, p := range c.Passes {
		if !p.complete() {
			break
		}
		out = append(out, p)
	}
	return out
}

// Files returns every file the configuration refers to.
func (c Config) Files() []string {
	var out []string
	for _, p := range c.ActivePasses() {
		out = append(out, p.Vert, p.Frag)
	}
	if c.Texture != "" {
		out = append(out, c.Texture)
	}
	return out
}

// resolve makes relative paths relative to dir.
func (c *Config) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Passes {
		c.Passes[i].Vert = join(c.Passes[i].Vert)
		c.Passes[i].Frag = join(c.Passes[i].Frag)
	}
	c.Texture = join(c.Texture)
}

// Warning is a problem found in a config file that did not stop parsing.
type Warning struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", w.File, w.Line, w.Column, w.Msg)
}

// Load reads the file at path, choosing the format by extension. Relative
// paths inside the file are resolved against the file's directory.
func Load(path string) (Config, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("read config: %w", err)
	}

	var (
		cfg   Config
		warns []Warning
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		cfg, warns, err = ParseYAML(path, data)
		if err != nil {
			return Config{}, warns, err
		}
	default:
		cfg, warns = Parse(path, data)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, warns, nil
}
