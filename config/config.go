// Package config holds the run configuration shared by the collide runner
// and the viewer.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	// Scene is a scene name resolved by prefabs.LoadScene.
	Scene    string  `yaml:"scene"`
	Frames   int     `yaml:"frames"`
	DT       float64 `yaml:"dt"`
	LogLevel string  `yaml:"log_level"`
	Watch    Watch   `yaml:"watch"`
	Viewer   Viewer  `yaml:"viewer"`
}

type Watch struct {
	Enabled bool     `yaml:"enabled"`
	Dirs    []string `yaml:"dirs"`
}

type Viewer struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Zoom   float64 `yaml:"zoom"`
}

func Default() Config {
	return Config{
		Scene:    "demo",
		Frames:   600,
		DT:       1.0 / 60.0,
		LogLevel: "info",
		Watch: Watch{
			Dirs: []string{"prefabs/scenes", "prefabs/scripts"},
		},
		Viewer: Viewer{
			Width:  960,
			Height: 540,
			Zoom:   6,
		},
	}
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return Default(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Parse decodes data over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return Default(), fmt.Errorf("config: decode: %w", err)
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: scene is empty", ErrInvalidConfig)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d < 0", ErrInvalidConfig, c.Frames)
	case c.DT <= 0:
		return fmt.Errorf("%w: dt %v must be positive", ErrInvalidConfig, c.DT)
	case c.Viewer.Width <= 0 || c.Viewer.Height <= 0:
		return fmt.Errorf("%w: viewer size %dx%d", ErrInvalidConfig, c.Viewer.Width, c.Viewer.Height)
	case c.Viewer.Zoom <= 0:
		return fmt.Errorf("%w: viewer zoom %v must be positive", ErrInvalidConfig, c.Viewer.Zoom)
	}
	return nil
}
