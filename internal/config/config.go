// Package config loads the demo settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"Terra3D/internal/logger"
	"Terra3D/internal/renderer"
	"Terra3D/internal/terrain"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window  WindowConfig          `yaml:"window"`
	Engine  EngineConfig          `yaml:"engine"`
	Render  renderer.RenderConfig `yaml:"render"`
	Terrain TerrainConfig         `yaml:"terrain"`
	Debug   bool                  `yaml:"debug"`
}

type WindowConfig struct {
	Title        string `yaml:"title"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	VSync        bool   `yaml:"vsync"`
	DarkTitleBar bool   `yaml:"darkTitleBar"`
}

type EngineConfig struct {
	TargetFPS int `yaml:"targetFPS"`
	TargetUPS int `yaml:"targetUPS"`
}

type TerrainConfig struct {
	// HeightMap is an image file; when empty the height map is generated
	// from Noise with Samples×Samples points.
	HeightMap    string              `yaml:"heightMap"`
	Samples      int                 `yaml:"samples"`
	BlocksPerRow int                 `yaml:"blocksPerRow"`
	Scale        float32             `yaml:"scale"`
	TextInc      int                 `yaml:"textInc"`
	MinY         float32             `yaml:"minY"`
	MaxY         float32             `yaml:"maxY"`
	Texture      string              `yaml:"texture"`
	Noise        terrain.NoiseParams `yaml:"noise"`
}

func Default() Config {
	noise := terrain.DefaultNoiseParams()
	return Config{
		Window: WindowConfig{
			Title:  "Terra3D",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Engine: EngineConfig{
			TargetFPS: 75,
			TargetUPS: 30,
		},
		Render: renderer.DefaultRenderConfig(),
		Terrain: TerrainConfig{
			Samples:      129,
			BlocksPerRow: 3,
			Scale:        10,
			TextInc:      40,
			MinY:         noise.MinY,
			MaxY:         noise.MaxY,
			Noise:        noise,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Info("No config file, using defaults", zap.String("path", path))
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logger.Log.Debug("Config loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TargetFPS <= 0 || c.Engine.TargetUPS <= 0 {
		return fmt.Errorf("targetFPS and targetUPS must be positive, got %d and %d", c.Engine.TargetFPS, c.Engine.TargetUPS)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	t := c.Terrain
	switch {
	case t.HeightMap == "" && t.Samples < 2:
		return fmt.Errorf("terrain: samples must be at least 2, got %d", t.Samples)
	case t.BlocksPerRow < 1:
		return fmt.Errorf("terrain: blocksPerRow must be positive, got %d", t.BlocksPerRow)
	case t.Scale <= 0:
		return fmt.Errorf("terrain: scale must be positive, got %v", t.Scale)
	case t.MaxY < t.MinY:
		return fmt.Errorf("terrain: maxY %v is below minY %v", t.MaxY, t.MinY)
	}
	return nil
}
