package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type WindowConfig struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
}

// ModelPaths are relative to the assets directory unless absolute.
type ModelPaths struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
	Tertiary  string `toml:"tertiary"`
}

type LightConfig struct {
	Direction [4]float32 `toml:"direction"`
	Ambient   [4]float32 `toml:"ambient"`
	Diffuse   [4]float32 `toml:"diffuse"`
	Specular  [4]float32 `toml:"specular"`
}

type Config struct {
	Window  WindowConfig `toml:"window"`
	Assets  string       `toml:"assets"`
	Shaders []string     `toml:"shaders"`
	Models  ModelPaths   `toml:"models"`
	Light   LightConfig  `toml:"light"`
	Watch   bool         `toml:"watch"`
	Debug   bool         `toml:"debug"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  600,
			Height: 600,
			Title:  "Viewer",
		},
		Assets: "assets",
		Shaders: []string{
			"normalmapping",
			"texture",
			"blinnphong",
			"phong",
			"gouraud",
			"normal",
			"depth",
		},
		Models: ModelPaths{
			Primary:   "CobbleStones2.obj",
			Secondary: "12248_Bird_v1_L2.obj",
			Tertiary:  "10602_Rubber_Duck_v1_L3.obj",
		},
		Light: LightConfig{
			Direction: [4]float32{-1, -1, -1, 0},
			Ambient:   [4]float32{1, 1, 1, 1},
			Diffuse:   [4]float32{1, 1, 1, 1},
			Specular:  [4]float32{1, 1, 1, 1},
		},
	}
}

// Load reads a TOML file on top of the defaults. A missing file is not an
// error: the defaults are returned as is. The result is not validated, so
// callers can apply overrides first and call Validate once.
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
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Shaders) == 0 {
		return errors.New("at least one shader is required")
	}
	if c.Assets == "" {
		return errors.New("assets directory is empty")
	}
	return nil
}

// AssetPath resolves name against the assets directory. Absolute paths are
// returned unchanged.
func (c Config) AssetPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Assets, name)
}

// ShaderPaths returns the vertex and fragment source paths of a program.
func (c Config) ShaderPaths(name string) (vert, frag string) {
	base := filepath.Join(c.Assets, "shaders", name)
	return base + ".vert", base + ".frag"
}
