// Package config reads the TOML settings shared by the layerstack tools.
//
//	[viewport]
//	width = 1280
//	height = 800
//
//	[parallax]
//	max_rotation = 60
//	max_layer_offset = 4
//
//	[destroy]
//	timeout = "750ms"
//
//	[render]
//	layer_spacing = 12
//	tilt = 0.5
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"layerstack/pkg/layerstack"
	"layerstack/pkg/parallax"
	"layerstack/pkg/render"
)

type Config struct {
	Viewport Viewport `toml:"viewport"`
	Parallax Parallax `toml:"parallax"`
	Destroy  Destroy  `toml:"destroy"`
	Render   Render   `toml:"render"`
}

type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type Parallax struct {
	MaxRotation    float64 `toml:"max_rotation"`
	MinRotation    float64 `toml:"min_rotation"`
	MaxLayerOffset float64 `toml:"max_layer_offset"`
	MinLayerOffset float64 `toml:"min_layer_offset"`
}

type Destroy struct {
	Timeout Duration `toml:"timeout"`
}

type Render struct {
	LayerSpacing float64 `toml:"layer_spacing"`
	Tilt         float64 `toml:"tilt"`
}

// Duration reads strings such as "750ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	p := parallax.DefaultConfig()
	return Config{
		Viewport: Viewport{Width: 1280, Height: 800},
		Parallax: Parallax{
			MaxRotation:    p.MaxRotation,
			MinRotation:    p.MinRotation,
			MaxLayerOffset: p.MaxLayerOffset,
			MinLayerOffset: p.MinLayerOffset,
		},
		Destroy: Destroy{Timeout: Duration{750 * time.Millisecond}},
		Render:  Render{LayerSpacing: 12, Tilt: 0.5},
	}
}

// Decode overlays the settings in text on the defaults. Unknown keys are
// an error.
func Decode(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.Viewport.Width < 0 || cfg.Viewport.Height < 0 {
		return cfg, fmt.Errorf("config: negative viewport %gx%g", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	return cfg, nil
}

// Load reads and decodes a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	return Decode(string(data))
}

// ProjectorConfig returns the parallax ranges.
func (c Config) ProjectorConfig() parallax.Config {
	return parallax.Config{
		MaxRotation:    c.Parallax.MaxRotation,
		MinRotation:    c.Parallax.MinRotation,
		MaxLayerOffset: c.Parallax.MaxLayerOffset,
		MinLayerOffset: c.Parallax.MinLayerOffset,
	}
}

// StackOptions returns the options for layerstack.Create.
func (c Config) StackOptions() layerstack.Options {
	return layerstack.Options{
		Projector:      c.ProjectorConfig(),
		DestroyTimeout: c.Destroy.Timeout.Duration,
	}
}

// RenderOptions returns the projection settings for render.NewRenderer.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		LayerSpacing: c.Render.LayerSpacing,
		Tilt:         c.Render.Tilt,
	}
}
