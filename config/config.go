// Package config holds the renderer settings and loads them from TOML or
// YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the full renderer configuration.
type Config struct {
	Window   Window   `toml:"window" yaml:"window"`
	Viewport Viewport `toml:"viewport" yaml:"viewport"`
	Lighting Lighting `toml:"lighting" yaml:"lighting"`
	Shadow   Shadow   `toml:"shadow" yaml:"shadow"`
	HDR      HDR      `toml:"hdr" yaml:"hdr"`
	Bloom    Bloom    `toml:"bloom" yaml:"bloom"`
	Skybox   Skybox   `toml:"skybox" yaml:"skybox"`
	Log      Log      `toml:"log" yaml:"log"`
}

// Window describes the demo window.
type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

// Viewport is the render resolution. It is read once when the pipeline is
// built.
type Viewport struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// Lighting configures the ambient term and the light set.
type Lighting struct {
	AmbientIntensity float32    `toml:"ambient_intensity" yaml:"ambient_intensity"`
	AmbientColour    [3]float32 `toml:"ambient_colour" yaml:"ambient_colour"`
	// DefaultLights adds the stock test rig before Lights.
	DefaultLights bool `toml:"default_lights" yaml:"default_lights"`
	// Headlight makes the stock spot light follow the camera.
	Headlight bool          `toml:"headlight" yaml:"headlight"`
	Lights    []LightConfig `toml:"lights" yaml:"lights"`
}

// Shadow configures the directional shadow map.
type Shadow struct {
	Enabled    bool       `toml:"enabled" yaml:"enabled"`
	Size       int        `toml:"size" yaml:"size"`
	HalfExtent float32    `toml:"half_extent" yaml:"half_extent"`
	Near       float32    `toml:"near" yaml:"near"`
	Far        float32    `toml:"far" yaml:"far"`
	Direction  [3]float32 `toml:"direction" yaml:"direction"`
	Centre     [3]float32 `toml:"centre" yaml:"centre"`
}

// HDR configures the bright pass.
type HDR struct {
	Threshold float32 `toml:"threshold" yaml:"threshold"`
}

// Bloom configures blur and tone mapping.
type Bloom struct {
	Passes   int     `toml:"passes" yaml:"passes"`
	Exposure float32 `toml:"exposure" yaml:"exposure"`
	Strength float32 `toml:"strength" yaml:"strength"`
}

// Skybox selects the cubemap source. Dir, when set, holds the six face
// images; otherwise a gradient sky of Size texels per face is generated.
type Skybox struct {
	Dir     string     `toml:"dir" yaml:"dir"`
	Size    int        `toml:"size" yaml:"size"`
	Zenith  [3]float32 `toml:"zenith" yaml:"zenith"`
	Horizon [3]float32 `toml:"horizon" yaml:"horizon"`
	Ground  [3]float32 `toml:"ground" yaml:"ground"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// Default returns the stock configuration: 800×600, the default light rig
// with a headlight, shadows on and a gradient sky.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "Deferred Renderer",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Viewport: Viewport{Width: 800, Height: 600},
		Lighting: Lighting{
			AmbientIntensity: 0.05,
			AmbientColour:    [3]float32{1, 1, 1},
			DefaultLights:    true,
			Headlight:        true,
		},
		Shadow: Shadow{
			Enabled:    true,
			Size:       2048,
			HalfExtent: 20,
			Near:       0.1,
			Far:        60,
			Direction:  [3]float32{-0.2, -1, -0.3},
		},
		HDR:   HDR{Threshold: 1.0},
		Bloom: Bloom{Passes: 4, Exposure: 1.0, Strength: 0.6},
		Skybox: Skybox{
			Size:    256,
			Zenith:  [3]float32{0.10, 0.30, 0.70},
			Horizon: [3]float32{0.60, 0.80, 1.00},
			Ground:  [3]float32{0.30, 0.25, 0.20},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, encoded by extension like Load.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport: size %dx%d must be positive", c.Viewport.Width, c.Viewport.Height))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Lighting.AmbientIntensity < 0 {
		errs = append(errs, errors.New("lighting: ambient_intensity must not be negative"))
	}
	for i, l := range c.Lighting.Lights {
		if _, err := l.Light(); err != nil {
			errs = append(errs, fmt.Errorf("lighting: lights[%d]: %w", i, err))
		}
	}
	if c.Shadow.Enabled {
		if c.Shadow.Size <= 0 {
			errs = append(errs, errors.New("shadow: size must be positive"))
		}
		if c.Shadow.HalfExtent <= 0 {
			errs = append(errs, errors.New("shadow: half_extent must be positive"))
		}
		if c.Shadow.Near <= 0 || c.Shadow.Far <= c.Shadow.Near {
			errs = append(errs, fmt.Errorf("shadow: need 0 < near < far, got %g, %g", c.Shadow.Near, c.Shadow.Far))
		}
	}
	if c.HDR.Threshold < 0 {
		errs = append(errs, errors.New("hdr: threshold must not be negative"))
	}
	if c.Bloom.Passes < 0 {
		errs = append(errs, errors.New("bloom: passes must not be negative"))
	}
	if c.Bloom.Exposure <= 0 {
		errs = append(errs, errors.New("bloom: exposure must be positive"))
	}
	if c.Skybox.Dir == "" && c.Skybox.Size <= 0 {
		errs = append(errs, errors.New("skybox: size must be positive when no dir is set"))
	}
	return errors.Join(errs...)
}
