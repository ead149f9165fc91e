package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-renderer/lights"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Viewport.Width)
	assert.Equal(t, 600, cfg.Viewport.Height)
	assert.Equal(t, float32(0.05), cfg.Lighting.AmbientIntensity)
	assert.True(t, cfg.Lighting.DefaultLights)
	assert.Equal(t, 2048, cfg.Shadow.Size)
	assert.Equal(t, 4, cfg.Bloom.Passes)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "render.toml", `
[viewport]
width = 1280
height = 720

[lighting]
default_lights = false

[[lighting.lights]]
kind = "spot"
colour = [1.0, 1.0, 1.0]
position = [0.0, 2.0, 0.0]
direction = [0.0, -1.0, 0.0]
inner_cutoff = 10.0
outer_cutoff = 15.0

[bloom]
passes = 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, 720, cfg.Viewport.Height)
	assert.False(t, cfg.Lighting.DefaultLights)
	assert.Equal(t, 2, cfg.Bloom.Passes)

	// Untouched sections keep their defaults
	assert.Equal(t, float32(0.6), cfg.Bloom.Strength)
	assert.True(t, cfg.Shadow.Enabled)

	require.Len(t, cfg.Lighting.Lights, 1)
	l, err := cfg.Lighting.Lights[0].Light()
	require.NoError(t, err)
	spot, ok := l.(*lights.Spot)
	require.True(t, ok)
	assert.Equal(t, float32(15), spot.OuterCutOff)
	assert.Equal(t, lights.KindSpot, spot.Kind())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "render.yml", `
hdr:
  threshold: 2.5
skybox:
  dir: sky
log:
  level: debug
  development: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), cfg.HDR.Threshold)
	assert.Equal(t, "sky", cfg.Skybox.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, 800, cfg.Viewport.Width)
}

func TestLoadErrors(t *testing.T) {
	// Unknown extension
	_, err := Load(writeFile(t, "render.json", "{}"))
	assert.ErrorContains(t, err, "unsupported extension")

	// Missing file
	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Unknown keys are rejected
	_, err = Load(writeFile(t, "render.toml", "[viewport]\ndepth = 3\n"))
	assert.Error(t, err)
	_, err = Load(writeFile(t, "render.yaml", "viewport:\n  depth: 3\n"))
	assert.Error(t, err)

	// Validation runs after decoding
	_, err = Load(writeFile(t, "render.toml", "[shadow]\nnear = 5.0\nfar = 1.0\n"))
	assert.ErrorContains(t, err, "near < far")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Viewport.Width = 0
	cfg.Bloom.Exposure = 0
	cfg.Lighting.Lights = []LightConfig{{Kind: "laser"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "viewport")
	assert.ErrorContains(t, err, "exposure")
	assert.ErrorContains(t, err, `lights[0]: unknown light kind "laser"`)

	// Disabled shadows skip their checks
	cfg = Default()
	cfg.Shadow = Shadow{}
	assert.NoError(t, cfg.Validate())

	// A skybox directory makes the gradient size optional
	cfg = Default()
	cfg.Skybox.Size = 0
	assert.Error(t, cfg.Validate())
	cfg.Skybox.Dir = "sky"
	assert.NoError(t, cfg.Validate())
}

func TestLightConfig(t *testing.T) {
	l, err := LightConfig{Kind: "directional", Direction: [3]float32{0, -1, 0}}.Light()
	require.NoError(t, err)
	assert.Equal(t, lights.KindDirectional, l.Kind())

	l, err = LightConfig{Kind: "point", Linear: 0.7, Quadratic: 1.8}.Light()
	require.NoError(t, err)
	assert.Equal(t, float32(1.8), l.(*lights.Point).Quadratic)

	_, err = LightConfig{Kind: "directional"}.Light()
	assert.Error(t, err)
	_, err = LightConfig{Kind: "spot", InnerCutOff: 20, OuterCutOff: 10}.Light()
	assert.ErrorContains(t, err, "exceeds")
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.toml", "out.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := Default()
		cfg.Bloom.Passes = 7
		cfg.Lighting.Lights = []LightConfig{{Kind: "point", Colour: [3]float32{1, 0, 0}}}
		require.NoError(t, Save(cfg, path))

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, got, name)
	}
	assert.Error(t, Save(Default(), filepath.Join(t.TempDir(), "out.ini")))
}

func TestLoadShippedConfigs(t *testing.T) {
	cfg, err := Load("../configs/demo.toml")
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, float32(12), cfg.Shadow.HalfExtent)
	require.Len(t, cfg.Lighting.Lights, 1)
	assert.Equal(t, "point", cfg.Lighting.Lights[0].Kind)

	cfg, err = Load("../configs/demo.yaml")
	require.NoError(t, err)
	assert.False(t, cfg.Shadow.Enabled)
	assert.False(t, cfg.Lighting.Headlight)
	assert.Equal(t, 6, cfg.Bloom.Passes)
	assert.Equal(t, 800, cfg.Viewport.Width)
}
