package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-renderer/lights"
)

// LightConfig describes one light. Kind is "directional", "point" or
// "spot"; fields that do not apply to the kind are ignored.
type LightConfig struct {
	Kind        string     `toml:"kind" yaml:"kind"`
	Colour      [3]float32 `toml:"colour" yaml:"colour"`
	Position    [3]float32 `toml:"position" yaml:"position"`
	Direction   [3]float32 `toml:"direction" yaml:"direction"`
	InnerCutOff float32    `toml:"inner_cutoff" yaml:"inner_cutoff"`
	OuterCutOff float32    `toml:"outer_cutoff" yaml:"outer_cutoff"`
	Linear      float32    `toml:"linear" yaml:"linear"`
	Quadratic   float32    `toml:"quadratic" yaml:"quadratic"`
}

// Light builds the configured light.
func (lc LightConfig) Light() (lights.Light, error) {
	switch lc.Kind {
	case "directional":
		if mgl32.Vec3(lc.Direction).LenSqr() == 0 {
			return nil, errors.New("directional light needs a direction")
		}
		return &lights.Directional{
			Colour:    lc.Colour,
			Direction: lc.Direction,
		}, nil
	case "point":
		return &lights.Point{
			Colour:    lc.Colour,
			Position:  lc.Position,
			Linear:    lc.Linear,
			Quadratic: lc.Quadratic,
		}, nil
	case "spot":
		if lc.InnerCutOff > lc.OuterCutOff {
			return nil, fmt.Errorf("spot light inner_cutoff %g exceeds outer_cutoff %g", lc.InnerCutOff, lc.OuterCutOff)
		}
		return &lights.Spot{
			Colour:      lc.Colour,
			Position:    lc.Position,
			Direction:   lc.Direction,
			InnerCutOff: lc.InnerCutOff,
			OuterCutOff: lc.OuterCutOff,
			Linear:      lc.Linear,
			Quadratic:   lc.Quadratic,
		}, nil
	}
	return nil, fmt.Errorf("unknown light kind %q", lc.Kind)
}
