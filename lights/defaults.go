package lights

import "github.com/go-gl/mathgl/mgl32"

// DefaultSet returns the stock test rig: a warm sun, four coloured point
// lights and a red spot meant to follow the camera. The spot is returned
// separately as the headlight.
func DefaultSet() ([]Light, *Spot) {
	headlight := &Spot{
		Colour:      mgl32.Vec3{1, 0.33, 0.33},
		Direction:   mgl32.Vec3{0, 0, -1},
		InnerCutOff: 12.5,
		OuterCutOff: 17.5,
		Linear:      0.1,
		Quadratic:   0.8,
	}

	set := []Light{
		&Directional{
			Colour:    mgl32.Vec3{0.85, 0.85, 0.75},
			Direction: mgl32.Vec3{-0.2, -1, -0.3},
		},
		headlight,
	}

	positions := []mgl32.Vec3{
		{1.5, 2, -2.5},
		{1.5, 0.2, -1.5},
		{-1.3, 1, -1.5},
		{1.5, 2, -1.5},
	}
	colours := []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{10, 5, 0},
	}
	for i, p := range positions {
		set = append(set, &Point{
			Colour:    colours[i],
			Position:  p,
			Linear:    0.7,
			Quadratic: 1.8,
		})
	}
	return set, headlight
}
