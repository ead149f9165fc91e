package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-renderer/lights"
	"deferred-renderer/renderer"
)

// dayPalette holds the sun and ambient values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	sunColour    mgl32.Vec3
	sunIntensity float32
	ambient      mgl32.Vec3
	ambientLevel float32
}

// palettes are ordered by t and wrap (0 == 1).
var palettes = []dayPalette{
	{ // noon
		t:            0.00,
		sunColour:    mgl32.Vec3{1.00, 0.98, 0.92},
		sunIntensity: 1.20,
		ambient:      mgl32.Vec3{0.80, 0.85, 1.00},
		ambientLevel: 0.08,
	},
	{ // golden hour
		t:            0.22,
		sunColour:    mgl32.Vec3{1.00, 0.65, 0.25},
		sunIntensity: 0.90,
		ambient:      mgl32.Vec3{0.70, 0.70, 0.90},
		ambientLevel: 0.06,
	},
	{ // dusk
		t:            0.30,
		sunColour:    mgl32.Vec3{0.70, 0.40, 0.55},
		sunIntensity: 0.25,
		ambient:      mgl32.Vec3{0.45, 0.50, 0.90},
		ambientLevel: 0.04,
	},
	{ // midnight, moonlight
		t:            0.50,
		sunColour:    mgl32.Vec3{0.40, 0.45, 0.65},
		sunIntensity: 0.12,
		ambient:      mgl32.Vec3{0.35, 0.40, 0.90},
		ambientLevel: 0.02,
	},
	{ // dawn
		t:            0.78,
		sunColour:    mgl32.Vec3{1.00, 0.60, 0.28},
		sunIntensity: 0.70,
		ambient:      mgl32.Vec3{0.60, 0.60, 0.85},
		ambientLevel: 0.05,
	},
}

// DayNight cycles the sun colour and the ambient term. The sun keeps its
// direction so the shadow map stays valid.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120, Active: true}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active {
		return
	}
	dn.Time += dt / dn.Speed
	for dn.Time >= 1 {
		dn.Time--
	}
}

// samplePalette interpolates the palettes around t.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	for i := range palettes {
		a, b := palettes[i], palettes[(i+1)%n]
		tb := b.t
		if i == n-1 {
			tb = 1
		}
		if t < a.t || t >= tb {
			continue
		}
		f := (t - a.t) / (tb - a.t)
		return dayPalette{
			t:            t,
			sunColour:    lerp(a.sunColour, b.sunColour, f),
			sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
			ambient:      lerp(a.ambient, b.ambient, f),
			ambientLevel: a.ambientLevel + (b.ambientLevel-a.ambientLevel)*f,
		}
	}
	return palettes[0]
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 { return a.Add(b.Sub(a).Mul(t)) }

// Apply pushes the current palette to the sun and the lighting pass. sun
// may be nil.
func (dn *DayNight) Apply(lp *renderer.LightingPass, sun *lights.Directional) {
	p := samplePalette(dn.Time)
	if sun != nil {
		sun.Colour = p.sunColour.Mul(p.sunIntensity)
	}
	lp.SetAmbient(p.ambientLevel, p.ambient)
}

// TimeOfDay returns a clock label for the cycle position.
func (dn *DayNight) TimeOfDay() string {
	// Time 0 is noon
	minutes := int((dn.Time*24+12)*60) % (24 * 60)
	h, m := minutes/60, minutes%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	if h%12 == 0 {
		return fmt.Sprintf("12:%02d %s", m, period)
	}
	return fmt.Sprintf("%02d:%02d %s", h%12, m, period)
}
