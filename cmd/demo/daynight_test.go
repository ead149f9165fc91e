package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSamplePalette(t *testing.T) {
	// Key frames are returned as-is
	p := samplePalette(0)
	assert.Equal(t, palettes[0].sunColour, p.sunColour)
	p = samplePalette(0.5)
	assert.Equal(t, palettes[3].sunIntensity, p.sunIntensity)

	// Halfway between dawn and noon across the wrap
	p = samplePalette(0.89)
	want := (palettes[4].sunIntensity + palettes[0].sunIntensity) / 2
	assert.InDelta(t, want, p.sunIntensity, 1e-4)
}

func TestDayNightUpdate(t *testing.T) {
	dn := NewDayNight()
	dn.Update(dn.Speed * 1.25)
	assert.InDelta(t, 0.25, dn.Time, 1e-5)

	dn.Active = false
	dn.Update(10)
	assert.InDelta(t, 0.25, dn.Time, 1e-5)

	assert.Equal(t, "12:00 PM", (&DayNight{Time: 0}).TimeOfDay())
	assert.Equal(t, "06:00 PM", (&DayNight{Time: 0.25}).TimeOfDay())
	assert.Equal(t, "12:00 AM", (&DayNight{Time: 0.5}).TimeOfDay())
}

func TestTitleHUD(t *testing.T) {
	hud := newTitleHUD("Demo", time.Second)
	start := time.Unix(100, 0)

	_, ok := hud.Frame(start)
	assert.False(t, ok)
	for i := 1; i < 59; i++ {
		hud.Frame(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	hud.Add("lights %d", 6)
	title, ok := hud.Frame(start.Add(2 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, "Demo | 30 fps | lights 6", title)
}
