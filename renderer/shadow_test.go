package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"deferred-renderer/internal/gfx"
	"deferred-renderer/internal/gfx/gfxtest"
)

func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}

func TestShadowPass(t *testing.T) {
	dev := gfxtest.New()
	sp := NewShadowPass(dev, 0)

	// Default size, depth-only
	assert.Equal(t, DefaultShadowSize, sp.Size())
	depth := sp.Depth()
	assert.Equal(t, gfx.FormatDepth32F, depth.Format())
	assert.Equal(t, unitShadow, depth.Unit())
	assert.Equal(t, "ShadowDepth", depth.Name())
	draw := dev.Filter("DrawBuffers", "")
	require.NotEmpty(t, draw)
	assert.Empty(t, draw[len(draw)-1].Args[1])

	// Begin binds the map at its own resolution and clears depth
	sp.Begin()
	assert.Equal(t, depth.ID(), dev.Attached(dev.BoundFramebuffer(), gfx.Depth))
	w, h := dev.ViewportSize()
	assert.Equal(t, DefaultShadowSize, w)
	assert.Equal(t, DefaultShadowSize, h)
	assert.True(t, dev.DepthWrites())
	assert.True(t, dev.DepthTestEnabled())
	clears := dev.Filter("Clear", "")
	assert.Equal(t, gfx.ClearDepth, clears[len(clears)-1].Args[0])
	sp.End()
	assert.Zero(t, dev.BoundFramebuffer())

	sp.Release()
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LiveFramebuffers())
}

func TestShadowLightSpace(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dev := gfxtest.New()
	sp := NewShadowPass(dev, 256, WithLogger(zap.New(core)))
	assert.Equal(t, mgl32.Ident4(), sp.LightSpaceMatrix())

	centre := mgl32.Vec3{1, 0, -2}
	m := sp.LightSpace(mgl32.Vec3{-0.2, -1, -0.3}, centre)
	assert.Equal(t, m, sp.LightSpaceMatrix())

	// The volume centre lands in the middle of the map, halfway in depth
	c := m.Mul4x1(centre.Vec4(1))
	assert.InDelta(t, 0, c.X(), 1e-4)
	assert.InDelta(t, 0, c.Y(), 1e-4)
	assert.Greater(t, c.Z(), float32(-1))
	assert.Less(t, c.Z(), float32(1))

	// ClipToWorld undoes the light-space transform
	assertMat4InDelta(t, mgl32.Ident4(), sp.ClipToWorld().Mul4(m), 1e-4)

	// Straight down needs the alternate up vector
	down := sp.LightSpace(mgl32.Vec3{0, -5, 0}, mgl32.Vec3{})
	assert.False(t, down.ApproxEqual(mgl32.Mat4{}))
	assert.Zero(t, logs.Len())

	// Degenerate direction falls back to straight down
	fallback := sp.LightSpace(mgl32.Vec3{}, mgl32.Vec3{})
	assert.Equal(t, down, fallback)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "degenerate")
}
