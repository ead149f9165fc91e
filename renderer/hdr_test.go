package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-renderer/internal/gfx"
	"deferred-renderer/internal/gfx/gfxtest"
)

func TestHDRSetDepthBuffer(t *testing.T) {
	dev := gfxtest.New()
	h, err := NewHDRPass(dev, 800, 600)
	require.NoError(t, err)
	in := h.Input().ID()
	d1 := depthTexture(dev, "depth1", gfx.FormatDepth24Stencil8)
	d2 := depthTexture(dev, "depth2", gfx.FormatDepth24Stencil8)

	// First call attaches and verifies
	status := dev.Count("FramebufferStatus")
	h.SetDepthBuffer(d1, true)
	assert.Equal(t, 1, dev.AttachCount(in, gfx.DepthStencil))
	assert.Equal(t, d1.ID(), dev.Attached(in, gfx.DepthStencil))
	assert.Equal(t, status+1, dev.Count("FramebufferStatus"))

	// Same texture: nothing happens
	dev.Reset()
	h.SetDepthBuffer(d1, true)
	assert.Equal(t, 1, dev.AttachCount(in, gfx.DepthStencil))
	assert.Empty(t, dev.Calls)

	// Different texture replaces and re-verifies
	h.SetDepthBuffer(d2, true)
	assert.Equal(t, 2, dev.AttachCount(in, gfx.DepthStencil))
	assert.Equal(t, d2.ID(), dev.Attached(in, gfx.DepthStencil))
	assert.Equal(t, 1, dev.Count("FramebufferStatus"))
	assert.NotZero(t, d1.ID(), "borrowed depth is not released on replace")

	// Depth-only texture moves to the depth slot
	d3 := depthTexture(dev, "depth3", gfx.FormatDepth32F)
	h.SetDepthBuffer(d3, false)
	assert.Zero(t, dev.Attached(in, gfx.DepthStencil))
	assert.Equal(t, d3.ID(), dev.Attached(in, gfx.Depth))

	// Wiring bugs
	requireConfigPanic(t, gfx.ErrNilTexture, func() { h.SetDepthBuffer(nil, true) })
	requireConfigPanic(t, gfx.ErrIncompatibleFormat, func() { h.SetDepthBuffer(d3, true) })

	h.Release()
	assert.Equal(t, 3, dev.LiveTextures(), "shared depth textures stay with their owner")
}

func TestHDRRender(t *testing.T) {
	dev := gfxtest.New()
	h, err := NewHDRPass(dev, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, gfx.FormatRGB16F, h.InputColour().Format())
	assert.Equal(t, gfx.FormatRGBA16F, h.Bright().Format())
	v, _ := dev.Uniform("hdr", "texInColour")
	assert.Equal(t, int32(unitHDRColour), v)

	dev.Enable(gfx.DepthTest)
	h.Threshold = 1.5
	h.BindHDRBuffer()
	assert.Equal(t, h.Input().ID(), dev.BoundFramebuffer())

	h.BeforeRender()
	assert.False(t, dev.DepthTestEnabled())
	h.Render()
	h.AfterRender()
	assert.True(t, dev.DepthTestEnabled())

	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "hdr", draws[0].Program)
	assert.Equal(t, 4, draws[0].Count)
	assert.False(t, draws[0].DepthTest)
	assert.NotEqual(t, h.Input().ID(), draws[0].Framebuffer)
	v, _ = dev.Uniform("hdr", "threshold")
	assert.Equal(t, float32(1.5), v)
}

func TestBloomRender(t *testing.T) {
	dev := gfxtest.New()
	b, err := NewBloomPass(dev, 800, 600)
	require.NoError(t, err)

	// Missing hand-offs
	requireConfigPanic(t, gfx.ErrMissingHandOff, b.Render)

	h, err := NewHDRPass(dev, 800, 600)
	require.NoError(t, err)
	h.SetBloomRenderer(b)
	requireConfigPanic(t, gfx.ErrMissingHandOff, b.Render)

	out := gfx.NewTarget(dev, "out", 800, 600)
	out.Allocate(gfx.AttachmentSpec{Slot: gfx.Colour0, Format: gfx.FormatRGBA8})
	out.SetDrawBuffers(gfx.Colour0)
	b.SetOutput(out)

	// Two blur pairs then one composite
	dev.Reset()
	b.Passes = 2
	b.Render()
	draws := dev.Draws()
	require.Len(t, draws, 5)
	for _, d := range draws[:4] {
		assert.Equal(t, "bloom.blur", d.Program)
	}
	assert.Equal(t, "bloom.composite", draws[4].Program)
	assert.Equal(t, out.ID(), draws[4].Framebuffer)

	blur := dev.Filter("Uniform2f", "texelDir")
	require.Len(t, blur, 4)
	assert.Equal(t, mgl32.Vec2{1.0 / 400, 0}, blur[0].Args[1])
	assert.Equal(t, mgl32.Vec2{0, 1.0 / 300}, blur[1].Args[1])

	u := dev.Uniforms("bloom.composite")
	assert.Equal(t, float32(DefaultExposure), u["exposure"])
	assert.Equal(t, float32(DefaultBloomStrength), u["bloomStrength"])
	assert.Equal(t, int32(unitHDRColour), u["hdrBuffer"])
	assert.Equal(t, int32(unitBloom), u["bloomTex"])

	// No blur composites the bright texture directly
	dev.Reset()
	b.Passes = 0
	b.Render()
	draws = dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "bloom.composite", draws[0].Program)
	assert.Positive(t, dev.Index(0, "BindTexture", "HDRBright"))

	b.Release()
	h.Release()
	out.Release()
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LiveFramebuffers())
	assert.Zero(t, dev.LivePrograms())
}

func TestFXAARender(t *testing.T) {
	dev := gfxtest.New()
	f, err := NewFXAAPass(dev, 800, 600)
	require.NoError(t, err)
	v, _ := dev.Uniform("fxaa", "texelSize")
	assert.Equal(t, mgl32.Vec2{1.0 / 800, 1.0 / 600}, v)

	// Input not handed off yet
	requireConfigPanic(t, gfx.ErrMissingHandOff, f.Render)
	requireConfigPanic(t, gfx.ErrNilTexture, func() { f.SetColourInputTex(nil) })

	lp := newTestLighting(t, dev)
	lp.SetFXAARenderer(f)
	albedo := lp.GBuffer().Texture(gfx.Colour1)
	assert.Equal(t, albedo.ID(), dev.Attached(f.Input().ID(), gfx.Colour0))
	assert.False(t, f.Input().Owns(gfx.Colour0))
	v, _ = dev.Uniform("fxaa", "texInColour")
	assert.Equal(t, int32(unitGAlbedoSpec), v)

	f.BindInputBuffer()
	assert.Equal(t, f.Input().ID(), dev.BoundFramebuffer())

	dev.Reset()
	f.Render()
	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "fxaa", draws[0].Program)
	assert.Equal(t, uint32(0), draws[0].Framebuffer)
	w, h := dev.ViewportSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	// Releasing FXAA leaves the borrowed albedo alive
	f.Release()
	assert.NotZero(t, albedo.ID())
	assert.Equal(t, 4, dev.LiveTextures())
}
