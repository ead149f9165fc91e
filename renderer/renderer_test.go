package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-renderer/config"
	"deferred-renderer/internal/gfx"
	"deferred-renderer/internal/gfx/gfxtest"
	"deferred-renderer/lights"
)

// fakeScene draws one triangle into whatever target is bound and records
// where it was asked to draw.
type fakeScene struct {
	dev *gfxtest.Recorder

	geometryFBO uint32
	view        mgl32.Mat4
	depthFBO    uint32
	lightSpace  mgl32.Mat4
}

func (s *fakeScene) RenderGeometry(view, projection mgl32.Mat4) {
	s.geometryFBO = s.dev.BoundFramebuffer()
	s.view = view
	s.dev.DrawArrays(gfx.Triangles, 0, 3)
}

func (s *fakeScene) RenderDepth(lightSpace mgl32.Mat4) {
	s.depthFBO = s.dev.BoundFramebuffer()
	s.lightSpace = lightSpace
	s.dev.DrawArrays(gfx.Triangles, 0, 6)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Skybox.Size = 4
	cfg.Shadow.Size = 64
	return cfg
}

func TestPipelineNew(t *testing.T) {
	dev := gfxtest.New()
	p, err := New(dev, testConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, p.Shadow)

	// Default lights and headlight
	assert.Equal(t, lights.Counts{Directional: 1, Point: 4, Spot: 1}, p.Lighting.Lights().Counts())

	// Hand-offs
	gb := p.Lighting.GBuffer()
	assert.Equal(t, gb.Texture(gfx.DepthStencil).ID(), dev.Attached(p.HDR.Input().ID(), gfx.DepthStencil))
	assert.Equal(t, gb.Texture(gfx.Colour1).ID(), dev.Attached(p.FXAA.Input().ID(), gfx.Colour0))
	assert.Equal(t, p.HDR.InputColour(), p.Bloom.colourIn)
	assert.Equal(t, p.HDR.Bright(), p.Bloom.brightIn)
	assert.Equal(t, p.FXAA.Input(), p.Bloom.output)

	// Parameters from config
	assert.Equal(t, float32(1.0), p.HDR.Threshold)
	assert.Equal(t, 4, p.Bloom.Passes)
	assert.Equal(t, float32(20), p.Shadow.HalfExtent)
	assert.Equal(t, 64, p.Shadow.Size())
	assert.NotEqual(t, mgl32.Ident4(), p.Shadow.LightSpaceMatrix())

	// Cubemap from the gradient sky
	sky := p.Lighting.Skybox().Texture()
	assert.Equal(t, gfx.TextureCube, sky.Kind())
	w, _ := sky.Size()
	assert.Equal(t, 4, w)
}

func TestPipelineConfigLights(t *testing.T) {
	cfg := testConfig()
	cfg.Lighting.DefaultLights = false
	cfg.Lighting.Lights = []config.LightConfig{
		{Kind: "point", Colour: [3]float32{1, 1, 1}, Linear: 0.1, Quadratic: 0.2},
		{Kind: "directional", Direction: [3]float32{0, -1, 0}},
	}
	cfg.Shadow.Enabled = false

	dev := gfxtest.New()
	p, err := New(dev, cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Shadow)
	assert.Equal(t, lights.Counts{Directional: 1, Point: 1}, p.Lighting.Lights().Counts())
}

func TestPipelineRenderFrame(t *testing.T) {
	dev := gfxtest.New()
	p, err := New(dev, testConfig(), nil)
	require.NoError(t, err)
	scene := &fakeScene{dev: dev}
	cam := NewCamera(mgl32.Vec3{0, 2, 6}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 45, 800.0/600.0, 0.1, 100)

	dev.Reset()
	p.RenderFrame(cam, scene, scene)
	assert.Equal(t, uint64(1), p.Frames())

	// Each stage drew into its own target
	assert.NotZero(t, scene.depthFBO)
	assert.Equal(t, p.Shadow.LightSpaceMatrix(), scene.lightSpace)
	assert.Equal(t, p.Lighting.GBuffer().ID(), scene.geometryFBO)
	assert.Equal(t, cam.View, scene.view)

	draws := dev.Draws()
	require.Len(t, draws, 15)
	assert.Equal(t, scene.depthFBO, draws[0].Framebuffer)
	assert.Equal(t, 6, draws[0].Count)
	assert.Equal(t, scene.geometryFBO, draws[1].Framebuffer)
	assert.Equal(t, 3, draws[1].Count)

	progs := make([]string, 0, len(draws)-2)
	for _, d := range draws[2:] {
		progs = append(progs, d.Program)
	}
	assert.Equal(t, []string{
		"lighting", "skybox", "hdr",
		"bloom.blur", "bloom.blur", "bloom.blur", "bloom.blur",
		"bloom.blur", "bloom.blur", "bloom.blur", "bloom.blur",
		"bloom.composite", "fxaa",
	}, progs)
	assert.Equal(t, p.HDR.Input().ID(), draws[2].Framebuffer)
	assert.Equal(t, p.HDR.Input().ID(), draws[3].Framebuffer)
	assert.Equal(t, p.FXAA.Input().ID(), draws[13].Framebuffer)
	assert.Equal(t, uint32(0), draws[14].Framebuffer)

	// Lighting saw the shadow map and the camera
	u := dev.Uniforms("lighting")
	assert.Equal(t, int32(1), u["shadowEnabled"])
	assert.Equal(t, int32(unitShadow), u["gShadowMap"])
	require.IsType(t, mgl32.Mat4{}, u["lightToViewMtx"])
	assertMat4InDelta(t, p.Shadow.LightSpaceMatrix(), u["lightToViewMtx"].(mgl32.Mat4), 1e-3)
	assert.Equal(t, cam.Position, u["viewPos"])
	assert.Equal(t, mgl32.Vec3{1, 4, 1}, u[lights.CountUniform])

	// Depth writes are back on for the next frame
	assert.True(t, dev.DepthWrites())
	assert.True(t, dev.DepthTestEnabled())

	// No caster: shadows off for the frame
	p.RenderFrame(cam, scene, nil)
	v, _ := dev.Uniform("lighting", "shadowEnabled")
	assert.Equal(t, int32(0), v)
}

func TestPipelineRelease(t *testing.T) {
	dev := gfxtest.New()
	p, err := New(dev, testConfig(), nil)
	require.NoError(t, err)
	p.RenderFrame(NewCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 45, 1, 0.1, 10), nil, nil)

	p.Release()
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LiveFramebuffers())
	assert.Zero(t, dev.LivePrograms())

	// Shadow goes first, lighting last
	shadowDel := dev.Index(0, "DeleteTexture", "ShadowDepth")
	gbufDel := dev.Index(0, "DeleteTexture", "gBufDepth")
	require.Positive(t, shadowDel)
	assert.Less(t, shadowDel, gbufDel)
	assert.Less(t, dev.Index(0, "DeleteProgram", "fxaa"), dev.Index(0, "DeleteProgram", "hdr"))
	assert.Less(t, dev.Index(0, "DeleteProgram", "hdr"), dev.Index(0, "DeleteProgram", "lighting"))
}

func TestPipelineNewErrors(t *testing.T) {
	// A failing pass releases what was built before it
	dev := gfxtest.New()
	dev.FailProgram = "bloom.blur"
	_, err := New(dev, testConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bloom")
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LiveFramebuffers())
	assert.Zero(t, dev.LivePrograms())

	dev = gfxtest.New()
	dev.FailProgram = "lighting"
	_, err = New(dev, testConfig(), nil)
	require.Error(t, err)
	assert.Zero(t, dev.LiveTextures())

	dev = gfxtest.New()
	dev.FailCubemap = true
	_, err = New(dev, testConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skybox")

	// Invalid config never reaches the device
	dev = gfxtest.New()
	cfg := testConfig()
	cfg.Viewport.Width = 0
	_, err = New(dev, cfg, nil)
	require.Error(t, err)
	assert.Empty(t, dev.Calls)

	cfg = testConfig()
	cfg.Lighting.Lights = []config.LightConfig{{Kind: "area"}}
	_, err = New(gfxtest.New(), cfg, nil)
	assert.ErrorContains(t, err, "area")
}
