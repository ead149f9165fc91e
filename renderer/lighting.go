package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
	"deferred-renderer/lights"
)

// Sampler units of the G-buffer and the shadow map.
const (
	unitGNormal     = 0
	unitGAlbedoSpec = 1
	unitGDepth      = 2
	unitShadow      = 3
	unitSkybox      = 4
)

// Default ambient term.
const DefaultAmbientIntensity = 0.05

var DefaultAmbientColour = mgl32.Vec3{1, 1, 1}

// LightingPass owns the G-buffer and composites it into a lit colour buffer
// with one full-screen quad, then draws the skybox behind the scene.
//
// Frame protocol: BindGBuffer, external geometry pass, SetCamera, bind the
// destination (HDRPass.BindHDRBuffer), BeforeRender, Render, AfterRender.
type LightingPass struct {
	dev    gfx.Device
	log    *zap.Logger
	width  int
	height int

	gbuffer    *gfx.Target
	normal     *gfx.Texture
	albedoSpec *gfx.Texture
	depth      *gfx.Texture

	program *gfx.Program
	quad    *gfx.Mesh
	skybox  *Skybox

	lights    *lights.Registry
	headlight *lights.Spot

	ambientIntensity float32
	ambientColour    mgl32.Vec3

	camera Camera

	shadowTex        *gfx.Texture
	shadowLightSpace mgl32.Mat4
	shadowInverse    mgl32.Mat4
}

// NewLightingPass allocates a width×height G-buffer and compiles the
// lighting and skybox shaders. It takes ownership of skyCubemap.
func NewLightingPass(dev gfx.Device, width, height int, skyCubemap *gfx.Texture, opts ...Option) (*LightingPass, error) {
	o := buildOptions(opts)

	prog, err := gfx.NewProgram(dev, "lighting", quadVertSrc, lightingFragSrc)
	if err != nil {
		return nil, err
	}
	sky, err := NewSkybox(dev, skyCubemap)
	if err != nil {
		prog.Release()
		return nil, err
	}

	lp := &LightingPass{
		dev:              dev,
		log:              o.log,
		width:            width,
		height:           height,
		program:          prog,
		quad:             newQuad(dev),
		skybox:           sky,
		lights:           lights.NewRegistry(o.log),
		ambientIntensity: DefaultAmbientIntensity,
		ambientColour:    DefaultAmbientColour,
		camera: Camera{
			View:       mgl32.Ident4(),
			Projection: mgl32.Ident4(),
			Direction:  mgl32.Vec3{0, 0, -1},
		},
	}
	lp.setUpGBuffer()

	prog.Bind()
	prog.SetSampler("gNormal", lp.normal)
	prog.SetSampler("gAlbedoSpec", lp.albedoSpec)
	prog.SetSampler("gDepth", lp.depth)
	prog.SetInt("shadowEnabled", 0)

	lp.log.Debug("lighting pass created", zap.Int("width", width), zap.Int("height", height))
	return lp, nil
}

// setUpGBuffer allocates the three G-buffer attachments:
// normals (RGBA16F), albedo + specular (RGBA8) and depth-stencil.
func (lp *LightingPass) setUpGBuffer() {
	lp.gbuffer = gfx.NewTarget(lp.dev, "gbuffer", lp.width, lp.height)
	tex := lp.gbuffer.Allocate(
		gfx.AttachmentSpec{Slot: gfx.Colour0, Format: gfx.FormatRGBA16F, Unit: unitGNormal, Name: "gBufNormal"},
		gfx.AttachmentSpec{Slot: gfx.Colour1, Format: gfx.FormatRGBA8, Unit: unitGAlbedoSpec, Linear: true, Name: "gBufAlbedoSpec"},
		gfx.AttachmentSpec{Slot: gfx.DepthStencil, Format: gfx.FormatDepth24Stencil8, Unit: unitGDepth, Name: "gBufDepth"},
	)
	lp.normal, lp.albedoSpec, lp.depth = tex[0], tex[1], tex[2]
	lp.gbuffer.SetDrawBuffers(gfx.Colour0, gfx.Colour1)
	lp.gbuffer.Verify()
	lp.gbuffer.Unbind()
}

// Lights returns the registry packed into the shader every frame.
func (lp *LightingPass) Lights() *lights.Registry { return lp.lights }

// GBuffer returns the geometry target.
func (lp *LightingPass) GBuffer() *gfx.Target { return lp.gbuffer }

// Skybox returns the skybox sub-pass.
func (lp *LightingPass) Skybox() *Skybox { return lp.skybox }

// SetCamera sets the camera used for the next Render.
func (lp *LightingPass) SetCamera(cam Camera) { lp.camera = cam }

// SetAmbient sets the ambient term.
func (lp *LightingPass) SetAmbient(intensity float32, colour mgl32.Vec3) {
	lp.ambientIntensity = intensity
	lp.ambientColour = colour
}

// SetHeadlight makes spot follow the camera position and direction on every
// Render. The spot must also be registered to be lit. nil stops following.
func (lp *LightingPass) SetHeadlight(spot *lights.Spot) { lp.headlight = spot }

// BindGBuffer binds the G-buffer for the geometry pass. The depth-stencil is
// re-attached every call since the HDR target shares it.
func (lp *LightingPass) BindGBuffer() {
	lp.gbuffer.Reattach(gfx.DepthStencil, lp.depth)
	lp.gbuffer.Bind()
}

// BeforeRender clears the bound colour target and disables depth writes so
// the quad leaves the shared depth buffer intact.
func (lp *LightingPass) BeforeRender() {
	lp.dev.Clear(gfx.ClearColour)
	lp.dev.DepthMask(false)
}

// Render shades the G-buffer into the bound target, then draws the skybox.
func (lp *LightingPass) Render() {
	lp.program.Bind()

	lp.normal.Bind()
	lp.albedoSpec.Bind()
	lp.depth.Bind()

	if lp.shadowTex != nil {
		lp.shadowTex.Bind()
		lp.program.SetInt("shadowEnabled", 1)
	} else {
		lp.program.SetInt("shadowEnabled", 0)
	}

	lp.program.SetFloat("ambientLight.Intensity", lp.ambientIntensity)
	lp.program.SetVec3("ambientLight.Colour", lp.ambientColour)

	if lp.headlight != nil {
		lp.headlight.Follow(lp.camera.Position, lp.camera.Direction)
	}
	lp.lights.PackAll(lp.program)

	lp.program.SetVec3("viewPos", lp.camera.Position)
	lp.program.SetMat4("viewMatrixInv", lp.camera.View.Inv())
	lp.program.SetMat4("projMatrixInv", lp.camera.Projection.Inv())

	lp.dev.Disable(gfx.DepthTest)
	lp.quad.Draw()
	lp.dev.Enable(gfx.DepthTest)

	lp.normal.Unbind()
	lp.albedoSpec.Unbind()
	lp.depth.Unbind()
	if lp.shadowTex != nil {
		lp.shadowTex.Unbind()
	}

	lp.skybox.Render(lp.camera.View, lp.camera.Projection)
}

// AfterRender restores depth writes for later passes.
func (lp *LightingPass) AfterRender() {
	lp.dev.DepthMask(true)
}

// SetShadowTexture binds a shadow map and its light-space transform. The
// transform and its cached inverse only change when tex differs from the
// current shadow map; the sampler unit and the cached inverse are re-sent on
// every call. To move the light with the same map, call with nil first.
// A nil texture disables shadowing.
func (lp *LightingPass) SetShadowTexture(tex *gfx.Texture, lightSpace mgl32.Mat4) {
	if tex == nil {
		lp.shadowTex = nil
		return
	}
	if tex != lp.shadowTex {
		lp.shadowTex = tex
		lp.shadowLightSpace = lightSpace
		lp.shadowInverse = lightSpace.Inv()
	}

	lp.program.Bind()
	lp.program.SetSampler("gShadowMap", lp.shadowTex)
	lp.program.SetMat4("lightToViewMtx", lp.shadowInverse)
}

// ShadowTransform returns the cached light-space transform and its inverse.
func (lp *LightingPass) ShadowTransform() (mgl32.Mat4, mgl32.Mat4) {
	return lp.shadowLightSpace, lp.shadowInverse
}

// SetHDRRenderer shares the G-buffer depth-stencil with the HDR input target
// so the skybox can depth-test against the scene.
func (lp *LightingPass) SetHDRRenderer(hdr *HDRPass) {
	hdr.SetDepthBuffer(lp.depth, true)
}

// SetFXAARenderer hands the albedo texture to FXAA as its input colour
// buffer. Albedo is dead once lighting has run.
func (lp *LightingPass) SetFXAARenderer(fxaa *FXAAPass) {
	fxaa.SetColourInputTex(lp.albedoSpec)
}

// Release frees the G-buffer, shaders, skybox and registered lights.
func (lp *LightingPass) Release() {
	lp.skybox.Release()
	lp.quad.Release()
	lp.program.Release()
	lp.gbuffer.Release()
	lp.lights.Clear()
}
