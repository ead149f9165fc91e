package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/config"
	"deferred-renderer/internal/gfx"
	"deferred-renderer/lights"
	"deferred-renderer/textures"
)

// GeometryRenderer fills the bound G-buffer: normals into colour 0, albedo
// and specular into colour 1, and depth.
type GeometryRenderer interface {
	RenderGeometry(view, projection mgl32.Mat4)
}

// ShadowCaster draws scene depth into the bound shadow map.
type ShadowCaster interface {
	RenderDepth(lightSpace mgl32.Mat4)
}

// Pipeline owns every pass and runs them in frame order. All calls must be
// made on the thread that owns the GL context; submission order is the only
// synchronisation between producer and consumer passes.
type Pipeline struct {
	dev gfx.Device
	log *zap.Logger

	Lighting *LightingPass
	HDR      *HDRPass
	Bloom    *BloomPass
	FXAA     *FXAAPass
	Shadow   *ShadowPass // nil when shadows are disabled

	frames uint64
}

// New builds the passes for cfg.Viewport and performs the hand-offs between
// them. Lights and the skybox come from cfg.
func New(dev gfx.Device, cfg *config.Config, log *zap.Logger, opts ...Option) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts = append([]Option{WithLogger(log)}, opts...)
	w, h := cfg.Viewport.Width, cfg.Viewport.Height

	faces, err := skyFaces(cfg.Skybox, log)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}
	sky, err := gfx.NewCubemap(dev, unitSkybox, "Skybox", faces)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}

	p := &Pipeline{dev: dev, log: log}

	// ── Passes ──────────────────────────────────────────────────────────────

	if p.Lighting, err = NewLightingPass(dev, w, h, sky, opts...); err != nil {
		sky.Release()
		return nil, fmt.Errorf("failed to create lighting pass: %w", err)
	}
	if p.HDR, err = NewHDRPass(dev, w, h, opts...); err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create hdr pass: %w", err)
	}
	if p.Bloom, err = NewBloomPass(dev, w, h, opts...); err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create bloom pass: %w", err)
	}
	if p.FXAA, err = NewFXAAPass(dev, w, h, opts...); err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create fxaa pass: %w", err)
	}
	if cfg.Shadow.Enabled {
		p.Shadow = NewShadowPass(dev, cfg.Shadow.Size, opts...)
		p.Shadow.HalfExtent = cfg.Shadow.HalfExtent
		p.Shadow.Near = cfg.Shadow.Near
		p.Shadow.Far = cfg.Shadow.Far
		p.Shadow.LightSpace(cfg.Shadow.Direction, cfg.Shadow.Centre)
	}

	// ── Hand-offs ───────────────────────────────────────────────────────────

	p.Lighting.SetHDRRenderer(p.HDR)
	p.Lighting.SetFXAARenderer(p.FXAA)
	p.HDR.SetBloomRenderer(p.Bloom)
	p.Bloom.SetOutput(p.FXAA.Input())

	// ── Parameters ──────────────────────────────────────────────────────────

	p.HDR.Threshold = cfg.HDR.Threshold
	p.Bloom.Passes = cfg.Bloom.Passes
	p.Bloom.Exposure = cfg.Bloom.Exposure
	p.Bloom.Strength = cfg.Bloom.Strength

	p.Lighting.SetAmbient(cfg.Lighting.AmbientIntensity, cfg.Lighting.AmbientColour)
	if err := p.addLights(cfg.Lighting); err != nil {
		p.Release()
		return nil, err
	}

	log.Info("pipeline ready",
		zap.Int("width", w), zap.Int("height", h),
		zap.Bool("shadows", p.Shadow != nil),
		zap.Stringer("lights", p.Lighting.Lights().Counts()))
	return p, nil
}

func (p *Pipeline) addLights(cfg config.Lighting) error {
	reg := p.Lighting.Lights()
	if cfg.DefaultLights {
		set, headlight := lights.DefaultSet()
		for _, l := range set {
			reg.Add(l)
		}
		if cfg.Headlight {
			p.Lighting.SetHeadlight(headlight)
		}
	}
	for i, lc := range cfg.Lights {
		l, err := lc.Light()
		if err != nil {
			return fmt.Errorf("lights[%d]: %w", i, err)
		}
		reg.Add(l)
	}
	return nil
}

// skyFaces loads the configured cubemap directory or generates the gradient
// sky.
func skyFaces(cfg config.Skybox, log *zap.Logger) ([6]*image.RGBA, error) {
	if cfg.Dir != "" {
		log.Info("loading skybox", zap.String("dir", cfg.Dir))
		return textures.NewCache(log).LoadCubemap(cfg.Dir, cfg.Size)
	}
	return textures.GradientCubemap(textures.Sky{
		Zenith:  cfg.Zenith,
		Horizon: cfg.Horizon,
		Ground:  cfg.Ground,
	}, cfg.Size), nil
}

// RenderFrame draws one frame to the default framebuffer:
// shadow map, G-buffer geometry, lighting and skybox into the HDR target,
// bright pass, bloom composite into the FXAA input, FXAA to screen.
// caster may be nil, which disables shadowing for the frame.
func (p *Pipeline) RenderFrame(cam Camera, geometry GeometryRenderer, caster ShadowCaster) {
	// Shadow pass
	if p.Shadow != nil && caster != nil {
		p.Shadow.Begin()
		caster.RenderDepth(p.Shadow.LightSpaceMatrix())
		p.Shadow.End()
		p.Lighting.SetShadowTexture(p.Shadow.Depth(), p.Shadow.ClipToWorld())
	} else {
		p.Lighting.SetShadowTexture(nil, mgl32.Ident4())
	}

	// Geometry pass
	p.Lighting.BindGBuffer()
	p.dev.ClearColour(0, 0, 0, 1)
	p.dev.Clear(gfx.ClearColour | gfx.ClearDepth | gfx.ClearStencil)
	p.dev.DepthMask(true)
	p.dev.Enable(gfx.DepthTest)
	if geometry != nil {
		geometry.RenderGeometry(cam.View, cam.Projection)
	}

	// Lighting into the HDR target
	p.Lighting.SetCamera(cam)
	p.HDR.BindHDRBuffer()
	p.Lighting.BeforeRender()
	p.Lighting.Render()
	p.Lighting.AfterRender()

	// Post-processing
	p.HDR.BeforeRender()
	p.HDR.Render()
	p.Bloom.Render()
	p.HDR.AfterRender()

	p.FXAA.Render()
	p.frames++
}

// Frames returns the number of frames rendered.
func (p *Pipeline) Frames() uint64 { return p.frames }

// Release frees every pass in reverse construction order.
func (p *Pipeline) Release() {
	if p.Shadow != nil {
		p.Shadow.Release()
		p.Shadow = nil
	}
	if p.FXAA != nil {
		p.FXAA.Release()
		p.FXAA = nil
	}
	if p.Bloom != nil {
		p.Bloom.Release()
		p.Bloom = nil
	}
	if p.HDR != nil {
		p.HDR.Release()
		p.HDR = nil
	}
	if p.Lighting != nil {
		p.Lighting.Release()
		p.Lighting = nil
	}
	p.log.Debug("pipeline released", zap.Uint64("frames", p.frames))
}
