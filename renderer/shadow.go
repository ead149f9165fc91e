package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

// Shadow map defaults.
const (
	DefaultShadowSize       = 2048
	DefaultShadowHalfExtent = 20
	DefaultShadowNear       = 0.1
	DefaultShadowFar        = 60
)

// ShadowPass renders scene depth from a directional light into a square
// Depth32F map.
type ShadowPass struct {
	dev    gfx.Device
	log    *zap.Logger
	size   int
	target *gfx.Target
	depth  *gfx.Texture

	lightSpace mgl32.Mat4

	// HalfExtent is the half width of the orthographic light volume.
	HalfExtent float32
	Near       float32
	Far        float32
}

// NewShadowPass creates a size×size depth-only target.
func NewShadowPass(dev gfx.Device, size int, opts ...Option) *ShadowPass {
	o := buildOptions(opts)
	if size <= 0 {
		size = DefaultShadowSize
	}
	sp := &ShadowPass{
		dev:        dev,
		log:        o.log,
		size:       size,
		target:     gfx.NewTarget(dev, "shadow", size, size),
		lightSpace: mgl32.Ident4(),
		HalfExtent: DefaultShadowHalfExtent,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
	}
	sp.depth = sp.target.Allocate(gfx.AttachmentSpec{
		Slot:   gfx.Depth,
		Format: gfx.FormatDepth32F,
		Unit:   unitShadow,
		Linear: true,
		Name:   "ShadowDepth",
	})[0]
	sp.target.SetDrawBuffers()
	sp.target.Verify()
	sp.target.Unbind()
	return sp
}

// Depth returns the shadow map.
func (sp *ShadowPass) Depth() *gfx.Texture { return sp.depth }

// Size returns the shadow map resolution.
func (sp *ShadowPass) Size() int { return sp.size }

// LightSpace places the light volume around centre looking along dir and
// returns the world → light clip transform. A degenerate direction falls
// back to straight down.
func (sp *ShadowPass) LightSpace(dir, centre mgl32.Vec3) mgl32.Mat4 {
	if dir.LenSqr() < 1e-6 {
		sp.log.Warn("degenerate shadow light direction, using straight down")
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	// Place the light camera behind the volume along the light direction
	eye := centre.Sub(dir.Mul(sp.Far / 2))

	// Choose an up vector that is not parallel to the light direction
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(eye, centre, up)
	h := sp.HalfExtent
	proj := mgl32.Ortho(-h, h, -h, h, sp.Near, sp.Far)
	sp.lightSpace = proj.Mul4(view)
	return sp.lightSpace
}

// LightSpaceMatrix returns the transform from the last LightSpace call.
func (sp *ShadowPass) LightSpaceMatrix() mgl32.Mat4 { return sp.lightSpace }

// ClipToWorld returns the inverse light-space transform, the form
// LightingPass.SetShadowTexture expects.
func (sp *ShadowPass) ClipToWorld() mgl32.Mat4 { return sp.lightSpace.Inv() }

// Begin binds the shadow target and clears its depth.
func (sp *ShadowPass) Begin() {
	sp.target.Bind()
	sp.dev.DepthMask(true)
	sp.dev.Enable(gfx.DepthTest)
	sp.dev.Clear(gfx.ClearDepth)
}

// End restores the default framebuffer.
func (sp *ShadowPass) End() { sp.target.Unbind() }

// Release frees the shadow map.
func (sp *ShadowPass) Release() { sp.target.Release() }
