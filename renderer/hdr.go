package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

const (
	unitHDRColour = 0
	unitBright    = 1
)

// DefaultThreshold is the luminance a pixel must reach to bloom.
const DefaultThreshold = 1.0

// HDRPass owns the floating-point target the lighting pass renders into and
// extracts its over-threshold pixels into a bright texture for bloom.
type HDRPass struct {
	dev    gfx.Device
	log    *zap.Logger
	width  int
	height int

	input    *gfx.Target
	inColour *gfx.Texture
	output   *gfx.Target
	bright   *gfx.Texture

	depth     *gfx.Texture // borrowed from the lighting pass
	depthSlot gfx.Slot

	program *gfx.Program
	quad    *gfx.Mesh

	// Threshold is the bright-pass luminance cut-off.
	Threshold float32
}

// NewHDRPass allocates the width×height input and bright targets.
func NewHDRPass(dev gfx.Device, width, height int, opts ...Option) (*HDRPass, error) {
	o := buildOptions(opts)

	prog, err := gfx.NewProgram(dev, "hdr", quadVertSrc, brightFragSrc)
	if err != nil {
		return nil, err
	}

	h := &HDRPass{
		dev:       dev,
		log:       o.log,
		width:     width,
		height:    height,
		program:   prog,
		quad:      newQuad(dev),
		Threshold: DefaultThreshold,
	}
	h.setUpInputBuffers()
	h.setUpOutputBuffers()

	prog.Bind()
	prog.SetSampler("texInColour", h.inColour)
	return h, nil
}

// setUpInputBuffers allocates the RGB16F target that receives the full
// range of lighting values.
func (h *HDRPass) setUpInputBuffers() {
	h.input = gfx.NewTarget(h.dev, "hdr.in", h.width, h.height)
	h.inColour = h.input.Allocate(gfx.AttachmentSpec{
		Slot:   gfx.Colour0,
		Format: gfx.FormatRGB16F,
		Unit:   unitHDRColour,
		Name:   "HDRColourIn",
	})[0]
	h.input.SetDrawBuffers(gfx.Colour0)
	h.input.Verify()
	h.input.Unbind()
}

func (h *HDRPass) setUpOutputBuffers() {
	h.output = gfx.NewTarget(h.dev, "hdr.bright", h.width, h.height)
	h.bright = h.output.Allocate(gfx.AttachmentSpec{
		Slot:   gfx.Colour0,
		Format: gfx.FormatRGBA16F,
		Unit:   unitBright,
		Linear: true,
		Name:   "HDRBright",
	})[0]
	h.output.SetDrawBuffers(gfx.Colour0)
	h.output.Verify()
	h.output.Unbind()
}

// InputColour returns the HDR colour texture.
func (h *HDRPass) InputColour() *gfx.Texture { return h.inColour }

// Bright returns the bright-pass texture.
func (h *HDRPass) Bright() *gfx.Texture { return h.bright }

// Input returns the target the lighting pass renders into.
func (h *HDRPass) Input() *gfx.Target { return h.input }

// SetDepthBuffer shares depth with the input target. The first call
// attaches and verifies; passing the current texture again is a no-op; a
// different texture replaces it and is verified. nil is a fatal
// configuration error.
func (h *HDRPass) SetDepthBuffer(depth *gfx.Texture, hasStencil bool) {
	if depth == nil {
		gfx.Fatal(h.input.Name(), "set depth buffer", gfx.ErrNilTexture)
	}
	slot := gfx.Depth
	if hasStencil {
		slot = gfx.DepthStencil
	}
	if depth == h.depth && slot == h.depthSlot {
		return
	}
	if !slot.Accepts(depth.Format()) {
		gfx.Fatal(h.input.Name(), "set depth buffer",
			fmt.Errorf("%w: %s in %s", gfx.ErrIncompatibleFormat, depth.Format(), slot))
	}
	if h.depth != nil && slot != h.depthSlot {
		h.input.Detach(h.depthSlot)
	}

	h.input.Attach(slot, depth)
	h.input.Verify()
	h.input.Unbind()

	h.depth, h.depthSlot = depth, slot
	h.log.Debug("hdr depth buffer set",
		zap.String("texture", depth.Name()),
		zap.Stringer("slot", slot))
}

// BindHDRBuffer binds the input target as the render destination.
func (h *HDRPass) BindHDRBuffer() { h.input.Bind() }

// BeforeRender disables depth testing for the full-screen pass.
func (h *HDRPass) BeforeRender() { h.dev.Disable(gfx.DepthTest) }

// Render extracts bright pixels into the bright target.
func (h *HDRPass) Render() {
	h.output.Bind()
	h.program.Bind()
	h.program.SetFloat("threshold", h.Threshold)
	h.inColour.Bind()
	h.quad.Draw()
	h.inColour.Unbind()
}

// AfterRender re-enables depth testing.
func (h *HDRPass) AfterRender() { h.dev.Enable(gfx.DepthTest) }

// SetBloomRenderer hands the HDR colour and bright textures to bloom.
func (h *HDRPass) SetBloomRenderer(b *BloomPass) {
	b.SetColourInputTex(h.inColour)
	b.SetBrightInputTex(h.bright)
}

// Release frees the targets and shader. The shared depth stays with its
// owner.
func (h *HDRPass) Release() {
	h.quad.Release()
	h.program.Release()
	h.output.Release()
	h.input.Release()
}
