package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

const unitBloom = 1

// Bloom defaults.
const (
	DefaultBloomPasses   = 4
	DefaultExposure      = 1.0
	DefaultBloomStrength = 0.6
)

// BloomPass blurs the HDR bright texture at half resolution and composites
// it over the HDR colour with exposure tone mapping and gamma correction.
type BloomPass struct {
	dev    gfx.Device
	log    *zap.Logger
	width  int
	height int

	// half-resolution ping-pong targets
	bloomW, bloomH int
	ping           [2]*gfx.Target
	pingTex        [2]*gfx.Texture

	blur      *gfx.Program
	composite *gfx.Program
	quad      *gfx.Mesh

	// borrowed
	colourIn *gfx.Texture
	brightIn *gfx.Texture
	output   *gfx.Target

	// Passes is the number of horizontal+vertical blur pairs.
	Passes   int
	Exposure float32
	Strength float32
}

// NewBloomPass compiles the blur and composite shaders and allocates the
// ping-pong targets for a width×height frame.
func NewBloomPass(dev gfx.Device, width, height int, opts ...Option) (*BloomPass, error) {
	o := buildOptions(opts)

	blur, err := gfx.NewProgram(dev, "bloom.blur", quadVertSrc, blurFragSrc)
	if err != nil {
		return nil, err
	}
	comp, err := gfx.NewProgram(dev, "bloom.composite", quadVertSrc, compositeFragSrc)
	if err != nil {
		blur.Release()
		return nil, err
	}

	b := &BloomPass{
		dev:       dev,
		log:       o.log,
		width:     width,
		height:    height,
		bloomW:    max(width/2, 1),
		bloomH:    max(height/2, 1),
		blur:      blur,
		composite: comp,
		quad:      newQuad(dev),
		Passes:    DefaultBloomPasses,
		Exposure:  DefaultExposure,
		Strength:  DefaultBloomStrength,
	}
	for i := range b.ping {
		b.ping[i] = gfx.NewTarget(dev, fmt.Sprintf("bloom.ping%d", i), b.bloomW, b.bloomH)
		b.pingTex[i] = b.ping[i].Allocate(gfx.AttachmentSpec{
			Slot:   gfx.Colour0,
			Format: gfx.FormatRGBA16F,
			Unit:   unitBloom,
			Linear: true,
		})[0]
		b.ping[i].SetDrawBuffers(gfx.Colour0)
		b.ping[i].Verify()
		b.ping[i].Unbind()
	}
	return b, nil
}

// SetColourInputTex sets the HDR colour texture to composite over.
func (b *BloomPass) SetColourInputTex(tex *gfx.Texture) { b.colourIn = tex }

// SetBrightInputTex sets the bright-pass texture to blur.
func (b *BloomPass) SetBrightInputTex(tex *gfx.Texture) { b.brightIn = tex }

// SetOutput sets the target the composite is written to.
func (b *BloomPass) SetOutput(t *gfx.Target) { b.output = t }

// Render blurs, then composites into the output target. Rendering before
// every input was handed off is a fatal configuration error.
func (b *BloomPass) Render() {
	switch {
	case b.colourIn == nil:
		gfx.Fatal("bloom", "render", fmt.Errorf("%w: colour", gfx.ErrMissingHandOff))
	case b.brightIn == nil:
		gfx.Fatal("bloom", "render", fmt.Errorf("%w: bright", gfx.ErrMissingHandOff))
	case b.output == nil:
		gfx.Fatal("bloom", "render", fmt.Errorf("%w: output", gfx.ErrMissingHandOff))
	}

	// Ping-pong blur: H into ping[0], V into ping[1], repeat.
	src := b.brightIn
	b.blur.Bind()
	for i := 0; i < b.Passes*2; i++ {
		dst := i % 2
		b.ping[dst].Bind()
		if dst == 0 {
			b.blur.SetVec2("texelDir", mgl32.Vec2{1 / float32(b.bloomW), 0})
		} else {
			b.blur.SetVec2("texelDir", mgl32.Vec2{0, 1 / float32(b.bloomH)})
		}
		src.Bind()
		b.blur.SetSampler("blurTex", src)
		b.quad.Draw()
		src.Unbind()
		src = b.pingTex[dst]
	}

	b.output.Bind()
	b.composite.Bind()
	b.composite.SetFloat("exposure", b.Exposure)
	b.composite.SetFloat("bloomStrength", b.Strength)
	b.colourIn.Bind()
	src.Bind()
	b.composite.SetSampler("hdrBuffer", b.colourIn)
	b.composite.SetSampler("bloomTex", src)
	b.quad.Draw()
	src.Unbind()
	b.colourIn.Unbind()
}

// Release frees the ping-pong targets and shaders.
func (b *BloomPass) Release() {
	b.quad.Release()
	b.composite.Release()
	b.blur.Release()
	for _, t := range b.ping {
		t.Release()
	}
}
