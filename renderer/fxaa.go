package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

// FXAAPass anti-aliases its input colour buffer onto the default
// framebuffer. The input texture is borrowed.
type FXAAPass struct {
	dev    gfx.Device
	log    *zap.Logger
	width  int
	height int

	input    *gfx.Target
	colourIn *gfx.Texture

	program *gfx.Program
	quad    *gfx.Mesh
}

// NewFXAAPass compiles the FXAA shader. The input target stays incomplete
// until SetColourInputTex.
func NewFXAAPass(dev gfx.Device, width, height int, opts ...Option) (*FXAAPass, error) {
	o := buildOptions(opts)

	prog, err := gfx.NewProgram(dev, "fxaa", quadVertSrc, fxaaFragSrc)
	if err != nil {
		return nil, err
	}
	prog.SetVec2("texelSize", mgl32.Vec2{1 / float32(width), 1 / float32(height)})

	return &FXAAPass{
		dev:     dev,
		log:     o.log,
		width:   width,
		height:  height,
		input:   gfx.NewTarget(dev, "fxaa.in", width, height),
		program: prog,
		quad:    newQuad(dev),
	}, nil
}

// SetColourInputTex attaches tex as the input colour buffer and verifies
// the input target.
func (f *FXAAPass) SetColourInputTex(tex *gfx.Texture) {
	if tex == nil {
		gfx.Fatal(f.input.Name(), "set colour input", gfx.ErrNilTexture)
	}
	f.input.Attach(gfx.Colour0, tex)
	f.input.SetDrawBuffers(gfx.Colour0)
	f.input.Verify()
	f.input.Unbind()
	f.colourIn = tex

	f.program.Bind()
	f.program.SetSampler("texInColour", tex)
	f.log.Debug("fxaa input set", zap.String("texture", tex.Name()))
}

// Input returns the target earlier passes write the frame into.
func (f *FXAAPass) Input() *gfx.Target { return f.input }

// BindInputBuffer binds the input target as the render destination.
func (f *FXAAPass) BindInputBuffer() { f.input.Bind() }

// Render resolves the input onto the default framebuffer.
func (f *FXAAPass) Render() {
	if f.colourIn == nil {
		gfx.Fatal(f.input.Name(), "render", fmt.Errorf("%w: colour", gfx.ErrMissingHandOff))
	}
	f.dev.BindFramebuffer(0)
	f.dev.Viewport(0, 0, f.width, f.height)
	f.dev.Disable(gfx.DepthTest)

	f.program.Bind()
	f.colourIn.Bind()
	f.quad.Draw()
	f.colourIn.Unbind()

	f.dev.Enable(gfx.DepthTest)
}

// Release frees the input target and shader. The borrowed texture stays
// with its owner.
func (f *FXAAPass) Release() {
	f.quad.Release()
	f.program.Release()
	f.input.Release()
}
