// Package opengl implements gfx.Device on OpenGL 4.1 core through go-gl.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"deferred-renderer/internal/gfx"
)

// Device issues gfx commands to the current OpenGL context.
type Device struct {
	log *zap.Logger

	// uniform locations per program, resolved lazily
	locations map[uint32]map[string]int32
}

var _ gfx.Device = (*Device)(nil)

// NewDevice initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewDevice(log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Device{
		log:       log,
		locations: make(map[uint32]map[string]int32),
	}, nil
}

// ── Fixed-function state ──────────────────────────────────────────────────────

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColour(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) Clear(mask gfx.ClearMask) {
	var bits uint32
	if mask&gfx.ClearColour != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&gfx.ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) DepthMask(write bool) { gl.DepthMask(write) }

func (d *Device) SetDepthFunc(f gfx.DepthFunc) {
	switch f {
	case gfx.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

func (d *Device) Enable(c gfx.Capability)  { gl.Enable(capability(c)) }
func (d *Device) Disable(c gfx.Capability) { gl.Disable(capability(c)) }

func capability(c gfx.Capability) uint32 {
	if c == gfx.CullFace {
		return gl.CULL_FACE
	}
	return gl.DEPTH_TEST
}

// ── Geometry ──────────────────────────────────────────────────────────────────

func (d *Device) CreateVertexArray(vertices []float32, layout gfx.VertexLayout) (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	for _, a := range layout.Attribs {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Components, gl.FLOAT, false,
			int32(layout.Stride), gl.PtrOffset(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func (d *Device) DeleteVertexArray(vao, vbo uint32) {
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)
}

func (d *Device) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (d *Device) DrawArrays(mode gfx.Primitive, first, count int) {
	prim := uint32(gl.TRIANGLES)
	if mode == gfx.TriangleStrip {
		prim = gl.TRIANGLE_STRIP
	}
	gl.DrawArrays(prim, int32(first), int32(count))
}
