// Package gfx holds the GPU object model shared by every render pass: the
// Device interface that issues graphics-API commands, and the owning wrappers
// (Texture, Target, Program, Mesh) built on top of it.
//
// All calls must come from the goroutine that owns the graphics context.
// Commands are submitted in program order and the driver executes them in
// that order on a single queue; this ordering is the only synchronisation
// between passes.
package gfx

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureKind selects the binding target of a texture object.
type TextureKind int

const (
	Texture2D TextureKind = iota
	TextureCube
)

// Primitive is the topology used by DrawArrays.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// Capability is a fixed-function toggle.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
)

// DepthFunc is the depth comparison applied while DepthTest is enabled.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// ClearMask selects which buffers of the bound framebuffer Clear resets.
type ClearMask int

const (
	ClearColour ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// TextureDesc describes a blank 2D texture allocation.
type TextureDesc struct {
	Name   string
	Width  int
	Height int
	Format Format
	Linear bool // linear filtering, nearest otherwise
}

// VertexAttrib is one float attribute inside an interleaved vertex.
// Offset is in bytes from the start of the vertex.
type VertexAttrib struct {
	Location   uint32
	Components int32
	Offset     int
}

// VertexLayout describes interleaved float vertices. Stride is in bytes.
type VertexLayout struct {
	Stride  int
	Attribs []VertexAttrib
}

// Floats returns the number of float32 values per vertex.
func (l VertexLayout) Floats() int { return l.Stride / 4 }

// Device is the command surface the passes render through. The OpenGL
// implementation lives in internal/opengl; tests use gfxtest.Recorder.
type Device interface {
	// Textures
	CreateTexture2D(desc TextureDesc) uint32
	CreateCubemap(name string, faces [6]*image.RGBA) (uint32, error)
	DeleteTexture(id uint32)
	BindTexture(unit int, kind TextureKind, id uint32)

	// Framebuffers. AttachTexture and DrawBuffers act on the bound framebuffer;
	// id 0 is the default (window) framebuffer.
	CreateFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(id uint32)
	AttachTexture(slot Slot, id uint32)
	DrawBuffers(slots []Slot)
	FramebufferStatus() error

	// Geometry
	CreateVertexArray(vertices []float32, layout VertexLayout) (vao, vbo uint32)
	DeleteVertexArray(vao, vbo uint32)
	BindVertexArray(id uint32)
	DrawArrays(mode Primitive, first, count int)

	// Programs. Uniform setters address the program explicitly and are a
	// silent no-op for names the linker optimised away.
	CreateProgram(name, vertSrc, fragSrc string) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	Uniform1i(prog uint32, name string, v int32)
	Uniform1f(prog uint32, name string, v float32)
	Uniform2f(prog uint32, name string, v mgl32.Vec2)
	Uniform3f(prog uint32, name string, v mgl32.Vec3)
	UniformMatrix4(prog uint32, name string, m mgl32.Mat4)

	// Fixed-function state
	Viewport(x, y, width, height int)
	ClearColour(r, g, b, a float32)
	Clear(mask ClearMask)
	DepthMask(write bool)
	SetDepthFunc(f DepthFunc)
	Enable(c Capability)
	Disable(c Capability)
}
