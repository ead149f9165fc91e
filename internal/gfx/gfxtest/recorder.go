// Package gfxtest provides a recording gfx.Device for tests. It keeps enough
// state to emulate framebuffer completeness and uniform storage, and logs
// every command in submission order.
package gfxtest

import (
	"errors"
	"fmt"
	"image"
	"maps"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-renderer/internal/gfx"
)

// Call is one recorded device command.
type Call struct {
	Op   string
	Name string // uniform, program or texture name where one applies
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s %s %v", c.Op, c.Name, c.Args) }

// Draw is a recorded DrawArrays with the state it was issued under.
type Draw struct {
	Mode        gfx.Primitive
	Count       int
	Program     string
	Framebuffer uint32
	DepthTest   bool
	DepthFunc   gfx.DepthFunc
	Index       int // position in Recorder.Calls
}

type framebuffer struct {
	attach  map[gfx.Slot]uint32
	draw    []gfx.Slot
	attachN map[gfx.Slot]int
}

type program struct {
	name     string
	uniforms map[string]any
}

// Recorder implements gfx.Device without a GPU.
type Recorder struct {
	Calls []Call

	// ForceIncomplete makes FramebufferStatus fail for every framebuffer.
	ForceIncomplete bool
	// FailProgram makes CreateProgram fail for the named program.
	FailProgram string
	// FailCubemap makes CreateCubemap fail.
	FailCubemap bool

	nextID       uint32
	textures     map[uint32]gfx.TextureDesc
	framebuffers map[uint32]*framebuffer
	programs     map[uint32]*program
	vaos         map[uint32]bool
	units        map[int]uint32

	boundFBO  uint32
	boundVAO  uint32
	current   uint32
	depthTest bool
	depthFunc gfx.DepthFunc
	depthMask bool
	viewport  [4]int
}

// New returns an empty recorder with GL's initial state: depth test off,
// depth func LESS, depth writes on.
func New() *Recorder {
	return &Recorder{
		textures:     make(map[uint32]gfx.TextureDesc),
		framebuffers: make(map[uint32]*framebuffer),
		programs:     make(map[uint32]*program),
		vaos:         make(map[uint32]bool),
		units:        make(map[int]uint32),
		depthMask:    true,
	}
}

var _ gfx.Device = (*Recorder)(nil)

func (r *Recorder) record(op, name string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Name: name, Args: args})
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// ── Textures ───────────────────────────────────────────────────────────────

func (r *Recorder) CreateTexture2D(desc gfx.TextureDesc) uint32 {
	id := r.id()
	r.textures[id] = desc
	r.record("CreateTexture2D", desc.Name, id, desc.Format)
	return id
}

func (r *Recorder) CreateCubemap(name string, faces [6]*image.RGBA) (uint32, error) {
	if r.FailCubemap {
		return 0, errors.New("cubemap upload failed")
	}
	id := r.id()
	b := faces[0].Bounds()
	r.textures[id] = gfx.TextureDesc{Name: name, Width: b.Dx(), Height: b.Dy(), Format: gfx.FormatRGBA8}
	r.record("CreateCubemap", name, id)
	return id, nil
}

func (r *Recorder) DeleteTexture(id uint32) {
	r.record("DeleteTexture", r.textures[id].Name, id)
	delete(r.textures, id)
}

func (r *Recorder) BindTexture(unit int, kind gfx.TextureKind, id uint32) {
	r.units[unit] = id
	r.record("BindTexture", r.textures[id].Name, unit, kind, id)
}

// ── Framebuffers ───────────────────────────────────────────────────────────

func (r *Recorder) CreateFramebuffer() uint32 {
	id := r.id()
	r.framebuffers[id] = &framebuffer{
		attach:  make(map[gfx.Slot]uint32),
		attachN: make(map[gfx.Slot]int),
	}
	r.record("CreateFramebuffer", "", id)
	return id
}

func (r *Recorder) DeleteFramebuffer(id uint32) {
	r.record("DeleteFramebuffer", "", id)
	delete(r.framebuffers, id)
}

func (r *Recorder) BindFramebuffer(id uint32) {
	r.boundFBO = id
	r.record("BindFramebuffer", "", id)
}

func (r *Recorder) AttachTexture(slot gfx.Slot, id uint32) {
	fb := r.framebuffers[r.boundFBO]
	if fb == nil {
		panic(fmt.Sprintf("gfxtest: AttachTexture with framebuffer %d bound", r.boundFBO))
	}
	if id == 0 {
		delete(fb.attach, slot)
	} else {
		fb.attach[slot] = id
		fb.attachN[slot]++
	}
	r.record("AttachTexture", r.textures[id].Name, r.boundFBO, slot, id)
}

func (r *Recorder) DrawBuffers(slots []gfx.Slot) {
	if fb := r.framebuffers[r.boundFBO]; fb != nil {
		fb.draw = append([]gfx.Slot(nil), slots...)
	}
	r.record("DrawBuffers", "", r.boundFBO, slots)
}

// FramebufferStatus emulates the completeness rules of the bound
// framebuffer: at least one attachment, every draw buffer attached, and all
// attachments of one size.
func (r *Recorder) FramebufferStatus() error {
	r.record("FramebufferStatus", "", r.boundFBO)
	if r.boundFBO == 0 {
		return nil
	}
	if r.ForceIncomplete {
		return errors.New("forced incomplete")
	}
	fb := r.framebuffers[r.boundFBO]
	if fb == nil {
		return errors.New("no framebuffer bound")
	}
	if len(fb.attach) == 0 {
		return errors.New("missing attachment")
	}
	for _, s := range fb.draw {
		if _, ok := fb.attach[s]; !ok {
			return fmt.Errorf("incomplete draw buffer %s", s)
		}
	}
	w, h := -1, -1
	for _, id := range fb.attach {
		d := r.textures[id]
		if w < 0 {
			w, h = d.Width, d.Height
		} else if d.Width != w || d.Height != h {
			return errors.New("attachment sizes differ")
		}
	}
	return nil
}

// ── Geometry ───────────────────────────────────────────────────────────────

func (r *Recorder) CreateVertexArray(vertices []float32, layout gfx.VertexLayout) (uint32, uint32) {
	vao, vbo := r.id(), r.id()
	r.vaos[vao] = true
	r.record("CreateVertexArray", "", vao, len(vertices)/layout.Floats())
	return vao, vbo
}

func (r *Recorder) DeleteVertexArray(vao, vbo uint32) {
	delete(r.vaos, vao)
	r.record("DeleteVertexArray", "", vao, vbo)
}

func (r *Recorder) BindVertexArray(id uint32) {
	r.boundVAO = id
	r.record("BindVertexArray", "", id)
}

func (r *Recorder) DrawArrays(mode gfx.Primitive, first, count int) {
	name := ""
	if p := r.programs[r.current]; p != nil {
		name = p.name
	}
	r.record("DrawArrays", name, mode, first, count)
}

// ── Programs ───────────────────────────────────────────────────────────────

func (r *Recorder) CreateProgram(name, vertSrc, fragSrc string) (uint32, error) {
	if r.FailProgram == name {
		return 0, fmt.Errorf("failed to link program: %s", name)
	}
	id := r.id()
	r.programs[id] = &program{name: name, uniforms: make(map[string]any)}
	r.record("CreateProgram", name, id)
	return id, nil
}

func (r *Recorder) DeleteProgram(id uint32) {
	name := ""
	if p := r.programs[id]; p != nil {
		name = p.name
	}
	delete(r.programs, id)
	r.record("DeleteProgram", name, id)
}

func (r *Recorder) UseProgram(id uint32) {
	r.current = id
	name := ""
	if p := r.programs[id]; p != nil {
		name = p.name
	}
	r.record("UseProgram", name, id)
}

func (r *Recorder) uniform(op string, prog uint32, name string, v any) {
	if p := r.programs[prog]; p != nil {
		p.uniforms[name] = v
	}
	r.record(op, name, prog, v)
}

func (r *Recorder) Uniform1i(prog uint32, name string, v int32) {
	r.uniform("Uniform1i", prog, name, v)
}

func (r *Recorder) Uniform1f(prog uint32, name string, v float32) {
	r.uniform("Uniform1f", prog, name, v)
}

func (r *Recorder) Uniform2f(prog uint32, name string, v mgl32.Vec2) {
	r.uniform("Uniform2f", prog, name, v)
}

func (r *Recorder) Uniform3f(prog uint32, name string, v mgl32.Vec3) {
	r.uniform("Uniform3f", prog, name, v)
}

func (r *Recorder) UniformMatrix4(prog uint32, name string, m mgl32.Mat4) {
	r.uniform("UniformMatrix4", prog, name, m)
}

// ── Fixed-function state ───────────────────────────────────────────────────

func (r *Recorder) Viewport(x, y, width, height int) {
	r.viewport = [4]int{x, y, width, height}
	r.record("Viewport", "", x, y, width, height)
}

func (r *Recorder) ClearColour(cr, cg, cb, ca float32) { r.record("ClearColour", "", cr, cg, cb, ca) }
func (r *Recorder) Clear(mask gfx.ClearMask)           { r.record("Clear", "", mask) }

func (r *Recorder) DepthMask(write bool) {
	r.depthMask = write
	r.record("DepthMask", "", write)
}

func (r *Recorder) SetDepthFunc(f gfx.DepthFunc) {
	r.depthFunc = f
	r.record("SetDepthFunc", "", f)
}

func (r *Recorder) Enable(c gfx.Capability) {
	if c == gfx.DepthTest {
		r.depthTest = true
	}
	r.record("Enable", "", c)
}

func (r *Recorder) Disable(c gfx.Capability) {
	if c == gfx.DepthTest {
		r.depthTest = false
	}
	r.record("Disable", "", c)
}

// ── Queries ────────────────────────────────────────────────────────────────

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of op, optionally restricted to name.
func (r *Recorder) Filter(op, name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op && (name == "" || c.Name == name) {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of the first call matching op and name at or
// after from, or -1.
func (r *Recorder) Index(from int, op, name string) int {
	for i := max(from, 0); i < len(r.Calls); i++ {
		if r.Calls[i].Op == op && (name == "" || r.Calls[i].Name == name) {
			return i
		}
	}
	return -1
}

// LastIndex returns the position of the last call matching op and name, or -1.
func (r *Recorder) LastIndex(op, name string) int {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		if r.Calls[i].Op == op && (name == "" || r.Calls[i].Name == name) {
			return i
		}
	}
	return -1
}

// Draws returns every DrawArrays call with the state it ran under.
func (r *Recorder) Draws() []Draw {
	var out []Draw
	var (
		fbo       uint32
		depthTest bool
		depthFunc gfx.DepthFunc
	)
	for i, c := range r.Calls {
		switch c.Op {
		case "BindFramebuffer":
			fbo = c.Args[0].(uint32)
		case "Enable":
			if c.Args[0].(gfx.Capability) == gfx.DepthTest {
				depthTest = true
			}
		case "Disable":
			if c.Args[0].(gfx.Capability) == gfx.DepthTest {
				depthTest = false
			}
		case "SetDepthFunc":
			depthFunc = c.Args[0].(gfx.DepthFunc)
		case "DrawArrays":
			out = append(out, Draw{
				Mode:        c.Args[0].(gfx.Primitive),
				Count:       c.Args[2].(int),
				Program:     c.Name,
				Framebuffer: fbo,
				DepthTest:   depthTest,
				DepthFunc:   depthFunc,
				Index:       i,
			})
		}
	}
	return out
}

// Reset clears the call log but keeps every object alive.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Uniform returns the last value stored for name in the named program.
func (r *Recorder) Uniform(progName, name string) (any, bool) {
	for _, p := range r.programs {
		if p.name == progName {
			v, ok := p.uniforms[name]
			return v, ok
		}
	}
	return nil, false
}

// Uniforms returns a copy of every uniform stored in the named program.
func (r *Recorder) Uniforms(progName string) map[string]any {
	for _, p := range r.programs {
		if p.name == progName {
			return maps.Clone(p.uniforms)
		}
	}
	return nil
}

// AttachCount returns how many times a texture was attached to slot of fbo.
func (r *Recorder) AttachCount(fbo uint32, slot gfx.Slot) int {
	if fb := r.framebuffers[fbo]; fb != nil {
		return fb.attachN[slot]
	}
	return 0
}

// Attached returns the texture id attached to slot of fbo, or 0.
func (r *Recorder) Attached(fbo uint32, slot gfx.Slot) uint32 {
	if fb := r.framebuffers[fbo]; fb != nil {
		return fb.attach[slot]
	}
	return 0
}

// LiveTextures is the number of textures created and not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// LiveFramebuffers is the number of framebuffers created and not yet deleted.
func (r *Recorder) LiveFramebuffers() int { return len(r.framebuffers) }

// LivePrograms is the number of programs created and not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

// BoundFramebuffer returns the currently bound framebuffer.
func (r *Recorder) BoundFramebuffer() uint32 { return r.boundFBO }

// DepthTestEnabled reports the emulated depth-test capability.
func (r *Recorder) DepthTestEnabled() bool { return r.depthTest }

// DepthWrites reports the emulated depth mask.
func (r *Recorder) DepthWrites() bool { return r.depthMask }

// CurrentDepthFunc reports the emulated depth function.
func (r *Recorder) CurrentDepthFunc() gfx.DepthFunc { return r.depthFunc }

// ViewportSize returns the last viewport.
func (r *Recorder) ViewportSize() (int, int) { return r.viewport[2], r.viewport[3] }

// BoundTexture returns the texture bound to unit.
func (r *Recorder) BoundTexture(unit int) uint32 { return r.units[unit] }
