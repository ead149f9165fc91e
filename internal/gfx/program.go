package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Program is an owning handle to a linked shader program.
type Program struct {
	dev  Device
	id   uint32
	name string
}

// NewProgram compiles and links vertSrc and fragSrc.
func NewProgram(dev Device, name, vertSrc, fragSrc string) (*Program, error) {
	id, err := dev.CreateProgram(name, vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	return &Program{dev: dev, id: id, name: name}, nil
}

func (p *Program) ID() uint32   { return p.id }
func (p *Program) Name() string { return p.name }

// Bind makes p the current program.
func (p *Program) Bind() { p.dev.UseProgram(p.id) }

func (p *Program) SetInt(name string, v int32)          { p.dev.Uniform1i(p.id, name, v) }
func (p *Program) SetFloat(name string, v float32)      { p.dev.Uniform1f(p.id, name, v) }
func (p *Program) SetVec2(name string, v mgl32.Vec2)    { p.dev.Uniform2f(p.id, name, v) }
func (p *Program) SetVec3(name string, v mgl32.Vec3)    { p.dev.Uniform3f(p.id, name, v) }
func (p *Program) SetMat4(name string, m mgl32.Mat4)    { p.dev.UniformMatrix4(p.id, name, m) }
func (p *Program) SetSampler(name string, tex *Texture) { p.SetInt(name, int32(tex.Unit())) }

// Release deletes the program.
func (p *Program) Release() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}
