package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// CreateProgram compiles and links a vertex/fragment pair. Sources must be
// NUL-terminated.
func (d *Device) CreateProgram(name, vertSrc, fragSrc string) (uint32, error) {
	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		d.log.Error("shader program failed", zap.String("program", name), zap.Error(err))
		return 0, err
	}
	d.locations[prog] = make(map[string]int32)
	d.log.Debug("shader program linked", zap.String("program", name), zap.Uint32("id", prog))
	return prog, nil
}

func (d *Device) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
	delete(d.locations, id)
}

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

// location resolves and caches a uniform location. -1 means the linker
// removed the uniform; it is cached too so the lookup happens once.
func (d *Device) location(prog uint32, name string) int32 {
	locs := d.locations[prog]
	if locs == nil {
		locs = make(map[string]int32)
		d.locations[prog] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	if loc < 0 {
		d.log.Debug("uniform not active", zap.Uint32("program", prog), zap.String("uniform", name))
	}
	locs[name] = loc
	return loc
}

func (d *Device) Uniform1i(prog uint32, name string, v int32) {
	if loc := d.location(prog, name); loc >= 0 {
		gl.ProgramUniform1i(prog, loc, v)
	}
}

func (d *Device) Uniform1f(prog uint32, name string, v float32) {
	if loc := d.location(prog, name); loc >= 0 {
		gl.ProgramUniform1f(prog, loc, v)
	}
}

func (d *Device) Uniform2f(prog uint32, name string, v mgl32.Vec2) {
	if loc := d.location(prog, name); loc >= 0 {
		gl.ProgramUniform2f(prog, loc, v[0], v[1])
	}
}

func (d *Device) Uniform3f(prog uint32, name string, v mgl32.Vec3) {
	if loc := d.location(prog, name); loc >= 0 {
		gl.ProgramUniform3f(prog, loc, v[0], v[1], v[2])
	}
}

func (d *Device) UniformMatrix4(prog uint32, name string, m mgl32.Mat4) {
	if loc := d.location(prog, name); loc >= 0 {
		gl.ProgramUniformMatrix4fv(prog, loc, 1, false, &m[0])
	}
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
