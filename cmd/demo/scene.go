package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"deferred-renderer/internal/gfx"
)

// ── Shaders ──────────────────────────────────────────────────────────────────

const geometryVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 fragNormal;

void main() {
    fragNormal = mat3(transpose(inverse(model))) * inNormal;
    gl_Position = projection * view * model * vec4(inPosition, 1.0);
}
` + "\x00"

// Writes the G-buffer: world normal in colour 0, albedo and specular in 1.
const geometryFragSrc = `
#version 410 core
in vec3 fragNormal;

layout(location = 0) out vec4 gNormal;
layout(location = 1) out vec4 gAlbedoSpec;

uniform vec3 albedo;
uniform float specular;

void main() {
    gNormal = vec4(normalize(fragNormal), 1.0);
    gAlbedoSpec = vec4(albedo, specular);
}
` + "\x00"

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 lightSpace;
uniform mat4 model;

void main() {
    gl_Position = lightSpace * model * vec4(inPosition, 1.0);
}
` + "\x00"

const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

// ── Geometry ─────────────────────────────────────────────────────────────────

// cubeVertices holds 36 vertices of a unit cube: position xyz, normal xyz.
var cubeVertices = func() []float32 {
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {1, 1}, {-1, 1}, {-1, -1}}

	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		for _, c := range corners {
			p := f.n.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(0.5)
			out = append(out, p[0], p[1], p[2], f.n[0], f.n[1], f.n[2])
		}
	}
	return out
}()

var cubeLayout = gfx.VertexLayout{
	Stride: 6 * 4,
	Attribs: []gfx.VertexAttrib{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 3, Offset: 3 * 4},
	},
}

// ── Scene ────────────────────────────────────────────────────────────────────

type object struct {
	model    mgl32.Mat4
	albedo   mgl32.Vec3
	specular float32
}

// showcase is a floor with a ring of boxes. It fills the G-buffer and the
// shadow map.
type showcase struct {
	geometry *gfx.Program
	depth    *gfx.Program
	cube     *gfx.Mesh
	objects  []object
}

func newShowcase(dev gfx.Device) (*showcase, error) {
	geometry, err := gfx.NewProgram(dev, "demo.geometry", geometryVertSrc, geometryFragSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create geometry shader: %w", err)
	}
	depth, err := gfx.NewProgram(dev, "demo.depth", depthVertSrc, depthFragSrc)
	if err != nil {
		geometry.Release()
		return nil, fmt.Errorf("failed to create depth shader: %w", err)
	}

	s := &showcase{
		geometry: geometry,
		depth:    depth,
		cube:     gfx.NewMesh(dev, cubeVertices, cubeLayout, gfx.Triangles),
	}

	// Floor
	s.objects = append(s.objects, object{
		model:    mgl32.Translate3D(0, -0.55, 0).Mul4(mgl32.Scale3D(20, 0.1, 20)),
		albedo:   mgl32.Vec3{0.55, 0.55, 0.5},
		specular: 0.1,
	})

	palette := []mgl32.Vec3{
		{0.8, 0.2, 0.2},
		{0.2, 0.7, 0.3},
		{0.2, 0.4, 0.8},
		{0.9, 0.8, 0.3},
		{0.7, 0.3, 0.8},
		{0.9, 0.9, 0.9},
	}
	for i, c := range palette {
		angle := float32(i) / float32(len(palette)) * 2 * math32.Pi
		pos := mgl32.Vec3{3 * math32.Cos(angle), 0, 3 * math32.Sin(angle)}
		height := 1 + float32(i%3)*0.5
		s.objects = append(s.objects, object{
			model: mgl32.Translate3D(pos[0], (height-1)/2, pos[2]).
				Mul4(mgl32.HomogRotate3DY(angle)).
				Mul4(mgl32.Scale3D(1, height, 1)),
			albedo:   c,
			specular: 0.6,
		})
	}
	return s, nil
}

func (s *showcase) RenderGeometry(view, projection mgl32.Mat4) {
	s.geometry.Bind()
	s.geometry.SetMat4("view", view)
	s.geometry.SetMat4("projection", projection)
	for _, o := range s.objects {
		s.geometry.SetMat4("model", o.model)
		s.geometry.SetVec3("albedo", o.albedo)
		s.geometry.SetFloat("specular", o.specular)
		s.cube.Draw()
	}
}

func (s *showcase) RenderDepth(lightSpace mgl32.Mat4) {
	s.depth.Bind()
	s.depth.SetMat4("lightSpace", lightSpace)
	for _, o := range s.objects {
		s.depth.SetMat4("model", o.model)
		s.cube.Draw()
	}
}

func (s *showcase) Release() {
	s.cube.Release()
	s.depth.Release()
	s.geometry.Release()
}
