package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-renderer/internal/gfx"
)

// Skybox draws a cubemap behind the lit scene. The vertex shader puts every
// fragment on the far plane, so with LEQUAL depth testing the sky only
// shows where the G-buffer depth is still cleared.
type Skybox struct {
	dev     gfx.Device
	program *gfx.Program
	cube    *gfx.Mesh
	tex     *gfx.Texture
}

// NewSkybox compiles the skybox shader and uploads the cube. It takes
// ownership of the cubemap.
func NewSkybox(dev gfx.Device, cubemap *gfx.Texture) (*Skybox, error) {
	if cubemap == nil {
		return nil, fmt.Errorf("skybox: %w", gfx.ErrNilTexture)
	}
	if cubemap.Kind() != gfx.TextureCube {
		return nil, fmt.Errorf("skybox: %s is not a cubemap", cubemap.Name())
	}
	prog, err := gfx.NewProgram(dev, "skybox", skyVertSrc, skyFragSrc)
	if err != nil {
		return nil, err
	}
	return &Skybox{
		dev:     dev,
		program: prog,
		cube:    gfx.NewMesh(dev, skyboxVertices, skyboxLayout, gfx.Triangles),
		tex:     cubemap,
	}, nil
}

// Texture returns the cubemap.
func (sb *Skybox) Texture() *gfx.Texture { return sb.tex }

// Render draws the sky with the translation stripped from view. The depth
// function is LEQUAL while drawing and LESS afterwards.
func (sb *Skybox) Render(view, projection mgl32.Mat4) {
	sb.dev.SetDepthFunc(gfx.DepthLessEqual)

	sb.program.Bind()
	sb.program.SetMat4("view", view.Mat3().Mat4())
	sb.program.SetMat4("projection", projection)

	sb.tex.Bind()
	sb.program.SetSampler("skyboxTex", sb.tex)

	sb.cube.Draw()
	sb.tex.Unbind()

	sb.dev.SetDepthFunc(gfx.DepthLess)
}

// Release frees the shader, cube and cubemap.
func (sb *Skybox) Release() {
	sb.cube.Release()
	sb.program.Release()
	sb.tex.Release()
}
