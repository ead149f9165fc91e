package renderer

import "deferred-renderer/internal/gfx"

// quadVertices is a full-screen quad as a triangle strip: position xyz then
// texture coordinate uv per vertex.
var quadVertices = []float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

var quadLayout = gfx.VertexLayout{
	Stride: 5 * 4,
	Attribs: []gfx.VertexAttrib{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 2, Offset: 3 * 4},
	},
}

func newQuad(dev gfx.Device) *gfx.Mesh {
	return gfx.NewMesh(dev, quadVertices, quadLayout, gfx.TriangleStrip)
}

// skyboxVertices holds 36 positions (xyz) for a unit cube, CCW from outside.
var skyboxVertices = []float32{
	// -Z face
	-1, -1, -1, 1, 1, -1, 1, -1, -1,
	1, 1, -1, -1, -1, -1, -1, 1, -1,
	// +Z face
	-1, -1, 1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, -1, 1,
	// -X face
	-1, 1, 1, -1, 1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, 1, -1, 1, 1,
	// +X face
	1, 1, 1, 1, -1, -1, 1, 1, -1,
	1, -1, -1, 1, 1, 1, 1, -1, 1,
	// -Y face
	-1, -1, -1, 1, -1, -1, 1, -1, 1,
	1, -1, 1, -1, -1, 1, -1, -1, -1,
	// +Y face
	-1, 1, -1, 1, 1, 1, 1, 1, -1,
	1, 1, 1, -1, 1, -1, -1, 1, 1,
}

var skyboxLayout = gfx.VertexLayout{
	Stride:  3 * 4,
	Attribs: []gfx.VertexAttrib{{Location: 0, Components: 3, Offset: 0}},
}
