package gfx

// Mesh is an owning handle to a vertex array and its single interleaved
// vertex buffer, drawn non-indexed.
type Mesh struct {
	dev   Device
	vao   uint32
	vbo   uint32
	mode  Primitive
	count int
}

// NewMesh uploads vertices with the given layout.
func NewMesh(dev Device, vertices []float32, layout VertexLayout, mode Primitive) *Mesh {
	vao, vbo := dev.CreateVertexArray(vertices, layout)
	return &Mesh{
		dev:   dev,
		vao:   vao,
		vbo:   vbo,
		mode:  mode,
		count: len(vertices) / layout.Floats(),
	}
}

// VertexCount is the number of vertices submitted per Draw.
func (m *Mesh) VertexCount() int { return m.count }

// Draw binds the vertex array, draws every vertex and unbinds.
func (m *Mesh) Draw() {
	m.dev.BindVertexArray(m.vao)
	m.dev.DrawArrays(m.mode, 0, m.count)
	m.dev.BindVertexArray(0)
}

// Release deletes the vertex array and buffer.
func (m *Mesh) Release() {
	if m.vao != 0 {
		m.dev.DeleteVertexArray(m.vao, m.vbo)
		m.vao, m.vbo = 0, 0
	}
}
