package graphics

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// DefaultBatchCapacity is the vertex capacity used when none is given.
const DefaultBatchCapacity = 8 * 1024

// GPUBuffer receives the live prefix of a VertexBatch.
type GPUBuffer interface {
	SubData(offset int, data []byte)
}

// VertexBatch is a fixed-capacity, append-only vertex list rebuilt every
// frame and mirrored into a GPU buffer. Pushing past capacity panics.
type VertexBatch struct {
	verts []Vertex
	n     int
}

// NewVertexBatch returns an empty batch holding up to capacity vertices.
func NewVertexBatch(capacity int) *VertexBatch {
	if capacity <= 0 {
		capacity = DefaultBatchCapacity
	}
	return &VertexBatch{verts: make([]Vertex, capacity)}
}

// Clear resets the vertex count. Capacity and GPU storage are unchanged.
func (b *VertexBatch) Clear() { b.n = 0 }

func (b *VertexBatch) Len() int { return b.n }
func (b *VertexBatch) Cap() int { return len(b.verts) }

// Vertices returns the live vertices. The slice is only valid until the next
// Clear.
func (b *VertexBatch) Vertices() []Vertex { return b.verts[:b.n] }

func (b *VertexBatch) PushVertex(pos, uv mgl32.Vec2, color mgl32.Vec4) {
	if b.n >= len(b.verts) {
		panic(fmt.Sprintf("graphics: vertex batch overflow (capacity %d)", len(b.verts)))
	}
	b.verts[b.n] = Vertex{Pos: pos, UV: uv, Color: color}
	b.n++
}

// PushQuad appends the axis-aligned rectangle with corners p1 and p2 as two
// triangles a,b,c and b,c,d where a = p1, d = p2.
func (b *VertexBatch) PushQuad(p1, p2 mgl32.Vec2, color mgl32.Vec4) {
	if b.n+6 > len(b.verts) {
		panic(fmt.Sprintf("graphics: vertex batch overflow (capacity %d)", len(b.verts)))
	}
	va := p1
	vb := mgl32.Vec2{p2.X(), p1.Y()}
	vc := mgl32.Vec2{p1.X(), p2.Y()}
	vd := p2

	b.PushVertex(va, mgl32.Vec2{0, 0}, color)
	b.PushVertex(vb, mgl32.Vec2{1, 0}, color)
	b.PushVertex(vc, mgl32.Vec2{0, 1}, color)

	b.PushVertex(vb, mgl32.Vec2{1, 0}, color)
	b.PushVertex(vc, mgl32.Vec2{0, 1}, color)
	b.PushVertex(vd, mgl32.Vec2{1, 1}, color)
}

func (b *VertexBatch) PushQuadCentered(center, halfExtent mgl32.Vec2, color mgl32.Vec4) {
	b.PushQuad(center.Sub(halfExtent), center.Add(halfExtent), color)
}

// Bytes returns the live vertices as raw bytes.
func (b *VertexBatch) Bytes() []byte {
	if b.n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.verts[0])), b.n*VertexSize)
}

// Sync uploads exactly Len()*VertexSize bytes from offset 0.
func (b *VertexBatch) Sync(buf GPUBuffer) {
	buf.SubData(0, b.Bytes())
}

// vertexBuffer is a GL array buffer allocated once at full batch capacity.
type vertexBuffer struct {
	gl glpkg.OpenGL
	id uint32
}

func newVertexBuffer(gl glpkg.OpenGL, capacity int) *vertexBuffer {
	vb := &vertexBuffer{gl: gl}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(glpkg.ArrayBuffer, vb.id)
	gl.BufferData(glpkg.ArrayBuffer, capacity*VertexSize, nil, glpkg.DynamicDraw)
	return vb
}

func (vb *vertexBuffer) SubData(offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	vb.gl.BindBuffer(glpkg.ArrayBuffer, vb.id)
	vb.gl.BufferSubData(glpkg.ArrayBuffer, offset, len(data), unsafe.Pointer(&data[0]))
}

func (vb *vertexBuffer) destroy() {
	if vb.id != 0 {
		vb.gl.DeleteBuffers(1, &vb.id)
		vb.id = 0
	}
}
