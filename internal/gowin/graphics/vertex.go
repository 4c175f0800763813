package graphics

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// Vertex matches the playground shader input layout:
//
//	layout(location = 0) in vec2 position;
//	layout(location = 1) in vec2 uv;
//	layout(location = 2) in vec4 color;
//
// All values are float32 and packed tightly in this order.
type Vertex struct {
	Pos   mgl32.Vec2
	UV    mgl32.Vec2
	Color mgl32.Vec4
}

// VertexSize is the size of one Vertex in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

const (
	attribPos = iota
	attribUV
	attribColor
)

// setupVertexAttribs describes the Vertex layout on the currently bound
// vertex array and array buffer.
func setupVertexAttribs(gl glpkg.OpenGL) {
	gl.EnableVertexAttribArray(attribPos)
	gl.VertexAttribPointer(attribPos, 2, glpkg.Float, false, int32(VertexSize), unsafe.Offsetof(Vertex{}.Pos))
	gl.EnableVertexAttribArray(attribUV)
	gl.VertexAttribPointer(attribUV, 2, glpkg.Float, false, int32(VertexSize), unsafe.Offsetof(Vertex{}.UV))
	gl.EnableVertexAttribArray(attribColor)
	gl.VertexAttribPointer(attribColor, 4, glpkg.Float, false, int32(VertexSize), unsafe.Offsetof(Vertex{}.Color))
}
