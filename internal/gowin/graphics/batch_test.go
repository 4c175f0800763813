package graphics

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
	"github.com/tinyrange/shaderplay/internal/gowin/gl/gltest"
)

type recordingBuffer struct {
	offsets []int
	sizes   []int
	data    [][]byte
}

func (r *recordingBuffer) SubData(offset int, data []byte) {
	r.offsets = append(r.offsets, offset)
	r.sizes = append(r.sizes, len(data))
	r.data = append(r.data, append([]byte(nil), data...))
}

func TestVertexSize(t *testing.T) {
	assert.Equal(t, 32, VertexSize)
	assert.Equal(t, uintptr(8), unsafe.Offsetof(Vertex{}.UV))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(Vertex{}.Color))
}

func TestBatchClearAndRefill(t *testing.T) {
	for _, capacity := range []int{1, 6, 7, 64} {
		b := NewVertexBatch(capacity)
		for i := 0; i < capacity; i++ {
			b.PushVertex(mgl32.Vec2{float32(i), 0}, mgl32.Vec2{}, mgl32.Vec4{})
		}
		require.Equal(t, capacity, b.Len())

		b.Clear()
		assert.Equal(t, 0, b.Len())
		assert.Equal(t, capacity, b.Cap())

		for i := 0; i < capacity; i++ {
			b.PushVertex(mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec4{})
		}
		assert.Equal(t, capacity, b.Len())
	}
}

func TestBatchOverflowPanics(t *testing.T) {
	b := NewVertexBatch(2)
	b.PushVertex(mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec4{})
	b.PushVertex(mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec4{})
	assert.Panics(t, func() {
		b.PushVertex(mgl32.Vec2{}, mgl32.Vec2{}, mgl32.Vec4{})
	})

	q := NewVertexBatch(11)
	q.PushQuad(mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}, mgl32.Vec4{})
	assert.Panics(t, func() {
		q.PushQuad(mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}, mgl32.Vec4{})
	})
	assert.Equal(t, 6, q.Len(), "a quad that does not fit pushes nothing")
}

func TestPushQuadWinding(t *testing.T) {
	color := mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
	tests := []struct {
		name   string
		p1, p2 mgl32.Vec2
	}{
		{"lower-left first", mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}},
		{"upper-right first", mgl32.Vec2{1, 1}, mgl32.Vec2{-1, -1}},
		{"mixed", mgl32.Vec2{-0.5, 2}, mgl32.Vec2{3, -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewVertexBatch(6)
			b.PushQuad(tt.p1, tt.p2, color)
			v := b.Vertices()
			require.Len(t, v, 6)

			a := tt.p1
			bb := mgl32.Vec2{tt.p2.X(), tt.p1.Y()}
			c := mgl32.Vec2{tt.p1.X(), tt.p2.Y()}
			d := tt.p2
			assert.Equal(t, []mgl32.Vec2{a, bb, c, bb, c, d},
				[]mgl32.Vec2{v[0].Pos, v[1].Pos, v[2].Pos, v[3].Pos, v[4].Pos, v[5].Pos})
			assert.Equal(t, []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 0}, {0, 1}, {1, 1}},
				[]mgl32.Vec2{v[0].UV, v[1].UV, v[2].UV, v[3].UV, v[4].UV, v[5].UV})
			for _, vert := range v {
				assert.Equal(t, color, vert.Color)
			}
		})
	}
}

func TestPushQuadCentered(t *testing.T) {
	b := NewVertexBatch(6)
	b.PushQuadCentered(mgl32.Vec2{10, 20}, mgl32.Vec2{2, 3}, mgl32.Vec4{1, 1, 1, 1})
	v := b.Vertices()
	assert.Equal(t, mgl32.Vec2{8, 17}, v[0].Pos)
	assert.Equal(t, mgl32.Vec2{12, 23}, v[5].Pos)
}

func TestBatchSyncUploadsLivePrefix(t *testing.T) {
	b := NewVertexBatch(64)
	for _, k := range []int{1, 6, 13} {
		b.Clear()
		for i := 0; i < k; i++ {
			b.PushVertex(mgl32.Vec2{float32(i), 1}, mgl32.Vec2{}, mgl32.Vec4{})
		}
		buf := &recordingBuffer{}
		b.Sync(buf)
		require.Len(t, buf.sizes, 1)
		assert.Equal(t, 0, buf.offsets[0])
		assert.Equal(t, k*VertexSize, buf.sizes[0])
	}
}

func TestVertexBufferSubData(t *testing.T) {
	fake := gltest.New()
	vb := newVertexBuffer(fake, 16)
	assert.Equal(t, 16*VertexSize, fake.BufferSize(vb.id))

	b := NewVertexBatch(16)
	b.PushQuad(mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}, mgl32.Vec4{})
	b.Sync(vb)

	require.Len(t, fake.BufferWrites, 1)
	w := fake.BufferWrites[0]
	assert.Equal(t, vb.id, w.Buffer)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 6*VertexSize, w.Size)
	assert.Equal(t, b.Bytes(), w.Data)

	b.Clear()
	b.Sync(vb)
	assert.Len(t, fake.BufferWrites, 1, "an empty batch uploads nothing")

	vb.destroy()
	assert.Equal(t, uint32(0), vb.id)
}

func TestColorToVec4(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, ColorToVec4(ColorError))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0}, ColorToVec4(ColorClear))
}

var _ glpkg.OpenGL = gltest.New()
