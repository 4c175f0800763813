// Package gltest provides an in-memory gl.OpenGL that records the calls made
// against it, for exercising renderer code without a GPU.
package gltest

import (
	"regexp"
	"strings"
	"unsafe"

	"github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// BufferWrite records one BufferSubData call.
type BufferWrite struct {
	Buffer uint32
	Offset int
	Size   int
	Data   []byte
}

// UniformWrite records one glUniform* call.
type UniformWrite struct {
	Program  uint32
	Location int32
	Floats   []float32
	Ints     []int32
}

// Draw records one DrawArraysInstanced call together with the bound state.
type Draw struct {
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Texture     uint32
	First       int32
	Count       int32
	Instances   int32
}

// Clear records one Clear call.
type Clear struct {
	Framebuffer uint32
	Color       [4]float32
}

type shader struct {
	kind     uint32
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	uniforms map[string]int32
}

type texture struct {
	width, height int32
	params        map[uint32]int32
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)`)

// Fake implements gl.OpenGL. The zero value is not usable; call New.
type Fake struct {
	// CompileFails decides whether compiling source should fail. The default
	// fails any source containing "#error".
	CompileFails func(kind uint32, source string) bool
	// LinkFails decides whether linking should fail after both stages compiled.
	LinkFails func(vertex, fragment string) bool
	// FramebufferStatus is returned by CheckFramebufferStatus.
	FramebufferStatus uint32
	// MaxTexture is reported for gl.MaxTextureSize.
	MaxTexture int32

	next uint32

	shaders      map[uint32]*shader
	programs     map[uint32]*program
	buffers      map[uint32]int
	arrays       map[uint32]bool
	textures     map[uint32]*texture
	framebuffers map[uint32]uint32

	program     uint32
	arrayBuffer uint32
	vertexArray uint32
	framebuffer uint32
	texture     uint32
	clearColor  [4]float32
	enabled     map[uint32]bool

	BufferWrites    []BufferWrite
	UniformWrites   []UniformWrite
	Draws           []Draw
	Clears          []Clear
	Viewports       [][4]int32
	DeletedPrograms []uint32
	DeletedShaders  []uint32
	DeletedTextures []uint32
}

var _ gl.OpenGL = (*Fake)(nil)

// New returns a Fake whose framebuffers are complete and whose compiler
// rejects sources containing "#error".
func New() *Fake {
	return &Fake{
		CompileFails: func(_ uint32, source string) bool {
			return strings.Contains(source, "#error")
		},
		FramebufferStatus: gl.FramebufferComplete,
		MaxTexture:        4096,
		shaders:           make(map[uint32]*shader),
		programs:          make(map[uint32]*program),
		buffers:           make(map[uint32]int),
		arrays:            make(map[uint32]bool),
		textures:          make(map[uint32]*texture),
		framebuffers:      make(map[uint32]uint32),
		enabled:           make(map[uint32]bool),
	}
}

func (f *Fake) alloc() uint32 {
	f.next++
	return f.next
}

// LivePrograms returns the number of programs not yet deleted.
func (f *Fake) LivePrograms() int { return len(f.programs) }

// LiveShaders returns the number of shader objects not yet deleted.
func (f *Fake) LiveShaders() int { return len(f.shaders) }

// LiveTextures returns the number of textures not yet deleted.
func (f *Fake) LiveTextures() int { return len(f.textures) }

// BufferSize returns the storage size of buffer as set by BufferData.
func (f *Fake) BufferSize(buffer uint32) int { return f.buffers[buffer] }

// TextureSize returns the dimensions last uploaded to texture.
func (f *Fake) TextureSize(id uint32) (int32, int32) {
	t := f.textures[id]
	if t == nil {
		return 0, 0
	}
	return t.width, t.height
}

// TextureParam returns an integer parameter set on texture.
func (f *Fake) TextureParam(id, pname uint32) int32 {
	t := f.textures[id]
	if t == nil {
		return 0
	}
	return t.params[pname]
}

// CurrentProgram returns the program bound by UseProgram.
func (f *Fake) CurrentProgram() uint32 { return f.program }

// ClearColorValue returns the color set by the last ClearColor call.
func (f *Fake) ClearColorValue() [4]float32 { return f.clearColor }

// Enabled reports whether capability was passed to Enable.
func (f *Fake) Enabled(capability uint32) bool { return f.enabled[capability] }

// Reset forgets every recorded call but keeps live objects.
func (f *Fake) Reset() {
	f.BufferWrites = nil
	f.UniformWrites = nil
	f.Draws = nil
	f.Clears = nil
	f.Viewports = nil
	f.DeletedPrograms = nil
	f.DeletedShaders = nil
	f.DeletedTextures = nil
}

func (f *Fake) ActiveTexture(uint32) {}

func (f *Fake) AttachShader(prog, sh uint32) {
	if p := f.programs[prog]; p != nil {
		p.shaders = append(p.shaders, sh)
	}
}

func (f *Fake) BindBuffer(target, buffer uint32) {
	if target == gl.ArrayBuffer {
		f.arrayBuffer = buffer
	}
}

func (f *Fake) BindFramebuffer(_, framebuffer uint32) { f.framebuffer = framebuffer }
func (f *Fake) BindTexture(_, tex uint32)             { f.texture = tex }
func (f *Fake) BindVertexArray(array uint32)          { f.vertexArray = array }
func (f *Fake) BlendFunc(uint32, uint32)              {}

func (f *Fake) BufferData(target uint32, size int, _ unsafe.Pointer, _ uint32) {
	if target == gl.ArrayBuffer {
		f.buffers[f.arrayBuffer] = size
	}
}

func (f *Fake) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	if target != gl.ArrayBuffer {
		return
	}
	var copied []byte
	if data != nil && size > 0 {
		copied = append([]byte(nil), unsafe.Slice((*byte)(data), size)...)
	}
	f.BufferWrites = append(f.BufferWrites, BufferWrite{
		Buffer: f.arrayBuffer,
		Offset: offset,
		Size:   size,
		Data:   copied,
	})
}

func (f *Fake) CheckFramebufferStatus(uint32) uint32 { return f.FramebufferStatus }

func (f *Fake) Clear(uint32) {
	f.Clears = append(f.Clears, Clear{Framebuffer: f.framebuffer, Color: f.clearColor})
}

func (f *Fake) ClearColor(r, g, b, a float32) { f.clearColor = [4]float32{r, g, b, a} }

func (f *Fake) CompileShader(id uint32) {
	s := f.shaders[id]
	if s == nil {
		return
	}
	if f.CompileFails != nil && f.CompileFails(s.kind, s.source) {
		s.compiled = false
		s.log = "0:1(1): error: syntax error, unexpected token"
		return
	}
	s.compiled = true
	s.log = ""
}

func (f *Fake) CreateProgram() uint32 {
	id := f.alloc()
	f.programs[id] = &program{}
	return id
}

func (f *Fake) CreateShader(kind uint32) uint32 {
	id := f.alloc()
	f.shaders[id] = &shader{kind: kind}
	return id
}

func (f *Fake) DeleteBuffers(n int32, buffers *uint32) {
	for _, id := range unsafe.Slice(buffers, n) {
		delete(f.buffers, id)
	}
}

func (f *Fake) DeleteFramebuffers(n int32, framebuffers *uint32) {
	for _, id := range unsafe.Slice(framebuffers, n) {
		delete(f.framebuffers, id)
	}
}

func (f *Fake) DeleteProgram(id uint32) {
	if id == 0 {
		return
	}
	delete(f.programs, id)
	f.DeletedPrograms = append(f.DeletedPrograms, id)
}

func (f *Fake) DeleteShader(id uint32) {
	delete(f.shaders, id)
	f.DeletedShaders = append(f.DeletedShaders, id)
}

func (f *Fake) DeleteTextures(n int32, textures *uint32) {
	for _, id := range unsafe.Slice(textures, n) {
		delete(f.textures, id)
		f.DeletedTextures = append(f.DeletedTextures, id)
	}
}

func (f *Fake) DeleteVertexArrays(n int32, arrays *uint32) {
	for _, id := range unsafe.Slice(arrays, n) {
		delete(f.arrays, id)
	}
}

func (f *Fake) DrawArraysInstanced(_ uint32, first, count, instances int32) {
	f.Draws = append(f.Draws, Draw{
		Program:     f.program,
		VertexArray: f.vertexArray,
		Framebuffer: f.framebuffer,
		Texture:     f.texture,
		First:       first,
		Count:       count,
		Instances:   instances,
	})
}

func (f *Fake) Enable(capability uint32)       { f.enabled[capability] = true }
func (f *Fake) EnableVertexAttribArray(uint32) {}

func (f *Fake) FramebufferTexture2D(_, _, _, tex uint32, _ int32) {
	f.framebuffers[f.framebuffer] = tex
}

func (f *Fake) GenBuffers(n int32, buffers *uint32) {
	out := unsafe.Slice(buffers, n)
	for i := range out {
		out[i] = f.alloc()
		f.buffers[out[i]] = 0
	}
}

func (f *Fake) GenFramebuffers(n int32, framebuffers *uint32) {
	out := unsafe.Slice(framebuffers, n)
	for i := range out {
		out[i] = f.alloc()
		f.framebuffers[out[i]] = 0
	}
}

func (f *Fake) GenTextures(n int32, textures *uint32) {
	out := unsafe.Slice(textures, n)
	for i := range out {
		out[i] = f.alloc()
		f.textures[out[i]] = &texture{params: make(map[uint32]int32)}
	}
}

func (f *Fake) GenVertexArrays(n int32, arrays *uint32) {
	out := unsafe.Slice(arrays, n)
	for i := range out {
		out[i] = f.alloc()
		f.arrays[out[i]] = true
	}
}

func (f *Fake) GetIntegerv(pname uint32, data *int32) {
	if pname == gl.MaxTextureSize {
		*data = f.MaxTexture
	}
}

func (f *Fake) GetProgramInfoLog(id uint32) string {
	if p := f.programs[id]; p != nil {
		return p.log
	}
	return ""
}

func (f *Fake) GetProgramiv(id, pname uint32, params *int32) {
	p := f.programs[id]
	if p == nil {
		*params = 0
		return
	}
	switch pname {
	case gl.LinkStatus:
		*params = boolInt(p.linked)
	case gl.InfoLogLength:
		*params = int32(len(p.log))
	}
}

func (f *Fake) GetShaderInfoLog(id uint32) string {
	if s := f.shaders[id]; s != nil {
		return s.log
	}
	return ""
}

func (f *Fake) GetShaderiv(id, pname uint32, params *int32) {
	s := f.shaders[id]
	if s == nil {
		*params = 0
		return
	}
	switch pname {
	case gl.CompileStatus:
		*params = boolInt(s.compiled)
	case gl.InfoLogLength:
		*params = int32(len(s.log))
	}
}

func (f *Fake) GetString(name uint32) string {
	switch name {
	case gl.Version:
		return "3.3.0 gltest"
	case gl.Vendor:
		return "gltest"
	case gl.Renderer:
		return "gltest fake"
	}
	return ""
}

func (f *Fake) GetUniformLocation(id uint32, name string) int32 {
	p := f.programs[id]
	if p == nil || !p.linked {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (f *Fake) LinkProgram(id uint32) {
	p := f.programs[id]
	if p == nil {
		return
	}
	var vertex, fragment string
	for _, sid := range p.shaders {
		s := f.shaders[sid]
		if s == nil || !s.compiled {
			p.linked = false
			p.log = "error: linking with uncompiled shader"
			return
		}
		switch s.kind {
		case gl.VertexShader:
			vertex = s.source
		case gl.FragmentShader:
			fragment = s.source
		}
	}
	if f.LinkFails != nil && f.LinkFails(vertex, fragment) {
		p.linked = false
		p.log = "error: unresolved varying"
		return
	}
	p.linked = true
	p.uniforms = make(map[string]int32)
	var next int32
	for _, src := range []string{vertex, fragment} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := p.uniforms[m[1]]; !ok {
				p.uniforms[m[1]] = next
				next++
			}
		}
	}
}

func (f *Fake) PixelStorei(uint32, int32) {}

// ReadPixels fills row r (counted from the bottom, as GL does) with the byte
// value r in every channel.
func (f *Fake) ReadPixels(_, _, width, height int32, _, _ uint32, pixels unsafe.Pointer) {
	buf := unsafe.Slice((*byte)(pixels), int(width)*int(height)*4)
	stride := int(width) * 4
	for row := 0; row < int(height); row++ {
		for i := 0; i < stride; i++ {
			buf[row*stride+i] = byte(row)
		}
	}
}

func (f *Fake) ShaderSource(id uint32, source string) {
	if s := f.shaders[id]; s != nil {
		s.source = source
	}
}

func (f *Fake) TexImage2D(_ uint32, _, _, width, height, _ int32, _, _ uint32, _ unsafe.Pointer) {
	if t := f.textures[f.texture]; t != nil {
		t.width = width
		t.height = height
	}
}

func (f *Fake) TexParameterfv(uint32, uint32, *float32) {}

func (f *Fake) TexParameteri(_, pname uint32, param int32) {
	if t := f.textures[f.texture]; t != nil {
		t.params[pname] = param
	}
}

func (f *Fake) Uniform1f(location int32, v0 float32) {
	f.UniformWrites = append(f.UniformWrites, UniformWrite{Program: f.program, Location: location, Floats: []float32{v0}})
}

func (f *Fake) Uniform1i(location int32, v0 int32) {
	f.UniformWrites = append(f.UniformWrites, UniformWrite{Program: f.program, Location: location, Ints: []int32{v0}})
}

func (f *Fake) Uniform2f(location int32, v0, v1 float32) {
	f.UniformWrites = append(f.UniformWrites, UniformWrite{Program: f.program, Location: location, Floats: []float32{v0, v1}})
}

func (f *Fake) UseProgram(id uint32) { f.program = id }

func (f *Fake) VertexAttribPointer(uint32, int32, uint32, bool, int32, uintptr) {}

func (f *Fake) Viewport(x, y, width, height int32) {
	f.Viewports = append(f.Viewports, [4]int32{x, y, width, height})
}

func boolInt(v bool) int32 {
	if v {
		return gl.True
	}
	return gl.False
}
