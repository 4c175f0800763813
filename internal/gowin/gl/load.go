package gl

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrMissingFunctions is returned by Load when the driver does not provide
// one or more required entry points.
var ErrMissingFunctions = errors.New("gl: required functions missing")

// ProcLoader resolves entry points for the GL context current on the
// calling thread.
type ProcLoader interface {
	ProcAddress(name string) unsafe.Pointer
	ExtensionSupported(extension string) bool
}

type context struct {
	activeTexture           func(texture uint32)
	attachShader            func(program, shader uint32)
	bindBuffer              func(target, buffer uint32)
	bindFramebuffer         func(target, framebuffer uint32)
	bindTexture             func(target, texture uint32)
	bindVertexArray         func(array uint32)
	blendFunc               func(sfactor, dfactor uint32)
	bufferData              func(target uint32, size uintptr, data unsafe.Pointer, usage uint32)
	bufferSubData           func(target uint32, offset, size uintptr, data unsafe.Pointer)
	checkFramebufferStatus  func(target uint32) uint32
	clear                   func(mask uint32)
	clearColor              func(r, g, b, a float32)
	compileShader           func(shader uint32)
	createProgram           func() uint32
	createShader            func(shaderType uint32) uint32
	deleteBuffers           func(n int32, buffers *uint32)
	deleteFramebuffers      func(n int32, framebuffers *uint32)
	deleteProgram           func(program uint32)
	deleteShader            func(shader uint32)
	deleteTextures          func(n int32, textures *uint32)
	deleteVertexArrays      func(n int32, arrays *uint32)
	drawArraysInstanced     func(mode uint32, first, count, instances int32)
	enable                  func(capability uint32)
	enableVertexAttribArray func(index uint32)
	framebufferTexture2D    func(target, attachment, textarget, texture uint32, level int32)
	genBuffers              func(n int32, buffers *uint32)
	genFramebuffers         func(n int32, framebuffers *uint32)
	genTextures             func(n int32, textures *uint32)
	genVertexArrays         func(n int32, arrays *uint32)
	getIntegerv             func(pname uint32, data *int32)
	getProgramInfoLog       func(program uint32, bufSize int32, length *int32, infoLog *byte)
	getProgramiv            func(program, pname uint32, params *int32)
	getShaderInfoLog        func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	getShaderiv             func(shader, pname uint32, params *int32)
	getString               func(name uint32) *byte
	getUniformLocation      func(program uint32, name *byte) int32
	linkProgram             func(program uint32)
	pixelStorei             func(pname uint32, param int32)
	readPixels              func(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	shaderSource            func(shader uint32, count int32, sources **byte, lengths *int32)
	texImage2D              func(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	texParameterfv          func(target, pname uint32, params *float32)
	texParameteri           func(target, pname uint32, param int32)
	uniform1f               func(location int32, v0 float32)
	uniform1i               func(location int32, v0 int32)
	uniform2f               func(location int32, v0, v1 float32)
	useProgram              func(program uint32)
	vertexAttribPointer     func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	viewport                func(x, y, width, height int32)

	debugMessageCallback func(callback uintptr, userParam unsafe.Pointer)
}

type binding struct {
	name string
	fn   any
}

func (c *context) bindings() []binding {
	return []binding{
		{"glActiveTexture", &c.activeTexture},
		{"glAttachShader", &c.attachShader},
		{"glBindBuffer", &c.bindBuffer},
		{"glBindFramebuffer", &c.bindFramebuffer},
		{"glBindTexture", &c.bindTexture},
		{"glBindVertexArray", &c.bindVertexArray},
		{"glBlendFunc", &c.blendFunc},
		{"glBufferData", &c.bufferData},
		{"glBufferSubData", &c.bufferSubData},
		{"glCheckFramebufferStatus", &c.checkFramebufferStatus},
		{"glClear", &c.clear},
		{"glClearColor", &c.clearColor},
		{"glCompileShader", &c.compileShader},
		{"glCreateProgram", &c.createProgram},
		{"glCreateShader", &c.createShader},
		{"glDeleteBuffers", &c.deleteBuffers},
		{"glDeleteFramebuffers", &c.deleteFramebuffers},
		{"glDeleteProgram", &c.deleteProgram},
		{"glDeleteShader", &c.deleteShader},
		{"glDeleteTextures", &c.deleteTextures},
		{"glDeleteVertexArrays", &c.deleteVertexArrays},
		{"glDrawArraysInstanced", &c.drawArraysInstanced},
		{"glEnable", &c.enable},
		{"glEnableVertexAttribArray", &c.enableVertexAttribArray},
		{"glFramebufferTexture2D", &c.framebufferTexture2D},
		{"glGenBuffers", &c.genBuffers},
		{"glGenFramebuffers", &c.genFramebuffers},
		{"glGenTextures", &c.genTextures},
		{"glGenVertexArrays", &c.genVertexArrays},
		{"glGetIntegerv", &c.getIntegerv},
		{"glGetProgramInfoLog", &c.getProgramInfoLog},
		{"glGetProgramiv", &c.getProgramiv},
		{"glGetShaderInfoLog", &c.getShaderInfoLog},
		{"glGetShaderiv", &c.getShaderiv},
		{"glGetString", &c.getString},
		{"glGetUniformLocation", &c.getUniformLocation},
		{"glLinkProgram", &c.linkProgram},
		{"glPixelStorei", &c.pixelStorei},
		{"glReadPixels", &c.readPixels},
		{"glShaderSource", &c.shaderSource},
		{"glTexImage2D", &c.texImage2D},
		{"glTexParameterfv", &c.texParameterfv},
		{"glTexParameteri", &c.texParameteri},
		{"glUniform1f", &c.uniform1f},
		{"glUniform1i", &c.uniform1i},
		{"glUniform2f", &c.uniform2f},
		{"glUseProgram", &c.useProgram},
		{"glVertexAttribPointer", &c.vertexAttribPointer},
		{"glViewport", &c.viewport},
	}
}

// Load resolves every entry point the renderer needs. It fails with
// ErrMissingFunctions, naming each absent function, if any is unavailable.
//
// When the context advertises ARB_debug_output the returned value also
// implements Debugger.
func Load(procs ProcLoader) (OpenGL, error) {
	c := &context{}

	table := c.bindings()
	addrs := make([]uintptr, len(table))
	var missing []string
	for i, b := range table {
		addr := procs.ProcAddress(b.name)
		if addr == nil {
			missing = append(missing, b.name)
			continue
		}
		addrs[i] = uintptr(addr)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFunctions, strings.Join(missing, ", "))
	}
	for i, b := range table {
		purego.RegisterFunc(b.fn, addrs[i])
	}

	if procs.ExtensionSupported("GL_ARB_debug_output") {
		if addr := procs.ProcAddress("glDebugMessageCallback"); addr != nil {
			purego.RegisterFunc(&c.debugMessageCallback, uintptr(addr))
			return &debugContext{context: c}, nil
		}
	}
	return c, nil
}

// cString copies a NUL-terminated string owned by the driver.
func cString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func logString(buf []byte, n int32) string {
	if n < 0 {
		n = 0
	}
	if int(n) > len(buf) {
		n = int32(len(buf))
	}
	return string(buf[:n])
}

func (c *context) ActiveTexture(texture uint32) { c.activeTexture(texture) }
func (c *context) AttachShader(program, shader uint32) { c.attachShader(program, shader) }
func (c *context) BindBuffer(target, buffer uint32) { c.bindBuffer(target, buffer) }
func (c *context) BindFramebuffer(target, framebuffer uint32) {
	c.bindFramebuffer(target, framebuffer)
}
func (c *context) BindTexture(target, texture uint32) { c.bindTexture(target, texture) }
func (c *context) BindVertexArray(array uint32) { c.bindVertexArray(array) }
func (c *context) BlendFunc(sfactor, dfactor uint32) { c.blendFunc(sfactor, dfactor) }

func (c *context) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	c.bufferData(target, uintptr(size), data, usage)
}

func (c *context) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	c.bufferSubData(target, uintptr(offset), uintptr(size), data)
}

func (c *context) CheckFramebufferStatus(target uint32) uint32 {
	return c.checkFramebufferStatus(target)
}

func (c *context) Clear(mask uint32) { c.clear(mask) }
func (c *context) ClearColor(r, g, b, a float32) { c.clearColor(r, g, b, a) }
func (c *context) CompileShader(shader uint32) { c.compileShader(shader) }
func (c *context) CreateProgram() uint32 { return c.createProgram() }
func (c *context) CreateShader(kind uint32) uint32 { return c.createShader(kind) }

func (c *context) DeleteBuffers(n int32, buffers *uint32) { c.deleteBuffers(n, buffers) }
func (c *context) DeleteFramebuffers(n int32, framebuffers *uint32) {
	c.deleteFramebuffers(n, framebuffers)
}
func (c *context) DeleteProgram(program uint32) { c.deleteProgram(program) }
func (c *context) DeleteShader(shader uint32) { c.deleteShader(shader) }
func (c *context) DeleteTextures(n int32, textures *uint32) { c.deleteTextures(n, textures) }
func (c *context) DeleteVertexArrays(n int32, arrays *uint32) { c.deleteVertexArrays(n, arrays) }

func (c *context) DrawArraysInstanced(mode uint32, first, count, instances int32) {
	c.drawArraysInstanced(mode, first, count, instances)
}

func (c *context) Enable(capability uint32) { c.enable(capability) }
func (c *context) EnableVertexAttribArray(index uint32) { c.enableVertexAttribArray(index) }

func (c *context) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	c.framebufferTexture2D(target, attachment, textarget, texture, level)
}

func (c *context) GenBuffers(n int32, buffers *uint32) { c.genBuffers(n, buffers) }
func (c *context) GenFramebuffers(n int32, framebuffers *uint32) {
	c.genFramebuffers(n, framebuffers)
}
func (c *context) GenTextures(n int32, textures *uint32) { c.genTextures(n, textures) }
func (c *context) GenVertexArrays(n int32, arrays *uint32) { c.genVertexArrays(n, arrays) }
func (c *context) GetIntegerv(pname uint32, data *int32) { c.getIntegerv(pname, data) }

func (c *context) GetProgramInfoLog(program uint32) string {
	buf := make([]byte, InfoLogSize)
	var n int32
	c.getProgramInfoLog(program, InfoLogSize, &n, &buf[0])
	return logString(buf, n)
}

func (c *context) GetProgramiv(program, pname uint32, params *int32) {
	c.getProgramiv(program, pname, params)
}

func (c *context) GetShaderInfoLog(shader uint32) string {
	buf := make([]byte, InfoLogSize)
	var n int32
	c.getShaderInfoLog(shader, InfoLogSize, &n, &buf[0])
	return logString(buf, n)
}

func (c *context) GetShaderiv(shader, pname uint32, params *int32) {
	c.getShaderiv(shader, pname, params)
}

func (c *context) GetString(name uint32) string { return cString(c.getString(name)) }

func (c *context) GetUniformLocation(program uint32, name string) int32 {
	cname := append([]byte(name), 0)
	loc := c.getUniformLocation(program, &cname[0])
	runtime.KeepAlive(cname)
	return loc
}

func (c *context) LinkProgram(program uint32) { c.linkProgram(program) }
func (c *context) PixelStorei(pname uint32, param int32) { c.pixelStorei(pname, param) }

func (c *context) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	c.readPixels(x, y, width, height, format, xtype, pixels)
}

func (c *context) ShaderSource(shader uint32, source string) {
	src := append([]byte(source), 0)
	ptr := &src[0]
	length := int32(len(source))
	c.shaderSource(shader, 1, &ptr, &length)
	runtime.KeepAlive(src)
}

func (c *context) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	c.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (c *context) TexParameterfv(target, pname uint32, params *float32) {
	c.texParameterfv(target, pname, params)
}

func (c *context) TexParameteri(target, pname uint32, param int32) {
	c.texParameteri(target, pname, param)
}

func (c *context) Uniform1f(location int32, v0 float32) { c.uniform1f(location, v0) }
func (c *context) Uniform1i(location int32, v0 int32) { c.uniform1i(location, v0) }
func (c *context) Uniform2f(location int32, v0, v1 float32) { c.uniform2f(location, v0, v1) }
func (c *context) UseProgram(program uint32) { c.useProgram(program) }

func (c *context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	c.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (c *context) Viewport(x, y, width, height int32) { c.viewport(x, y, width, height) }

type debugContext struct {
	*context
}

var (
	debugOnce     sync.Once
	debugCallback uintptr
	debugMu       sync.Mutex
	debugHandler  func(DebugMessage)
)

// EnableDebugOutput routes driver debug messages to handler. The driver may
// invoke handler from inside any GL call.
func (c *debugContext) EnableDebugOutput(handler func(DebugMessage)) {
	debugMu.Lock()
	debugHandler = handler
	debugMu.Unlock()

	debugOnce.Do(func() {
		debugCallback = purego.NewCallback(func(source, xtype, id, severity, length, message, userParam uintptr) uintptr {
			debugMu.Lock()
			h := debugHandler
			debugMu.Unlock()
			if h == nil {
				return 0
			}
			h(DebugMessage{
				Source:   uint32(source),
				Type:     uint32(xtype),
				ID:       uint32(id),
				Severity: uint32(severity),
				Message:  cString((*byte)(unsafe.Pointer(message))),
			})
			return 0
		})
	})

	c.enable(DebugOutput)
	c.enable(DebugOutputSynchronous)
	c.debugMessageCallback(debugCallback, nil)
}
