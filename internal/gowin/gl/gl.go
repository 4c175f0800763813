// Package gl exposes the subset of the OpenGL 3.3 core profile used by the
// playground renderer. Entry points are resolved at runtime from the
// context's proc-address loader, so no cgo GL bindings are required.
package gl

import "unsafe"

// InfoLogSize is the largest shader or program info log retrieved from the
// driver, in bytes. Longer logs are truncated.
const InfoLogSize = 1024

const (
	False = 0
	True  = 1

	// Buffers
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	// Types
	Float          = 0x1406
	UnsignedByte   = 0x1401
	UnsignedInt    = 0x1405
	Triangles      = 0x0004
	ColorBufferBit = 0x4000

	// Shaders
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	// Textures
	Texture2D          = 0x0DE1
	Texture0           = 0x84C0
	TextureMinFilter   = 0x2801
	TextureMagFilter   = 0x2800
	TextureWrapS       = 0x2802
	TextureWrapT       = 0x2803
	TextureBorderColor = 0x1004
	Linear             = 0x2601
	Nearest            = 0x2600
	ClampToEdge        = 0x812F
	ClampToBorder      = 0x812D
	RGBA               = 0x1908
	RGBA8              = 0x8058
	MaxTextureSize     = 0x0D33
	PackAlignment      = 0x0D05
	UnpackAlignment    = 0x0CF5

	// Framebuffers
	Framebuffer         = 0x8D40
	ColorAttachment0    = 0x8CE0
	FramebufferComplete = 0x8CD5

	// Blending
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// Strings
	Vendor   = 0x1F00
	Renderer = 0x1F01
	Version  = 0x1F02

	// Debug output (ARB_debug_output / GL 4.3)
	DebugOutput            = 0x92E0
	DebugOutputSynchronous = 0x8242
	DebugTypeError         = 0x824C
)

// OpenGL is the GL entry-point table of a current context. All calls must be
// made from the thread that owns the context.
type OpenGL interface {
	ActiveTexture(texture uint32)
	AttachShader(program, shader uint32)
	BindBuffer(target, buffer uint32)
	BindFramebuffer(target, framebuffer uint32)
	BindTexture(target, texture uint32)
	BindVertexArray(array uint32)
	BlendFunc(sfactor, dfactor uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset, size int, data unsafe.Pointer)
	CheckFramebufferStatus(target uint32) uint32
	Clear(mask uint32)
	ClearColor(r, g, b, a float32)
	CompileShader(shader uint32)
	CreateProgram() uint32
	CreateShader(shaderType uint32) uint32
	DeleteBuffers(n int32, buffers *uint32)
	DeleteFramebuffers(n int32, framebuffers *uint32)
	DeleteProgram(program uint32)
	DeleteShader(shader uint32)
	DeleteTextures(n int32, textures *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	DrawArraysInstanced(mode uint32, first, count, instances int32)
	Enable(capability uint32)
	EnableVertexAttribArray(index uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	GenBuffers(n int32, buffers *uint32)
	GenFramebuffers(n int32, framebuffers *uint32)
	GenTextures(n int32, textures *uint32)
	GenVertexArrays(n int32, arrays *uint32)
	GetIntegerv(pname uint32, data *int32)
	GetProgramInfoLog(program uint32) string
	GetProgramiv(program, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	GetShaderiv(shader, pname uint32, params *int32)
	GetString(name uint32) string
	GetUniformLocation(program uint32, name string) int32
	LinkProgram(program uint32)
	PixelStorei(pname uint32, param int32)
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	ShaderSource(shader uint32, source string)
	TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	TexParameterfv(target, pname uint32, params *float32)
	TexParameteri(target, pname uint32, param int32)
	Uniform1f(location int32, v0 float32)
	Uniform1i(location int32, v0 int32)
	Uniform2f(location int32, v0, v1 float32)
	UseProgram(program uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	Viewport(x, y, width, height int32)
}

// DebugMessage is one message reported by the driver's debug output.
type DebugMessage struct {
	Source   uint32
	Type     uint32
	ID       uint32
	Severity uint32
	Message  string
}

// IsError reports whether the driver flagged the message as an API error.
func (m DebugMessage) IsError() bool {
	return m.Type == DebugTypeError
}

// Debugger is implemented by contexts that expose glDebugMessageCallback.
type Debugger interface {
	EnableDebugOutput(handler func(DebugMessage))
}
