package graphics

import (
	"errors"
	"fmt"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// ErrFramebufferIncomplete is returned when the driver rejects an offscreen
// framebuffer. It is not retried.
var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// RenderTarget is an off-screen render target (FBO + color texture) that one
// pass renders into and the next samples from.
type RenderTarget struct {
	gl      glpkg.OpenGL
	fbo     uint32
	texture *glTexture
	width   int
	height  int
}

// NewRenderTarget creates a render target of the given size.
func NewRenderTarget(gl glpkg.OpenGL, width, height int) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size: %dx%d", width, height)
	}
	rt := &RenderTarget{gl: gl, width: width, height: height}
	if err := rt.create(); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *RenderTarget) create() error {
	gl := rt.gl

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(glpkg.Texture2D, texID)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, glpkg.ClampToEdge)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, glpkg.ClampToEdge)
	gl.TexImage2D(
		glpkg.Texture2D,
		0,
		glpkg.RGBA8,
		int32(rt.width),
		int32(rt.height),
		0,
		glpkg.RGBA,
		glpkg.UnsignedByte,
		nil,
	)
	gl.BindTexture(glpkg.Texture2D, 0)
	rt.texture = &glTexture{id: texID, w: rt.width, h: rt.height}

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(glpkg.Framebuffer, rt.fbo)
	gl.FramebufferTexture2D(
		glpkg.Framebuffer,
		glpkg.ColorAttachment0,
		glpkg.Texture2D,
		texID,
		0,
	)

	status := gl.CheckFramebufferStatus(glpkg.Framebuffer)
	gl.BindFramebuffer(glpkg.Framebuffer, 0)
	if status != glpkg.FramebufferComplete {
		rt.Destroy()
		return fmt.Errorf("%w: status 0x%X", ErrFramebufferIncomplete, status)
	}
	return nil
}

// Bind makes this render target the drawing destination and sets the
// viewport to cover it.
func (rt *RenderTarget) Bind() {
	rt.gl.BindFramebuffer(glpkg.Framebuffer, rt.fbo)
	rt.gl.Viewport(0, 0, int32(rt.width), int32(rt.height))
}

// Unbind restores the default framebuffer. The caller restores the viewport.
func (rt *RenderTarget) Unbind() {
	rt.gl.BindFramebuffer(glpkg.Framebuffer, 0)
}

// Texture returns the color attachment's texture name.
func (rt *RenderTarget) Texture() uint32 {
	if rt.texture == nil {
		return 0
	}
	return rt.texture.id
}

func (rt *RenderTarget) Size() (int, int) {
	return rt.width, rt.height
}

// Resize recreates the GPU storage at the new size.
func (rt *RenderTarget) Resize(width, height int) error {
	if width == rt.width && height == rt.height && rt.fbo != 0 {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid render target size: %dx%d", width, height)
	}
	rt.Destroy()
	rt.width = width
	rt.height = height
	return rt.create()
}

// Destroy releases GPU resources.
func (rt *RenderTarget) Destroy() {
	if rt.fbo != 0 {
		rt.gl.DeleteFramebuffers(1, &rt.fbo)
		rt.fbo = 0
	}
	if rt.texture != nil {
		rt.texture.destroy(rt.gl)
		rt.texture = nil
	}
}
