package graphics

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// ErrFailed wraps every error that leaves the renderer in StateFailed.
var ErrFailed = errors.New("renderer failed")

// MaxPasses is the longest pass pipeline a renderer runs. Every pass but the
// last renders into an offscreen target sampled by the next.
const MaxPasses = 3

// canvasVertices is the vertex count of the full-screen quad that later
// passes redraw. Scenes push it first.
const canvasVertices = 6

// State is the renderer's reload state.
type State int

const (
	// StateFailed: the last reload failed, or none happened yet. Draws are
	// skipped and the screen is cleared to ColorError.
	StateFailed State = iota
	// StateReady: the last reload succeeded and draws execute.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ShaderPaths names the sources of one pass.
type ShaderPaths struct {
	Vertex   string
	Fragment string
}

type Options struct {
	// Capacity is the vertex batch capacity. Zero means DefaultBatchCapacity.
	Capacity int
	// KeepLastGood keeps the working programs alive across a failed reload so
	// Revert can restore them. Otherwise they are deleted before recompiling.
	KeepLastGood bool
	// MaxTextureSize caps texture dimensions below the driver limit.
	MaxTextureSize int
	Logger         *slog.Logger
}

// Renderer owns one vertex array, one vertex buffer mirroring its batch, the
// pass programs, an optional texture and the offscreen targets between
// passes. All methods must be called on the GL thread.
type Renderer struct {
	gl   glpkg.OpenGL
	log  *slog.Logger
	opts Options

	vao   uint32
	vbo   *vertexBuffer
	batch *VertexBatch

	state    State
	passes   []Program
	targets  []*RenderTarget
	texture  *glTexture
	uniforms Uniforms

	width  int
	height int
}

// NewRenderer allocates the renderer's buffers for a framebuffer of the given
// size. It starts in StateFailed until the first successful reload.
func NewRenderer(gl glpkg.OpenGL, width, height int, opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		gl:     gl,
		log:    log,
		opts:   opts,
		batch:  NewVertexBatch(opts.Capacity),
		state:  StateFailed,
		width:  width,
		height: height,
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	r.vbo = newVertexBuffer(gl, r.batch.Cap())
	setupVertexAttribs(gl)

	gl.Viewport(0, 0, int32(width), int32(height))
	return r
}

// Batch returns the vertex batch drawn by the renderer.
func (r *Renderer) Batch() *VertexBatch { return r.batch }

func (r *Renderer) State() State { return r.state }

// Passes returns the number of passes of the current pipeline.
func (r *Renderer) Passes() int { return len(r.passes) }

// Program returns the program of pass i.
func (r *Renderer) Program(i int) Program { return r.passes[i] }

func (r *Renderer) Size() (int, int) { return r.width, r.height }

func (r *Renderer) setState(s State) {
	if r.state != s {
		r.log.Debug("renderer state", "from", r.state, "to", s)
	}
	r.state = s
}

// Reload replaces the pipeline with a single pass built from the two files.
func (r *Renderer) Reload(vertexPath, fragmentPath string) error {
	return r.ReloadPasses([]ShaderPaths{{Vertex: vertexPath, Fragment: fragmentPath}})
}

// ReloadPasses rebuilds every pass. The new programs replace the old ones
// only once all of them compiled and linked; on failure the renderer enters
// StateFailed and the returned error wraps ErrFailed and any *Diagnostic.
func (r *Renderer) ReloadPasses(paths []ShaderPaths) error {
	if len(paths) == 0 || len(paths) > MaxPasses {
		r.setState(StateFailed)
		return fmt.Errorf("%w: %d shader passes, want 1 to %d", ErrFailed, len(paths), MaxPasses)
	}
	if !r.opts.KeepLastGood {
		r.deletePasses()
	}

	progs := make([]Program, 0, len(paths))
	for i, p := range paths {
		prog, err := LoadProgram(r.gl, p.Vertex, p.Fragment)
		if err != nil {
			r.deletePrograms(progs)
			r.setState(StateFailed)
			return fmt.Errorf("%w: pass %d: %w", ErrFailed, i, err)
		}
		progs = append(progs, prog)
	}

	if err := r.resizeTargets(len(progs) - 1); err != nil {
		r.deletePrograms(progs)
		r.setState(StateFailed)
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}

	r.deletePasses()
	r.passes = progs
	r.setState(StateReady)
	r.log.Info("reloaded shaders", "passes", len(progs))
	return nil
}

// Revert returns to StateReady with the programs of the last successful
// reload. It needs KeepLastGood.
func (r *Renderer) Revert() error {
	if r.state == StateReady {
		return nil
	}
	if len(r.passes) == 0 {
		return fmt.Errorf("%w: no working program to revert to", ErrFailed)
	}
	r.setState(StateReady)
	r.log.Info("reverted to last good shaders", "passes", len(r.passes))
	return nil
}

func (r *Renderer) deletePrograms(progs []Program) {
	for _, p := range progs {
		r.gl.DeleteProgram(p.ID)
	}
}

func (r *Renderer) deletePasses() {
	r.deletePrograms(r.passes)
	r.passes = nil
}

func (r *Renderer) resizeTargets(n int) error {
	for len(r.targets) > n {
		last := len(r.targets) - 1
		r.targets[last].Destroy()
		r.targets = r.targets[:last]
	}
	for len(r.targets) < n {
		rt, err := NewRenderTarget(r.gl, r.width, r.height)
		if err != nil {
			return err
		}
		r.targets = append(r.targets, rt)
	}
	return nil
}

func (r *Renderer) maxTextureSize() int {
	var limit int32
	r.gl.GetIntegerv(glpkg.MaxTextureSize, &limit)
	size := int(limit)
	if r.opts.MaxTextureSize > 0 && (size <= 0 || r.opts.MaxTextureSize < size) {
		size = r.opts.MaxTextureSize
	}
	return size
}

// ReloadTexture decodes path and replaces the first pass's texture. On error
// the previous texture stays bound.
func (r *Renderer) ReloadTexture(path string) error {
	img, err := LoadTexture(path, r.maxTextureSize())
	if err != nil {
		return fmt.Errorf("reload texture: %w", err)
	}
	tex := newTexture(r.gl, img)
	r.texture.destroy(r.gl)
	r.texture = tex
	r.log.Info("reloaded texture", "path", path, "width", tex.w, "height", tex.h)
	return nil
}

// TextureSize returns the size of the loaded texture, or zeros.
func (r *Renderer) TextureSize() (int, int) {
	if r.texture == nil {
		return 0, 0
	}
	return r.texture.Size()
}

// SyncUniforms writes this frame's uniforms into the first pass's program.
// Uniforms the program does not use are skipped.
func (r *Renderer) SyncUniforms(u Uniforms) {
	r.uniforms = u
	if r.state != StateReady {
		return
	}
	r.passes[0].Apply(r.gl, u)
}

// Sync uploads the batch's live vertices.
func (r *Renderer) Sync() {
	r.batch.Sync(r.vbo)
}

// Draw issues one draw of the whole batch with the current program. It emits
// nothing when Failed or when the batch is empty.
func (r *Renderer) Draw() {
	r.draw(r.batch.Len())
}

func (r *Renderer) draw(count int) {
	if r.state != StateReady || count == 0 {
		return
	}
	r.gl.BindVertexArray(r.vao)
	r.gl.DrawArraysInstanced(glpkg.Triangles, 0, int32(count), 1)
}

func (r *Renderer) clear() {
	c := ColorToVec4(ColorClear)
	if r.state != StateReady {
		c = ColorToVec4(ColorError)
	}
	r.gl.ClearColor(c[0], c[1], c[2], c[3])
	r.gl.Clear(glpkg.ColorBufferBit)
}

func (r *Renderer) bindScreen() {
	r.gl.BindFramebuffer(glpkg.Framebuffer, 0)
	r.gl.Viewport(0, 0, int32(r.width), int32(r.height))
}

// Render runs the pass pipeline for one frame. The first pass draws the whole
// batch sampling the loaded texture; each later pass redraws the canvas quad
// sampling the previous pass's output. The last pass targets the screen.
func (r *Renderer) Render() {
	if r.state != StateReady {
		r.bindScreen()
		r.clear()
		return
	}

	for i, prog := range r.passes {
		if i < len(r.targets) {
			r.targets[i].Bind()
		} else {
			r.bindScreen()
		}
		r.clear()

		r.gl.ActiveTexture(glpkg.Texture0)
		count := r.batch.Len()
		if i == 0 {
			var id uint32
			if r.texture != nil {
				id = r.texture.id
			}
			r.gl.BindTexture(glpkg.Texture2D, id)
			r.gl.UseProgram(prog.ID)
		} else {
			r.gl.BindTexture(glpkg.Texture2D, r.targets[i-1].Texture())
			u := r.uniforms
			u.Texture = 0
			prog.Apply(r.gl, u)
			count = min(count, canvasVertices)
		}
		r.draw(count)
	}
	r.gl.BindTexture(glpkg.Texture2D, 0)
}

// Resize updates the viewport and offscreen targets to a new framebuffer
// size. A zero size (minimized window) is ignored.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return nil
	}
	r.width, r.height = width, height
	r.gl.Viewport(0, 0, int32(width), int32(height))
	for _, rt := range r.targets {
		if err := rt.Resize(width, height); err != nil {
			return fmt.Errorf("resize render target: %w", err)
		}
	}
	r.log.Debug("resized", "width", width, "height", height)
	return nil
}

// Screenshot reads back the screen framebuffer.
func (r *Renderer) Screenshot() (*image.RGBA, error) {
	r.gl.BindFramebuffer(glpkg.Framebuffer, 0)
	return Screenshot(r.gl, r.width, r.height)
}

// Close releases every GPU object the renderer owns.
func (r *Renderer) Close() {
	r.deletePasses()
	r.resizeTargets(0)
	r.texture.destroy(r.gl)
	r.texture = nil
	r.vbo.destroy()
	if r.vao != 0 {
		r.gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	r.state = StateFailed
}
