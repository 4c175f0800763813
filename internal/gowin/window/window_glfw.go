package window

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// GLFW is a Window backed by a GLFW window with a 3.3 core profile context.
type GLFW struct {
	win *glfw.Window
	gl  gl.OpenGL

	inputEvents []InputEvent
}

// New initializes GLFW and opens a window whose context is current on the
// calling thread. The caller must have locked the OS thread.
func New(cfg Config) (*GLFW, error) {
	cfg = cfg.withDefaults()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	slog.Info("opengl context",
		"major", win.GetAttrib(glfw.ContextVersionMajor),
		"minor", win.GetAttrib(glfw.ContextVersionMinor),
	)

	g := &GLFW{
		win:         win,
		inputEvents: make([]InputEvent, 0, 64),
	}
	win.SetKeyCallback(g.onKey)
	return g, nil
}

// GL loads the context's entry points on first use.
func (g *GLFW) GL() (gl.OpenGL, error) {
	if g.gl != nil {
		return g.gl, nil
	}
	ctx, err := gl.Load(procs{})
	if err != nil {
		return nil, err
	}
	g.gl = ctx
	return ctx, nil
}

// Poll pumps pending window events. Returns false once the window was asked
// to close.
func (g *GLFW) Poll() bool {
	if g.win == nil {
		return false
	}
	glfw.PollEvents()
	return !g.win.ShouldClose()
}

// Swap presents the back buffer.
func (g *GLFW) Swap() {
	if g.win != nil {
		g.win.SwapBuffers()
	}
}

// BackingSize returns the framebuffer size in pixels.
func (g *GLFW) BackingSize() (int, int) {
	if g.win == nil {
		return 0, 0
	}
	return g.win.GetFramebufferSize()
}

func (g *GLFW) Cursor() (float32, float32) {
	if g.win == nil {
		return 0, 0
	}
	x, y := g.win.GetCursorPos()
	ww, wh := g.win.GetSize()
	fw, fh := g.win.GetFramebufferSize()
	sx, sy := 1.0, 1.0
	if ww > 0 && wh > 0 {
		sx = float64(fw) / float64(ww)
		sy = float64(fh) / float64(wh)
	}
	return float32(x * sx), float32(fh) - float32(y*sy)
}

func (g *GLFW) Time() float64 { return glfw.GetTime() }

func (g *GLFW) DrainInputEvents() []InputEvent {
	if g == nil || len(g.inputEvents) == 0 {
		return nil
	}
	out := make([]InputEvent, len(g.inputEvents))
	copy(out, g.inputEvents)
	g.inputEvents = g.inputEvents[:0]
	return out
}

// Close destroys the window and terminates GLFW.
func (g *GLFW) Close() {
	if g.win == nil {
		return
	}
	g.win.Destroy()
	g.win = nil
	g.gl = nil
	glfw.Terminate()
}

func (g *GLFW) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKeyToKey(key)
	if k == KeyUnknown {
		return
	}
	ev := InputEvent{Key: k, Mods: glfwModsToMods(mods)}
	switch action {
	case glfw.Press:
		ev.Type = InputEventKeyDown
	case glfw.Repeat:
		ev.Type = InputEventKeyDown
		ev.Repeat = true
	case glfw.Release:
		ev.Type = InputEventKeyUp
	default:
		return
	}
	g.inputEvents = append(g.inputEvents, ev)
}

func glfwModsToMods(mods glfw.ModifierKey) KeyMods {
	var m KeyMods
	if mods&glfw.ModShift != 0 {
		m |= ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= ModSuper
	}
	return m
}

var glfwSpecialKeys = map[glfw.Key]Key{
	glfw.KeySpace:     KeySpace,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeyEscape:    KeyEscape,
	glfw.KeyBackspace: KeyBackspace,
	glfw.KeyTab:       KeyTab,
	glfw.KeyUp:        KeyUp,
	glfw.KeyDown:      KeyDown,
	glfw.KeyLeft:      KeyLeft,
	glfw.KeyRight:     KeyRight,
}

func glfwKeyToKey(key glfw.Key) Key {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return KeyA + Key(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return KeyF1 + Key(key-glfw.KeyF1)
	}
	if k, ok := glfwSpecialKeys[key]; ok {
		return k
	}
	return KeyUnknown
}

// procs resolves GL entry points for the current GLFW context.
type procs struct{}

func (procs) ProcAddress(name string) unsafe.Pointer { return glfw.GetProcAddress(name) }
func (procs) ExtensionSupported(ext string) bool     { return glfw.ExtensionSupported(ext) }

var _ Window = (*GLFW)(nil)
