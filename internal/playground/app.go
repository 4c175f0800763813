// Package playground runs the shader playground: it owns the window, the
// renderer and the mutable frame state, and drives one frame per Poll.
package playground

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tinyrange/shaderplay/internal/config"
	"github.com/tinyrange/shaderplay/internal/gowin/graphics"
	"github.com/tinyrange/shaderplay/internal/gowin/window"
)

// ManualTimeStep is how far Left/Right move time while paused, in seconds.
const ManualTimeStep = 0.1

const DefaultScreenshotPath = "screenshot.png"

type Options struct {
	// ConfigPath is the render config file. Empty means built-in defaults.
	ConfigPath     string
	ScreenshotPath string
	// Watch reloads whenever the config, a shader or the texture changes.
	Watch    bool
	Renderer graphics.Options
	Logger   *slog.Logger
	// Exit ends the process on Q. Nil means os.Exit.
	Exit func(code int)
}

// App is the playground's application context.
type App struct {
	win  window.Window
	r    *graphics.Renderer
	cfg  config.Config
	opts Options
	log  *slog.Logger

	// time is the simulated time fed to shaders; paused freezes it.
	time     float64
	prevTime float64
	paused   bool

	// center is the orbit center, trailing the mouse.
	center mgl32.Vec2

	screenshotPending bool
	watcher           *Watcher
}

// New creates the renderer for win and performs the first reload. A shader
// that fails to compile is not fatal: the app starts in the failed state and
// waits for a fix.
func New(win window.Window, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer.Logger == nil {
		opts.Renderer.Logger = opts.Logger
	}
	if opts.ScreenshotPath == "" {
		opts.ScreenshotPath = DefaultScreenshotPath
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	ctx, err := win.GL()
	if err != nil {
		return nil, fmt.Errorf("load gl: %w", err)
	}
	w, h := win.BackingSize()

	a := &App{
		win:      win,
		r:        graphics.NewRenderer(ctx, w, h, opts.Renderer),
		cfg:      config.Default(),
		opts:     opts,
		log:      opts.Logger,
		prevTime: win.Time(),
		center:   mgl32.Vec2{float32(w) / 2, float32(h) / 2},
	}

	if opts.Watch {
		a.watcher, err = NewWatcher(opts.Logger)
		if err != nil {
			a.r.Close()
			return nil, err
		}
	}

	if err := a.Reload(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Renderer() *graphics.Renderer { return a.r }
func (a *App) Config() config.Config        { return a.cfg }
func (a *App) Time() float64                { return a.time }
func (a *App) Paused() bool                 { return a.paused }

// Reload rereads the config file, rebuilds every shader pass and reloads the
// texture. Recoverable failures are logged; only an incomplete framebuffer is
// returned.
func (a *App) Reload() error {
	a.loadConfig()

	passes := a.cfg.ActivePasses()
	paths := make([]graphics.ShaderPaths, len(passes))
	for i, p := range passes {
		paths[i] = graphics.ShaderPaths{Vertex: p.Vert, Fragment: p.Frag}
	}
	if err := a.r.ReloadPasses(paths); err != nil {
		if errors.Is(err, graphics.ErrFramebufferIncomplete) {
			return err
		}
		a.logReloadError(err)
	}

	if a.cfg.Texture != "" {
		if err := a.r.ReloadTexture(a.cfg.Texture); err != nil {
			a.log.Error("failed to reload texture", "path", a.cfg.Texture, "error", err)
		}
	}

	if a.watcher != nil {
		files := a.cfg.Files()
		if a.opts.ConfigPath != "" {
			files = append(files, a.opts.ConfigPath)
		}
		if err := a.watcher.Watch(files); err != nil {
			a.log.Warn("failed to watch files", "error", err)
		}
	}
	return nil
}

func (a *App) loadConfig() {
	if a.opts.ConfigPath == "" {
		return
	}
	cfg, warns, err := config.Load(a.opts.ConfigPath)
	for _, w := range warns {
		a.log.Warn(w.Msg, "file", w.File, "line", w.Line, "column", w.Column)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.log.Info("no config file, using defaults", "path", a.opts.ConfigPath)
		} else {
			a.log.Error("failed to load config", "path", a.opts.ConfigPath, "error", err)
		}
		return
	}
	a.cfg = cfg
}

func (a *App) logReloadError(err error) {
	var d *graphics.Diagnostic
	if errors.As(err, &d) {
		a.log.Error("failed to reload shaders", "stage", d.Stage.String(), "path", d.Path, "log", d.Log)
		return
	}
	a.log.Error("failed to reload shaders", "error", err)
}

// Run steps frames until the window closes.
func (a *App) Run() error {
	for a.win.Poll() {
		if err := a.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one frame after events were polled: input, resize, time, scene,
// upload, uniforms, render, swap.
func (a *App) Step() error {
	if err := a.handleInput(a.win.DrainInputEvents()); err != nil {
		return err
	}
	if a.watcher != nil && a.watcher.Changed() {
		a.log.Info("files changed, reloading")
		if err := a.Reload(); err != nil {
			return err
		}
	}

	w, h := a.win.BackingSize()
	if err := a.r.Resize(w, h); err != nil {
		return err
	}
	w, h = a.r.Size()

	now := a.win.Time()
	dt := now - a.prevTime
	a.prevTime = now
	if !a.paused {
		a.time += dt
	}

	mx, my := a.win.Cursor()
	mouse := mgl32.Vec2{mx, my}
	a.buildScene(w, h, mouse, dt)

	a.r.Sync()
	a.r.SyncUniforms(graphics.Uniforms{
		Resolution: mgl32.Vec2{float32(w), float32(h)},
		Time:       float32(a.time),
		Mouse:      mouse,
		Texture:    0,
	})
	a.r.Render()

	if a.screenshotPending {
		a.screenshotPending = false
		a.saveScreenshot()
	}

	a.win.Swap()
	return nil
}

func (a *App) saveScreenshot() {
	img, err := a.r.Screenshot()
	if err != nil {
		a.log.Error("failed to take screenshot", "error", err)
		return
	}
	if err := graphics.SavePNG(a.opts.ScreenshotPath, img); err != nil {
		a.log.Error("failed to save screenshot", "path", a.opts.ScreenshotPath, "error", err)
		return
	}
	a.log.Info("saved screenshot", "path", a.opts.ScreenshotPath)
}

// Close releases the renderer and the watcher. The window stays open.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	a.r.Close()
}
