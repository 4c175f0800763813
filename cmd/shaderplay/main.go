package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/tinyrange/shaderplay/internal/gowin/gl"
	"github.com/tinyrange/shaderplay/internal/gowin/graphics"
	"github.com/tinyrange/shaderplay/internal/gowin/window"
	"github.com/tinyrange/shaderplay/internal/playground"
)

// Version is the application version, injected at build time via -ldflags.
var Version = "dev"

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func newLogHandler(w io.Writer, format string, level slog.Level, tty bool) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "auto":
		if tty {
			return slog.NewTextHandler(w, opts), nil
		}
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func logDebugMessage(m gl.DebugMessage) {
	attrs := []any{"source", m.Source, "type", m.Type, "id", m.ID, "severity", m.Severity}
	if m.IsError() {
		slog.Error("gl: "+m.Message, attrs...)
		return
	}
	slog.Debug("gl: "+m.Message, attrs...)
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "render.conf", "render config file (key = value or .yaml)")
	width := fs.Int("width", window.DefaultWidth, "initial window width")
	height := fs.Int("height", window.DefaultHeight, "initial window height")
	title := fs.String("title", window.DefaultTitle, "window title")
	watch := fs.Bool("watch", false, "reload when the config, a shader or the texture changes")
	debug := fs.Bool("debug", false, "enable debug logging")
	glDebug := fs.Bool("gl-debug", false, "request a debug context and log driver messages")
	logFormat := fs.String("log-format", "auto", "log format: auto, text or json")
	keepLastGood := fs.Bool("keep-last-good", true, "keep the last shaders that compiled so R can revert to them")
	maxTexture := fs.Int("max-texture-size", 0, "downscale textures larger than this (0 uses the driver limit)")
	screenshot := fs.String("screenshot", playground.DefaultScreenshotPath, "path F6 writes screenshots to")
	vsync := fs.Bool("vsync", true, "wait for vertical sync on swap")
	version := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *version {
		fmt.Println(Version)
		return nil
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	handler, err := newLogHandler(os.Stderr, *logFormat, level, term.IsTerminal(int(os.Stderr.Fd())))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))

	win, err := window.New(window.Config{
		Title:  *title,
		Width:  *width,
		Height: *height,
		VSync:  *vsync,
		Debug:  *glDebug,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	ctx, err := win.GL()
	if err != nil {
		return err
	}
	slog.Info("opengl",
		"version", ctx.GetString(gl.Version),
		"vendor", ctx.GetString(gl.Vendor),
		"renderer", ctx.GetString(gl.Renderer),
	)

	ctx.Enable(gl.Blend)
	ctx.BlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)

	if *glDebug {
		if d, ok := ctx.(gl.Debugger); ok {
			d.EnableDebugOutput(logDebugMessage)
		} else {
			slog.Warn("gl debug output not supported by this context")
		}
	}

	app, err := playground.New(win, playground.Options{
		ConfigPath:     *configPath,
		ScreenshotPath: *screenshot,
		Watch:          *watch,
		Renderer: graphics.Options{
			KeepLastGood:   *keepLastGood,
			MaxTextureSize: *maxTexture,
		},
	})
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run()
}

func main() {
	if err := run(); err != nil {
		slog.Error("shaderplay failed", "error", err)
		os.Exit(1)
	}
}
