package window

import "github.com/tinyrange/shaderplay/internal/gowin/gl"

type Window interface {
	GL() (gl.OpenGL, error)
	Close()
	Poll() bool
	Swap()
	BackingSize() (width, height int)
	// Cursor returns the mouse position in backing pixels with the origin at
	// the bottom-left corner.
	Cursor() (x, y float32)
	// Time returns seconds since the window system was initialized.
	Time() float64
	DrainInputEvents() []InputEvent
}

// Config describes the window to create.
type Config struct {
	Title  string
	Width  int
	Height int
	// VSync syncs Swap to the display refresh.
	VSync bool
	// Debug requests a debug context so driver messages can be forwarded.
	Debug bool
}

const (
	DefaultWidth  = 1600
	DefaultHeight = 900
	DefaultTitle  = "OpenGL Template"
)

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	return c
}
