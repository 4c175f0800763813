package playground

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/shaderplay/internal/gowin/gl"
	"github.com/tinyrange/shaderplay/internal/gowin/gl/gltest"
	"github.com/tinyrange/shaderplay/internal/gowin/graphics"
	"github.com/tinyrange/shaderplay/internal/gowin/window"
)

const (
	vertSrc = `#version 330 core
layout(location = 0) in vec2 position;
layout(location = 1) in vec2 uv;
layout(location = 2) in vec4 color;
out vec2 frag_uv;
void main() { gl_Position = vec4(position, 0.0, 1.0); frag_uv = uv; }
`
	fragSrc = `#version 330 core
uniform vec2 resolution;
uniform float time;
uniform vec2 mouse;
uniform sampler2D tex;
out vec4 out_color;
void main() { out_color = vec4(mouse / resolution, sin(time), 1.0); }
`
	brokenSrc = "#version 330 core\n#error nope\n"
)

type fakeWindow struct {
	gl      *gltest.Fake
	glErr   error
	width   int
	height  int
	now     float64
	cursorX float32
	cursorY float32
	events  []window.InputEvent
	polls   int
	swaps   int
	closed  bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{gl: gltest.New(), width: 320, height: 240, now: 100}
}

func (w *fakeWindow) GL() (gl.OpenGL, error) {
	if w.glErr != nil {
		return nil, w.glErr
	}
	return w.gl, nil
}

func (w *fakeWindow) Close() { w.closed = true }

func (w *fakeWindow) Poll() bool {
	if w.polls <= 0 {
		return false
	}
	w.polls--
	return true
}

func (w *fakeWindow) Swap()                      { w.swaps++ }
func (w *fakeWindow) BackingSize() (int, int)    { return w.width, w.height }
func (w *fakeWindow) Cursor() (float32, float32) { return w.cursorX, w.cursorY }
func (w *fakeWindow) Time() float64              { return w.now }

func (w *fakeWindow) DrainInputEvents() []window.InputEvent {
	ev := w.events
	w.events = nil
	return ev
}

func (w *fakeWindow) press(keys ...window.Key) {
	for _, k := range keys {
		w.events = append(w.events, window.InputEvent{Type: window.InputEventKeyDown, Key: k})
	}
}

var _ window.Window = (*fakeWindow)(nil)

type project struct {
	dir  string
	conf string
	frag string
}

func newProject(t *testing.T, conf string) project {
	t.Helper()
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		return path
	}
	write("main.vert", vertSrc)
	return project{
		dir:  dir,
		frag: write("main.frag", fragSrc),
		conf: write("render.conf", conf),
	}
}

func (p project) setFrag(t *testing.T, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p.frag, []byte(src), 0o644))
}

func newTestApp(t *testing.T, win *fakeWindow, conf string, opts Options) (*App, project, *bytes.Buffer) {
	t.Helper()
	p := newProject(t, conf)
	var logs bytes.Buffer
	opts.ConfigPath = p.conf
	opts.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if opts.ScreenshotPath == "" {
		opts.ScreenshotPath = filepath.Join(p.dir, "screenshot.png")
	}
	if opts.Exit == nil {
		opts.Exit = func(int) { t.Fatal("unexpected exit") }
	}
	app, err := New(win, opts)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, p, &logs
}

func TestNewStartsReady(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "objects_count = 4\n", Options{})
	assert.Equal(t, graphics.StateReady, app.Renderer().State())
	assert.Equal(t, 4, app.Config().ObjectsCount)
}

func TestNewFailsWithoutGL(t *testing.T) {
	win := newFakeWindow()
	win.glErr = gl.ErrMissingFunctions
	_, err := New(win, Options{})
	assert.True(t, errors.Is(err, gl.ErrMissingFunctions))
}

func TestStepRendersScene(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "objects_count = 4\n", Options{})
	win.gl.Reset()
	win.now = 100.5
	win.cursorX, win.cursorY = 10, 20

	require.NoError(t, app.Step())
	assert.Equal(t, 1, win.swaps)
	assert.InDelta(t, 0.5, app.Time(), 1e-9, "time starts at zero")

	require.Len(t, win.gl.BufferWrites, 1)
	assert.Equal(t, (1+4)*6*graphics.VertexSize, win.gl.BufferWrites[0].Size)
	require.Len(t, win.gl.Draws, 1)
	assert.Equal(t, int32(30), win.gl.Draws[0].Count)

	var floats [][]float32
	for _, w := range win.gl.UniformWrites {
		if w.Floats != nil {
			floats = append(floats, w.Floats)
		}
	}
	assert.Contains(t, floats, []float32{320, 240})
	assert.Contains(t, floats, []float32{0.5})
	assert.Contains(t, floats, []float32{10, 20})
}

func TestPauseAndManualStep(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "", Options{})

	win.now = 101
	require.NoError(t, app.Step())
	assert.InDelta(t, 1.0, app.Time(), 1e-9)

	// Arrows do nothing unless paused.
	win.press(window.KeyRight)
	require.NoError(t, app.Step())
	assert.InDelta(t, 1.0, app.Time(), 1e-9)

	win.press(window.KeySpace, window.KeyRight, window.KeyRight, window.KeyLeft)
	win.now = 105
	require.NoError(t, app.Step())
	assert.True(t, app.Paused())
	assert.InDelta(t, 1.0+ManualTimeStep, app.Time(), 1e-9, "paused time only moves by steps")

	win.press(window.KeySpace)
	win.now = 106
	require.NoError(t, app.Step())
	assert.False(t, app.Paused())
	assert.InDelta(t, 2.0+ManualTimeStep, app.Time(), 1e-9)
}

func TestRepeatedKeysIgnored(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "", Options{})
	win.events = []window.InputEvent{{Type: window.InputEventKeyDown, Key: window.KeySpace, Repeat: true}}
	require.NoError(t, app.Step())
	assert.False(t, app.Paused())
}

func TestReloadKeyRecoversFromBrokenShader(t *testing.T) {
	win := newFakeWindow()
	app, p, logs := newTestApp(t, win, "", Options{})

	p.setFrag(t, brokenSrc)
	win.press(window.KeyF5)
	require.NoError(t, app.Step())
	assert.Equal(t, graphics.StateFailed, app.Renderer().State())
	assert.Contains(t, logs.String(), "failed to reload shaders")
	assert.Contains(t, logs.String(), "stage=fragment")

	win.gl.Reset()
	require.NoError(t, app.Step())
	assert.Empty(t, win.gl.Draws)
	require.NotEmpty(t, win.gl.Clears)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, win.gl.Clears[0].Color)

	p.setFrag(t, fragSrc)
	win.press(window.KeyF5)
	require.NoError(t, app.Step())
	assert.Equal(t, graphics.StateReady, app.Renderer().State())
}

func TestRevertKey(t *testing.T) {
	win := newFakeWindow()
	app, p, _ := newTestApp(t, win, "", Options{Renderer: graphics.Options{KeepLastGood: true}})
	good := app.Renderer().Program(0).ID

	p.setFrag(t, brokenSrc)
	win.press(window.KeyF5)
	require.NoError(t, app.Step())
	assert.Equal(t, graphics.StateFailed, app.Renderer().State())

	win.press(window.KeyR)
	require.NoError(t, app.Step())
	assert.Equal(t, graphics.StateReady, app.Renderer().State())
	assert.Equal(t, good, app.Renderer().Program(0).ID)
}

func TestRevertWithoutKeepLogs(t *testing.T) {
	win := newFakeWindow()
	app, p, logs := newTestApp(t, win, "", Options{})
	p.setFrag(t, brokenSrc)
	win.press(window.KeyF5, window.KeyR)
	require.NoError(t, app.Step())
	assert.Equal(t, graphics.StateFailed, app.Renderer().State())
	assert.Contains(t, logs.String(), "cannot revert")
}

func TestScreenshotKey(t *testing.T) {
	win := newFakeWindow()
	app, p, _ := newTestApp(t, win, "", Options{})
	win.press(window.KeyF6)
	require.NoError(t, app.Step())

	info, err := os.Stat(filepath.Join(p.dir, "screenshot.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestQuitKeyExitsImmediately(t *testing.T) {
	win := newFakeWindow()
	code := -1
	app, _, _ := newTestApp(t, win, "", Options{Exit: func(c int) { code = c }})
	win.press(window.KeyQ, window.KeySpace)
	require.NoError(t, app.Step())
	assert.Equal(t, 0, code)
	assert.False(t, app.Paused(), "events after Q are not handled")
}

func TestResizeFollowsWindow(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "", Options{})
	win.width, win.height = 800, 600
	require.NoError(t, app.Step())
	w, h := app.Renderer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Contains(t, win.gl.Viewports, [4]int32{0, 0, 800, 600})
}

func TestConfigWarningsAreLogged(t *testing.T) {
	win := newFakeWindow()
	_, _, logs := newTestApp(t, win, "object_size = 42.5\n#comment\nbad_key=1\n", Options{})
	out := logs.String()
	assert.Contains(t, out, `unknown key \"bad_key\"`)
	assert.Contains(t, out, "line=3")
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	win := newFakeWindow()
	p := newProject(t, "")
	require.NoError(t, os.Remove(p.conf))

	t.Chdir(p.dir)

	app, err := New(win, Options{ConfigPath: p.conf, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, graphics.StateReady, app.Renderer().State())
}

func TestMultiPassConfig(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "vert[1] = main.vert\nfrag[1] = main.frag\nobjects_count = 2\n", Options{})
	assert.Equal(t, 2, app.Renderer().Passes())

	win.gl.Reset()
	require.NoError(t, app.Step())
	require.Len(t, win.gl.Draws, 2)
	assert.Equal(t, int32(18), win.gl.Draws[0].Count)
	assert.Equal(t, int32(6), win.gl.Draws[1].Count)
}

func TestIncompleteFramebufferIsFatal(t *testing.T) {
	win := newFakeWindow()
	win.gl.FramebufferStatus = 0
	p := newProject(t, "vert[1] = main.vert\nfrag[1] = main.frag\n")
	_, err := New(win, Options{ConfigPath: p.conf, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})
	assert.True(t, errors.Is(err, graphics.ErrFramebufferIncomplete))
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	win := newFakeWindow()
	app, _, _ := newTestApp(t, win, "", Options{})
	win.polls = 3
	require.NoError(t, app.Run())
	assert.Equal(t, 3, win.swaps)
}
