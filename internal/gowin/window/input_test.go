package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyQ, "Q"},
		{KeyA, "A"},
		{KeyF5, "F5"},
		{KeyF12, "F12"},
		{KeySpace, "Space"},
		{KeyLeft, "Left"},
		{KeyUnknown, "Key(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.String())
	}
}

func TestInputEventPressed(t *testing.T) {
	down := InputEvent{Type: InputEventKeyDown, Key: KeyF5}
	assert.True(t, down.Pressed(KeyF5))
	assert.False(t, down.Pressed(KeyF6))

	repeat := down
	repeat.Repeat = true
	assert.False(t, repeat.Pressed(KeyF5))

	up := InputEvent{Type: InputEventKeyUp, Key: KeyF5}
	assert.False(t, up.Pressed(KeyF5))
}

func TestGLFWKeyMapping(t *testing.T) {
	assert.Equal(t, KeyQ, glfwKeyToKey(glfw.KeyQ))
	assert.Equal(t, KeyR, glfwKeyToKey(glfw.KeyR))
	assert.Equal(t, KeyF5, glfwKeyToKey(glfw.KeyF5))
	assert.Equal(t, KeyF6, glfwKeyToKey(glfw.KeyF6))
	assert.Equal(t, KeySpace, glfwKeyToKey(glfw.KeySpace))
	assert.Equal(t, KeyRight, glfwKeyToKey(glfw.KeyRight))
	assert.Equal(t, KeyUnknown, glfwKeyToKey(glfw.KeyKP5))
}

func TestGLFWModsMapping(t *testing.T) {
	assert.Equal(t, ModShift|ModCtrl, glfwModsToMods(glfw.ModShift|glfw.ModControl))
	assert.Equal(t, KeyMods(0), glfwModsToMods(0))
}

func TestOnKeyQueuesEvents(t *testing.T) {
	g := &GLFW{}
	g.onKey(nil, glfw.KeyF5, 0, glfw.Press, 0)
	g.onKey(nil, glfw.KeyF5, 0, glfw.Repeat, 0)
	g.onKey(nil, glfw.KeyF5, 0, glfw.Release, 0)
	g.onKey(nil, glfw.KeyKP5, 0, glfw.Press, 0)

	events := g.DrainInputEvents()
	assert.Equal(t, []InputEvent{
		{Type: InputEventKeyDown, Key: KeyF5},
		{Type: InputEventKeyDown, Key: KeyF5, Repeat: true},
		{Type: InputEventKeyUp, Key: KeyF5},
	}, events)
	assert.Nil(t, g.DrainInputEvents())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, DefaultTitle, cfg.Title)

	cfg = Config{Width: 640, Height: 480, Title: "x"}.withDefaults()
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, "x", cfg.Title)
}
