package playground

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/shaderplay/internal/config"
	"github.com/tinyrange/shaderplay/internal/gowin/gl/gltest"
	"github.com/tinyrange/shaderplay/internal/gowin/graphics"
)

func sceneApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	r := graphics.NewRenderer(gltest.New(), 400, 200, graphics.Options{})
	t.Cleanup(r.Close)
	return &App{r: r, cfg: cfg, center: mgl32.Vec2{200, 100}}
}

func TestSceneCanvasFirst(t *testing.T) {
	cfg := config.Default()
	cfg.ObjectsCount = 3
	a := sceneApp(t, cfg)
	a.buildScene(400, 200, mgl32.Vec2{200, 100}, 0)

	v := a.r.Batch().Vertices()
	require.Len(t, v, 6*4)
	assert.Equal(t, mgl32.Vec2{-1, -1}, v[0].Pos)
	assert.Equal(t, mgl32.Vec2{1, 1}, v[5].Pos)
	assert.Equal(t, mgl32.Vec4{}, v[0].Color)
	assert.Equal(t, graphics.ColorToVec4(graphics.ColorRed), v[6].Color)
}

func TestSceneNoObjects(t *testing.T) {
	a := sceneApp(t, config.Default())
	a.buildScene(400, 200, mgl32.Vec2{}, 1)
	assert.Equal(t, 6, a.r.Batch().Len())
}

func TestSceneOrbitPositions(t *testing.T) {
	cfg := config.Default()
	cfg.ObjectsCount = 1
	cfg.RotateRadius = 100
	cfg.ObjectSize = 20
	a := sceneApp(t, cfg)
	a.buildScene(400, 200, mgl32.Vec2{200, 100}, 0)

	// time 0 puts the single object at angle 0: (300, 100) in pixels.
	quad := a.r.Batch().Vertices()[6:12]
	assert.InDelta(t, 0.45, quad[0].Pos.X(), 1e-5)
	assert.InDelta(t, -0.1, quad[0].Pos.Y(), 1e-5)
	assert.InDelta(t, 0.55, quad[5].Pos.X(), 1e-5)
	assert.InDelta(t, 0.1, quad[5].Pos.Y(), 1e-5)
}

func TestSceneCenterFollowsMouse(t *testing.T) {
	cfg := config.Default()
	cfg.ObjectsCount = 1
	cfg.FollowScale = 4
	a := sceneApp(t, cfg)

	a.buildScene(400, 200, mgl32.Vec2{300, 100}, 0.125)
	assert.InDelta(t, 250, a.center.X(), 1e-4, "half way at scale*dt = 0.5")

	a.buildScene(400, 200, mgl32.Vec2{300, 100}, 10)
	assert.InDelta(t, 300, a.center.X(), 1e-4, "factor clamps to 1")
}
