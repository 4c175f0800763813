package playground

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tinyrange/shaderplay/internal/gowin/graphics"
)

var objectColors = []mgl32.Vec4{
	graphics.ColorToVec4(graphics.ColorRed),
	graphics.ColorToVec4(graphics.ColorGreen),
	graphics.ColorToVec4(graphics.ColorBlue),
	graphics.ColorToVec4(graphics.ColorYellow),
	graphics.ColorToVec4(graphics.ColorCyan),
	graphics.ColorToVec4(graphics.ColorMagenta),
	graphics.ColorToVec4(graphics.ColorWhite),
}

// buildScene refills the batch: the full-screen canvas quad first, then
// ObjectsCount squares orbiting a center that trails the mouse. Positions are
// computed in pixels and pushed in clip space.
func (a *App) buildScene(width, height int, mouse mgl32.Vec2, dt float64) {
	b := a.r.Batch()
	b.Clear()
	b.PushQuad(mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}, mgl32.Vec4{})

	n := a.cfg.ObjectsCount
	if n == 0 || width <= 0 || height <= 0 {
		return
	}

	follow := float32(float64(a.cfg.FollowScale) * dt)
	follow = mgl32.Clamp(follow, 0, 1)
	a.center = a.center.Add(mouse.Sub(a.center).Mul(follow))

	toClip := mgl32.Vec2{2 / float32(width), 2 / float32(height)}
	half := mgl32.Vec2{a.cfg.ObjectSize / 2, a.cfg.ObjectSize / 2}
	halfClip := mgl32.Vec2{half.X() * toClip.X(), half.Y() * toClip.Y()}

	base := a.time * float64(a.cfg.RotateSpeed)
	for i := 0; i < n; i++ {
		angle := base + 2*math.Pi*float64(i)/float64(n)
		pos := a.center.Add(mgl32.Vec2{
			float32(math.Cos(angle)),
			float32(math.Sin(angle)),
		}.Mul(a.cfg.RotateRadius))
		clip := mgl32.Vec2{pos.X()*toClip.X() - 1, pos.Y()*toClip.Y() - 1}
		b.PushQuadCentered(clip, halfClip, objectColors[i%len(objectColors)])
	}
}
