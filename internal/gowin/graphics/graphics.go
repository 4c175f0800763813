package graphics

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorToVec4 converts a color.Color to straight RGBA float32 values in the
// range [0, 1].
func ColorToVec4(c color.Color) mgl32.Vec4 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return mgl32.Vec4{
		float32(n.R) / 0xff,
		float32(n.G) / 0xff,
		float32(n.B) / 0xff,
		float32(n.A) / 0xff,
	}
}

// Clear colors. The error color is shown while the renderer is Failed so a
// broken shader is visible at a glance.
var (
	ColorClear = color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	ColorError = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// Palette used for scene objects.
var (
	ColorWhite   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorRed     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	ColorGreen   = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	ColorBlue    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	ColorYellow  = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	ColorCyan    = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	ColorMagenta = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
)
