package graphics

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"unsafe"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// Screenshot reads back the bound framebuffer and returns it top row first.
func Screenshot(gl glpkg.OpenGL, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screenshot: invalid size %dx%d", width, height)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(glpkg.PackAlignment, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), glpkg.RGBA, glpkg.UnsignedByte, unsafe.Pointer(&rgba.Pix[0]))

	// GL rows start at the bottom.
	flipped := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcStart := y * rgba.Stride
		dstStart := (height - 1 - y) * flipped.Stride
		copy(flipped.Pix[dstStart:dstStart+flipped.Stride], rgba.Pix[srcStart:srcStart+rgba.Stride])
	}
	return flipped, nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
