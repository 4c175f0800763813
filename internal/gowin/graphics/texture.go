package graphics

import (
	"fmt"
	"image"
	"io"
	"os"
	"unsafe"

	// Registered decoders: anything image.Decode understands can be a texture.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// DecodeTexture decodes an image into tightly packed RGBA8 pixels. Images
// larger than maxSize on either side are scaled down to fit, keeping the
// aspect ratio. A maxSize of 0 disables scaling.
func DecodeTexture(r io.Reader, maxSize int) (*image.RGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode texture: empty %s image", format)
	}

	w, h := fitSize(b.Dx(), b.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst, nil
}

// LoadTexture reads and decodes an image file.
func LoadTexture(path string, maxSize int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := DecodeTexture(f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func fitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

type glTexture struct {
	id uint32
	w  int
	h  int
}

func (t *glTexture) Size() (int, int) {
	return t.w, t.h
}

// newTexture uploads img as a linearly filtered texture that samples
// transparent black outside [0, 1].
func newTexture(gl glpkg.OpenGL, img *image.RGBA) *glTexture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(glpkg.Texture2D, id)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, glpkg.ClampToBorder)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, glpkg.ClampToBorder)
	border := [4]float32{0, 0, 0, 0}
	gl.TexParameterfv(glpkg.Texture2D, glpkg.TextureBorderColor, &border[0])

	w, h := img.Rect.Dx(), img.Rect.Dy()
	gl.PixelStorei(glpkg.UnpackAlignment, 1)
	gl.TexImage2D(
		glpkg.Texture2D,
		0,
		glpkg.RGBA8,
		int32(w),
		int32(h),
		0,
		glpkg.RGBA,
		glpkg.UnsignedByte,
		unsafe.Pointer(&img.Pix[0]),
	)
	gl.BindTexture(glpkg.Texture2D, 0)

	return &glTexture{id: id, w: w, h: h}
}

func (t *glTexture) destroy(gl glpkg.OpenGL) {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}
