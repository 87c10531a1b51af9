// inputs/image.go
package inputs

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

const inv255 = 1.0 / 255.0

// ImageChannel is the static image under the lens. The pixels are never
// modified after construction; the shader only references them.
type ImageChannel struct {
	rgba      *image.RGBA
	width     int
	height    int
	textureID uint32
}

// NewImageChannel copies img into an RGBA bitmap. Sampling uses
// clamp-to-edge addressing and nearest filtering on both the CPU and the GPU.
func NewImageChannel(img image.Image) (*ImageChannel, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("input image is empty (%v)", b)
	}

	// Convert source image to RGBA with a zero origin so pixel (x, y) of the
	// channel is Pix[y*Stride+x*4].
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}

	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	return &ImageChannel{rgba: rgba, width: w, height: h}, nil
}

// Sample returns the premultiplied color of the texel containing coord.
// Coordinates past an edge read the nearest edge texel.
func (c *ImageChannel) Sample(coord mgl32.Vec2) mgl32.Vec4 {
	x := clampIndex(coord[0], c.width)
	y := clampIndex(coord[1], c.height)
	i := y*c.rgba.Stride + x*4
	p := c.rgba.Pix[i : i+4 : i+4]
	return mgl32.Vec4{
		float32(p[0]) * inv255,
		float32(p[1]) * inv255,
		float32(p[2]) * inv255,
		float32(p[3]) * inv255,
	}
}

func clampIndex(v float32, n int) int {
	f := math.Floor(float64(v))
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f >= float64(n-1):
		return n - 1
	}
	return int(f)
}

// Upload creates the OpenGL texture for the channel. A GL context must be
// current on the calling thread.
func (c *ImageChannel) Upload() error {
	if c.textureID != 0 {
		return nil
	}
	id, err := newTexture(c.rgba, "clamp", "nearest")
	if err != nil {
		return fmt.Errorf("failed to upload image channel: %w", err)
	}
	c.textureID = id
	slog.Debug("uploaded image channel", "size", c.Size(), "texture", id)
	return nil
}

// --- IChannel Interface Implementation ---

func (c *ImageChannel) Size() ViewportSize {
	return ViewportSize{Width: c.width, Height: c.height}
}

func (c *ImageChannel) GetTextureID() uint32 {
	return c.textureID
}

func (c *ImageChannel) Destroy() {
	if c.textureID != 0 {
		gl.DeleteTextures(1, &c.textureID)
		c.textureID = 0
	}
	c.rgba = nil
}
