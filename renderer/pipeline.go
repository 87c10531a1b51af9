package renderer

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/media"
)

// ErrNoImage is returned when there is no image to render.
var ErrNoImage = errors.New("no image to render")

// Pipeline connects the input side (pointer, viewport) to the per-frame
// uniforms and the image fitted to the viewport. It holds no GL state, so both
// the window loop and the offscreen modes drive the same pipeline.
type Pipeline struct {
	Tracker  *inputs.Tracker
	Viewport *inputs.Viewport

	builder *inputs.UniformBuilder
	scene   *Scene
}

// NewPipeline sets up a pipeline for a size×size viewport with the lens
// starting at the viewport center. src may be nil, in which case Ready
// reports false.
func NewPipeline(src image.Image, fit media.FitMode, lens mgl32.Vec2, size inputs.ViewportSize) *Pipeline {
	center := mgl32.Vec2{float32(size.Width) / 2, float32(size.Height) / 2}
	return &Pipeline{
		Tracker:  inputs.NewTracker(center),
		Viewport: inputs.NewViewport(size.Width, size.Height),
		builder:  inputs.NewUniformBuilder(lens),
		scene:    NewScene(src, fit),
	}
}

// Ready reports whether the pipeline has an image.
func (p *Pipeline) Ready() bool {
	return p.scene.Ready()
}

// Scene returns the pipeline's scene.
func (p *Pipeline) Scene() *Scene {
	return p.scene
}

// Builder returns the uniform builder.
func (p *Pipeline) Builder() *inputs.UniformBuilder {
	return p.builder
}

// FrameInput is everything one frame is shaded from.
type FrameInput struct {
	Uniforms inputs.FrameUniforms
	// Image is nil while the viewport is empty, as when a window is
	// minimized; such frames are skipped.
	Image inputs.IChannel
	// Refitted is set when Image was rebuilt for a new viewport size and
	// must be uploaded again.
	Refitted bool
}

// Prepare returns the input for the next frame. The image is refitted when
// the viewport size differs from the one it was fitted to.
func (p *Pipeline) Prepare() (FrameInput, error) {
	if !p.Ready() {
		return FrameInput{}, ErrNoImage
	}

	in := FrameInput{Uniforms: p.builder.Current(p.Tracker, p.Viewport)}
	size := inputs.ViewportSize{Width: int(in.Uniforms.Resolution[0]), Height: int(in.Uniforms.Resolution[1])}
	if size.Empty() {
		return in, nil
	}

	if p.scene.Channel() == nil || p.scene.Size() != size {
		if err := p.scene.Refit(size); err != nil {
			return in, err
		}
		in.Refitted = true
	}
	in.Image = p.scene.Channel()
	return in, nil
}

// Destroy releases the scene.
func (p *Pipeline) Destroy() {
	p.scene.Destroy()
}
