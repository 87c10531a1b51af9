package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/liquidglass/graphics"
	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/media"
	"github.com/richinsley/liquidglass/options"
	"github.com/richinsley/liquidglass/shader"
)

var glInitOnce sync.Once

// Renderer draws the lens into a window every frame, shading either with the
// lens program on the GPU or with the software renderer.
type Renderer struct {
	context  graphics.Context
	pipeline *Pipeline
	backend  string

	quadVAO uint32

	// gpu backend
	lens *lensProgram

	// cpu backend
	software    *Software
	frame       *image.RGBA
	frameTex    *frameTexture
	blitProgram uint32

	frameCount int
}

// NewRenderer prepares the GL resources for the selected backend and routes
// the context's input to a new pipeline. src may be nil; Run reports that.
func NewRenderer(opts *options.LensOptions, ctx graphics.Context, src image.Image) (*Renderer, error) {
	fit, err := media.ParseFitMode(*opts.Fit)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		context: ctx,
		backend: *opts.Backend,
	}

	// Make the context current on this thread.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	slog.Info("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	width, height := ctx.GetFramebufferSize()
	r.pipeline = NewPipeline(src, fit, opts.LensDimensions(), inputs.ViewportSize{Width: width, Height: height})
	ctx.AttachInput(r.pipeline.Tracker, r.pipeline.Viewport, *opts.Hover)

	r.quadVAO = newQuad()

	switch r.backend {
	case options.BackendGPU:
		r.lens, err = newLensProgram(ctx.IsGLES())
		if err != nil {
			r.Shutdown()
			return nil, err
		}
	case options.BackendCPU:
		r.blitProgram, err = newProgram(shader.GenerateVertexShader(ctx.IsGLES()), shader.GetBlitFragmentShader(true, ctx.IsGLES()))
		if err != nil {
			r.Shutdown()
			return nil, fmt.Errorf("failed to create blit program: %w", err)
		}
		r.frameTex = newFrameTexture()
		r.software = NewSoftware(*opts.Workers)
	default:
		r.Shutdown()
		return nil, fmt.Errorf("%w: unknown backend %q", options.ErrInvalidOption, r.backend)
	}

	slog.Info("renderer ready", "backend", r.backend, "viewport", r.pipeline.Viewport.Size().String())
	return r, nil
}

// Pipeline returns the renderer's input pipeline.
func (r *Renderer) Pipeline() *Pipeline {
	return r.pipeline
}

// Run renders one frame per display refresh until the window closes. It
// returns ErrNoImage without drawing anything when there is no image.
func (r *Renderer) Run() error {
	if !r.pipeline.Ready() {
		slog.Error("cannot render", "error", ErrNoImage)
		return ErrNoImage
	}

	start := time.Now()
	for !r.context.ShouldClose() {
		if err := r.RenderFrame(); err != nil {
			return err
		}
		r.context.EndFrame()
	}

	elapsed := time.Since(start)
	slog.Info("render loop finished",
		"frames", r.frameCount,
		"uniform_builds", r.pipeline.Builder().Builds(),
		"fps", float64(r.frameCount)/max(elapsed.Seconds(), 1e-9))
	return nil
}

// RenderFrame shades the whole framebuffer once.
func (r *Renderer) RenderFrame() error {
	in, err := r.pipeline.Prepare()
	if err != nil {
		return err
	}
	if in.Image == nil {
		return nil
	}

	w, h := int32(in.Uniforms.Resolution[0]), int32(in.Uniforms.Resolution[1])
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, w, h)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	switch r.backend {
	case options.BackendGPU:
		if in.Refitted || in.Image.GetTextureID() == 0 {
			if err := in.Image.Upload(); err != nil {
				return fmt.Errorf("failed to upload image: %w", err)
			}
		}
		r.lens.draw(r.quadVAO, in.Uniforms, in.Image)
	case options.BackendCPU:
		size := in.Image.Size()
		if r.frame == nil || r.frame.Rect.Dx() != size.Width || r.frame.Rect.Dy() != size.Height {
			r.frame = image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
		}
		r.software.Render(r.frame, in.Uniforms, in.Image)
		r.frameTex.upload(r.frame)

		gl.UseProgram(r.blitProgram)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.frameTex.id)
		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	r.frameCount++
	return nil
}

// Snapshot writes the frame for the current pointer and viewport to output
// as a PNG. It shades on the CPU whatever the backend, so it needs no GL
// context and does not disturb the frame on screen.
func (r *Renderer) Snapshot(output string) error {
	sw := r.software
	if sw == nil {
		sw = NewSoftware(0)
		defer sw.Close()
	}
	return writeSnapshot(r.pipeline, sw, output)
}

// Shutdown releases GL objects, the worker pool and the image. The context
// itself is shut down by its owner.
func (r *Renderer) Shutdown() {
	if r.pipeline != nil {
		r.pipeline.Destroy()
	}
	if r.lens != nil {
		r.lens.destroy()
	}
	if r.blitProgram != 0 {
		gl.DeleteProgram(r.blitProgram)
	}
	if r.frameTex != nil {
		r.frameTex.destroy()
	}
	if r.software != nil {
		r.software.Close()
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	r.frame = nil
}
