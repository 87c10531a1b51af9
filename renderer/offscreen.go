package renderer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/media"
	"github.com/richinsley/liquidglass/options"
)

// numBuffers is how many rendered frames may wait for the encoder.
const numBuffers = 4

// Frame is one rendered RGBA frame on its way to the encoder.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// RunOffscreen renders without a window on the CPU, either a single PNG
// (snapshot mode) or a video driven by a scripted pointer path (record mode).
func RunOffscreen(ctx context.Context, opts *options.LensOptions, src image.Image) error {
	if src == nil {
		slog.Error("cannot render", "error", ErrNoImage)
		return ErrNoImage
	}
	fit, err := media.ParseFitMode(*opts.Fit)
	if err != nil {
		return err
	}
	size := inputs.ViewportSize{Width: *opts.Width, Height: *opts.Height}
	p := NewPipeline(src, fit, opts.LensDimensions(), size)
	defer p.Destroy()

	sw := NewSoftware(*opts.Workers)
	defer sw.Close()

	switch *opts.Mode {
	case options.ModeSnapshot:
		if pos, ok, err := opts.PointerPosition(); err != nil {
			return err
		} else if ok {
			p.Tracker.OnPointerMove(pos[0], pos[1])
		}
		return writeSnapshot(p, sw, opts.Output())
	case options.ModeRecord:
		path, err := inputs.ParseGesturePath(*opts.Path)
		if err != nil {
			return err
		}
		total := int(*opts.Duration * float64(*opts.FPS))
		return runRecordMode(ctx, opts, p, sw, path, total)
	default:
		return fmt.Errorf("%w: mode %q has no offscreen renderer", options.ErrInvalidOption, *opts.Mode)
	}
}

// RenderImage shades one frame from the pipeline's current state.
func RenderImage(p *Pipeline, sw *Software) (*image.RGBA, error) {
	in, err := p.Prepare()
	if err != nil {
		return nil, err
	}
	if in.Image == nil {
		return nil, fmt.Errorf("viewport %v is empty", p.Viewport.Size())
	}
	size := in.Image.Size()
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	sw.Render(dst, in.Uniforms, in.Image)
	return dst, nil
}

func writeSnapshot(p *Pipeline, sw *Software, output string) error {
	start := time.Now()
	img, err := RenderImage(p, sw)
	if err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("snapshot written", "file", output, "pointer", p.Tracker.Position(), "elapsed", time.Since(start))
	return nil
}

// encoderArgs builds the ffmpeg arguments for raw RGBA frames in and H.264 out.
func encoderArgs(opts *options.LensOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", *opts.Width, *opts.Height),
		"framerate": fmt.Sprintf("%d", *opts.FPS),
	}
	outputArgs = ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"preset":  "medium",
		"crf":     "18",
	}
	return
}

// renderFrames is the producer. Frame i places the pointer where path puts
// it and renders the whole image.
func renderFrames(ctx context.Context, p *Pipeline, sw *Software, path inputs.GesturePath, total int, frames chan<- *Frame) error {
	defer close(frames)
	size := p.Viewport.Size()
	lens := p.Builder().LensDimensions()
	for i := 0; i < total; i++ {
		pos := path(i, total, size, lens)
		p.Tracker.OnPointerMove(pos[0], pos[1])

		img, err := RenderImage(p, sw)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		select {
		case frames <- &Frame{Pixels: img.Pix, PTS: int64(i)}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if (i+1)%100 == 0 {
			slog.Info("record progress", "frames", i+1, "total", total)
		}
	}
	return nil
}

// writeFrames is the consumer side: it streams frames to w in order.
func writeFrames(ctx context.Context, frames <-chan *Frame, w io.Writer) (int, error) {
	n := 0
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return n, nil
			}
			if _, err := w.Write(frame.Pixels); err != nil {
				return n, fmt.Errorf("writing frame %d: %w", frame.PTS, err)
			}
			n++
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}

// runRecordMode renders total frames and pipes them into ffmpeg.
func runRecordMode(ctx context.Context, opts *options.LensOptions, p *Pipeline, sw *Software, path inputs.GesturePath, total int) error {
	output := opts.Output()
	slog.Info("starting record mode", "output", output, "frames", total, "size", p.Viewport.Size().String(), "path", *opts.Path)

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(opts)
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*opts.FFMPEGPath)
	}

	g, gctx := errgroup.WithContext(ctx)
	frames := make(chan *Frame, numBuffers)

	g.Go(func() error {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits before reading everything.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := writeFrames(gctx, frames, pipeWriter)
		pipeWriter.CloseWithError(err)
		if err == nil {
			slog.Info("encoder finished", "frames", n)
		}
		return err
	})
	g.Go(func() error {
		return renderFrames(gctx, p, sw, path, total, frames)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("recording written", "file", output)
	return nil
}
