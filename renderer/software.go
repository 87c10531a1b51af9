package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/lens"
	"github.com/richinsley/liquidglass/parallel"
)

// Software evaluates the lens shader on the CPU. The output is split into
// tiles that are shaded concurrently on a worker pool; each tile writes a
// disjoint region of the destination, so no locking is needed.
type Software struct {
	pool     *parallel.WorkerPool
	tileSize int
}

// NewSoftware starts a software renderer with the given number of workers
// (zero or less uses GOMAXPROCS).
func NewSoftware(workers int) *Software {
	return &Software{
		pool:     parallel.NewWorkerPool(workers),
		tileSize: parallel.DefaultTileSize,
	}
}

// Render shades every pixel of dst. Pixel (x, y) is evaluated at its center
// (x+0.5, y+0.5) relative to dst's origin, the way a fragment shader sees it.
func (s *Software) Render(dst *image.RGBA, u inputs.FrameUniforms, img lens.Sampler) {
	b := dst.Bounds()
	tiles := parallel.Tiles(b, s.tileSize)
	jobs := make([]func(), len(tiles))
	for i, t := range tiles {
		jobs[i] = func() { shadeTile(dst, t, u, img) }
	}
	s.pool.ExecuteAll(jobs)
}

func shadeTile(dst *image.RGBA, r image.Rectangle, u inputs.FrameUniforms, img lens.Sampler) {
	b := dst.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(r.Min.X, y)
		fy := float32(y-b.Min.Y) + 0.5
		for x := r.Min.X; x < r.Max.X; x++ {
			c := lens.Shade(mgl32.Vec2{float32(x-b.Min.X) + 0.5, fy}, u, img)
			px := dst.Pix[off : off+4 : off+4]
			px[0] = toByte(c[0])
			px[1] = toByte(c[1])
			px[2] = toByte(c[2])
			px[3] = toByte(c[3])
			off += 4
		}
	}
}

// toByte converts a [0,1] channel value to 8 bits, rounding to nearest.
func toByte(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// Close stops the worker pool.
func (s *Software) Close() {
	s.pool.Close()
}
