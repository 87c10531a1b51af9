package inputs

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GesturePath produces a scripted pointer position for frame i of n on a
// surface of the given size, for a lens of the given dimensions. Offscreen recording feeds it into a Tracker in
// place of a live gesture stream.
type GesturePath func(i, n int, size ViewportSize, lens mgl32.Vec2) mgl32.Vec2

// GesturePaths are the scripted paths selectable with -path.
var GesturePaths = map[string]GesturePath{
	"static": staticPath,
	"circle": circlePath,
	"sweep":  sweepPath,
}

// ParseGesturePath looks up a scripted path by name.
func ParseGesturePath(name string) (GesturePath, error) {
	p, ok := GesturePaths[name]
	if !ok {
		return nil, fmt.Errorf("unknown gesture path %q", name)
	}
	return p, nil
}

func center(size ViewportSize) mgl32.Vec2 {
	return mgl32.Vec2{float32(size.Width) / 2, float32(size.Height) / 2}
}

func staticPath(_, _ int, size ViewportSize, _ mgl32.Vec2) mgl32.Vec2 {
	return center(size)
}

// circlePath orbits the surface center once over the recording at a radius
// of a quarter of the shorter side.
func circlePath(i, n int, size ViewportSize, _ mgl32.Vec2) mgl32.Vec2 {
	c := center(size)
	if n <= 0 {
		return c
	}
	r := float64(min(size.Width, size.Height)) / 4
	a := 2 * math.Pi * float64(i) / float64(n)
	return mgl32.Vec2{
		c[0] + float32(r*math.Cos(a)),
		c[1] + float32(r*math.Sin(a)),
	}
}

// sweepPath drags the lens left to right across the middle row, starting and
// ending one lens width off-surface.
func sweepPath(i, n int, size ViewportSize, lens mgl32.Vec2) mgl32.Vec2 {
	c := center(size)
	if n <= 1 {
		return c
	}
	margin := lens[0]
	t := float32(i) / float32(n-1)
	x := -margin + t*(float32(size.Width)+2*margin)
	return mgl32.Vec2{x, c[1]}
}
