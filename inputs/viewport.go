package inputs

import (
	"fmt"
	"sync/atomic"
)

// ViewportSize is the render surface size in pixels.
type ViewportSize struct {
	Width  int
	Height int
}

func (s ViewportSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Empty reports whether the surface has no pixels to render.
func (s ViewportSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Viewport is written by the layout collaborator (window resize callback)
// and read by the render path. Same publication scheme as Tracker.
type Viewport struct {
	size  atomic.Pointer[ViewportSize]
	dirty atomic.Bool
}

func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.Set(width, height)
	return v
}

// Set publishes a new surface size. Setting the current size again does not
// mark the viewport dirty.
func (v *Viewport) Set(width, height int) {
	s := ViewportSize{Width: width, Height: height}
	if cur := v.size.Load(); cur != nil && *cur == s {
		return
	}
	v.size.Store(&s)
	v.dirty.Store(true)
}

func (v *Viewport) Size() ViewportSize {
	if s := v.size.Load(); s != nil {
		return *s
	}
	return ViewportSize{}
}

// TakeDirty reports whether the size changed since the last call and clears
// the flag.
func (v *Viewport) TakeDirty() bool {
	return v.dirty.Swap(false)
}
