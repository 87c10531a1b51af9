package inputs

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Tracker holds the latest pointer position in render-surface pixels.
//
// The input path calls OnPointerMove, the render path reads Position. The
// position lives behind an atomic pointer to an immutable value, so a reader
// never sees a torn coordinate and neither side takes a lock. The most recent
// write before a read wins; intermediate moves may be skipped.
type Tracker struct {
	pos   atomic.Pointer[mgl32.Vec2]
	dirty atomic.Bool
}

// NewTracker returns a tracker positioned at initial and marked dirty.
func NewTracker(initial mgl32.Vec2) *Tracker {
	t := &Tracker{}
	t.pos.Store(&initial)
	t.dirty.Store(true)
	return t
}

// OnPointerMove replaces the pointer position. Coordinates outside the
// surface, including negative ones, are stored verbatim.
func (t *Tracker) OnPointerMove(x, y float32) {
	p := mgl32.Vec2{x, y}
	t.pos.Store(&p)
	// The flag is raised after the store so a reader that observes it also
	// observes the new position.
	t.dirty.Store(true)
}

// Position returns the most recently stored pointer position.
func (t *Tracker) Position() mgl32.Vec2 {
	if p := t.pos.Load(); p != nil {
		return *p
	}
	return mgl32.Vec2{}
}

// TakeDirty reports whether the position changed since the last call and
// clears the flag.
func (t *Tracker) TakeDirty() bool {
	return t.dirty.Swap(false)
}
