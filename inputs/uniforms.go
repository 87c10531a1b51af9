package inputs

import "github.com/go-gl/mathgl/mgl32"

// DefaultLensDimensions is the lens size used when none is configured.
var DefaultLensDimensions = mgl32.Vec2{200, 200}

// FrameUniforms holds the values that are constant across all pixels of one
// shading pass. It is a value type: every frame gets its own copy and nothing
// writes to a snapshot once it has been built.
type FrameUniforms struct {
	// Resolution is the viewport size in pixels (iResolution).
	Resolution mgl32.Vec2
	// Pointer is the lens center in pixels (iMouse).
	Pointer mgl32.Vec2
	// LensDimensions is the lens size in pixels (glassDimensions).
	LensDimensions mgl32.Vec2
}

// Build derives the uniforms for a frame.
func Build(pointer mgl32.Vec2, viewport ViewportSize, lens mgl32.Vec2) FrameUniforms {
	return FrameUniforms{
		Resolution:     mgl32.Vec2{float32(viewport.Width), float32(viewport.Height)},
		Pointer:        pointer,
		LensDimensions: lens,
	}
}

// UniformBuilder caches the last FrameUniforms and rebuilds it only when the
// pointer or the viewport reported a change. It belongs to the render path
// and is not safe for concurrent use.
type UniformBuilder struct {
	lens    mgl32.Vec2
	current FrameUniforms
	valid   bool
	builds  int
}

func NewUniformBuilder(lens mgl32.Vec2) *UniformBuilder {
	return &UniformBuilder{lens: lens}
}

// Current returns the uniforms for the next frame.
func (b *UniformBuilder) Current(t *Tracker, v *Viewport) FrameUniforms {
	// Both flags are consumed every call so a change on one side is never
	// carried over as a stale dirty bit.
	pointerMoved := t.TakeDirty()
	resized := v.TakeDirty()
	if b.valid && !pointerMoved && !resized {
		return b.current
	}
	b.current = Build(t.Position(), v.Size(), b.lens)
	b.valid = true
	b.builds++
	return b.current
}

// Builds returns how many snapshots have been constructed.
func (b *UniformBuilder) Builds() int {
	return b.builds
}

// LensDimensions returns the fixed lens size of the session.
func (b *UniformBuilder) LensDimensions() mgl32.Vec2 {
	return b.lens
}
