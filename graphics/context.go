package graphics

import "github.com/richinsley/liquidglass/inputs"

// Context defines the interface for an OpenGL context backed by a window.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	IsGLES() bool
	// AttachInput routes pointer motion to the tracker and framebuffer
	// resizes to the viewport. With hover set, any cursor motion moves the
	// pointer; otherwise only motion while the left button is held does.
	AttachInput(tracker *inputs.Tracker, viewport *inputs.Viewport, hover bool)
}
