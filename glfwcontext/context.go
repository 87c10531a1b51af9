package glfwcontext

import (
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/options"
)

// Context is a GLFW window with its OpenGL context.
type Context struct {
	window *glfw.Window
	vsync  bool

	tracker  *inputs.Tracker
	viewport *inputs.Viewport
	hover    bool
	dragging bool

	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates a resizable window sized from the options.
func New(opts *options.LensOptions) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "liquidglass", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		vsync:        *opts.VSync,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	return c, nil
}

// RegisterKeyCallback registers a function to run when key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// AttachInput implements graphics.Context.
func (c *Context) AttachInput(tracker *inputs.Tracker, viewport *inputs.Viewport, hover bool) {
	c.tracker = tracker
	c.viewport = viewport
	c.hover = hover

	c.window.SetCursorPosCallback(c.cursorPosCallback)
	c.window.SetMouseButtonCallback(c.mouseButtonCallback)
	c.window.SetFramebufferSizeCallback(c.framebufferSizeCallback)
}

func (c *Context) cursorPosCallback(w *glfw.Window, x, y float64) {
	if c.hover || c.dragging {
		c.movePointer(x, y)
	}
}

func (c *Context) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		c.dragging = true
		c.movePointer(w.GetCursorPos())
	case glfw.Release:
		c.dragging = false
	}
}

func (c *Context) framebufferSizeCallback(w *glfw.Window, width, height int) {
	slog.Debug("framebuffer resized", "width", width, "height", height)
	c.viewport.Set(width, height)
}

// movePointer converts window coordinates to framebuffer pixels, which differ
// on high-DPI displays, and hands them to the tracker.
func (c *Context) movePointer(x, y float64) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	scaleX, scaleY := 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	c.tracker.OnPointerMove(float32(x*scaleX), float32(y*scaleY))
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current and applies the swap interval,
// which only takes effect on a current context.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	if c.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}


// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	slog.Info("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	slog.Info("GLFW terminated")
}
