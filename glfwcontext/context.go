package glfwcontext

import (
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	options "github.com/richinsley/shadertuner/options"
)

type capture struct {
	move    func(x float64)
	release func()
}

type subscription struct {
	id int
	fn func(w, h int)
}

// Context is a GLFW window with an OpenGL 4.1 core context. It routes pointer
// events to the editor and implements drag.Surface and bridge.Viewport.
// Callbacks run on the main thread from inside EndFrame.
type Context struct {
	window *glfw.Window
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()

	onPress     func(x, y float64) bool
	onSecondary func(x, y float64)
	onHover     func(x, y float64)

	capture *capture

	nextID           int
	fbResize         []subscription
	windowResize     []subscription
	cursorX, cursorY float64
}

// New creates the window. A hidden window still provides a context for
// offscreen recording.
func New(opts *options.Options, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetSizeCallback(c.glfwSizeCallback)
	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// SetPointerHandlers installs the handlers for uncaptured pointer events.
// press receives left-button presses; secondary receives right-button
// presses; hover receives moves while no capture is active.
func (c *Context) SetPointerHandlers(press func(x, y float64) bool, secondary, hover func(x, y float64)) {
	c.onPress = press
	c.onSecondary = secondary
	c.onHover = hover
}

// Capture implements drag.Surface. Until cancel is called every cursor move
// goes to move and the next left-button release goes to release.
func (c *Context) Capture(move func(x float64), release func()) (cancel func()) {
	cp := &capture{move: move, release: release}
	c.capture = cp
	return func() {
		if c.capture == cp {
			c.capture = nil
		}
	}
}

// Captured reports whether a pointer capture is active.
func (c *Context) Captured() bool { return c.capture != nil }

// OnResize implements bridge.Viewport with framebuffer pixel sizes.
func (c *Context) OnResize(fn func(w, h int)) (cancel func()) {
	return c.subscribe(&c.fbResize, fn)
}

// Size implements bridge.Viewport.
func (c *Context) Size() (int, int) {
	return c.GetFramebufferSize()
}

// OnWindowResize calls fn with the window size in screen coordinates, the
// space pointer positions are reported in.
func (c *Context) OnWindowResize(fn func(w, h int)) (cancel func()) {
	return c.subscribe(&c.windowResize, fn)
}

func (c *Context) subscribe(list *[]subscription, fn func(w, h int)) func() {
	c.nextID++
	id := c.nextID
	*list = append(*list, subscription{id: id, fn: fn})
	return func() {
		subs := *list
		for i, s := range subs {
			if s.id == id {
				*list = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func notify(subs []subscription, w, h int) {
	for _, s := range append([]subscription(nil), subs...) {
		s.fn(w, h)
	}
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
// It dispatches to our registered custom callbacks.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	c.cursorX, c.cursorY = xpos, ypos
	if cp := c.capture; cp != nil {
		cp.move(xpos)
		return
	}
	if c.onHover != nil {
		c.onHover(xpos, ypos)
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	x, y := w.GetCursorPos()
	switch {
	case button == glfw.MouseButtonLeft && action == glfw.Release:
		if cp := c.capture; cp != nil {
			cp.release()
		}
	case button == glfw.MouseButtonLeft && action == glfw.Press:
		if c.onPress != nil {
			c.onPress(x, y)
		}
	case button == glfw.MouseButtonRight && action == glfw.Press:
		if c.capture == nil && c.onSecondary != nil {
			c.onSecondary(x, y)
		}
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	notify(c.fbResize, width, height)
}

func (c *Context) glfwSizeCallback(w *glfw.Window, width, height int) {
	notify(c.windowResize, width, height)
}

// CursorPos returns the last cursor position in screen coordinates.
func (c *Context) CursorPos() (float64, float64) {
	return c.cursorX, c.cursorY
}

// SetTitle replaces the window title.
func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// SetShouldClose asks the main loop to exit.
func (c *Context) SetShouldClose() {
	c.window.SetShouldClose(true)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.capture = nil
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

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	slog.Debug("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	slog.Debug("GLFW terminated")
}
