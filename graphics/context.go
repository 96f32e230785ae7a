package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	// GetWindowSize returns the size in screen coordinates, which pointer
	// positions are reported in.
	GetWindowSize() (int, int)
	Time() float64
}

// Quad is a flat colored rectangle in window coordinates with a top-left origin.
type Quad struct {
	X, Y, W, H float32
	Color      [4]float32
}
