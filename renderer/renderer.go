package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/shadertuner/graphics"
	"github.com/richinsley/shadertuner/shader"
)

var glInitOnce sync.Once

// ErrNoImage is returned by Play before any image source was installed.
var ErrNoImage = errors.New("no image program installed")

// Renderer draws a single Shadertoy-style image pass into one surface. It
// satisfies bridge.Renderer. All methods must be called on the thread that
// owns the GL context.
type Renderer struct {
	context   graphics.Context
	surfaceID string
	log       *slog.Logger

	quadVAO     uint32
	quadVBO     uint32
	image       *RenderPass
	blitProgram uint32
	overlay     *overlayProgram
	offscreen   *OffscreenRenderer

	width      int
	height     int
	recordMode bool

	clock    graphics.Clock
	lastTime float64
	frame    int32
	released bool
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// New creates a renderer drawing at width x height pixels. In record mode the
// size stays fixed and nothing is presented to the window.
func New(ctx graphics.Context, surfaceID string, width, height int, recordMode bool, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		context:    ctx,
		surfaceID:  surfaceID,
		log:        logger.With("surface", surfaceID),
		width:      width,
		height:     height,
		recordMode: recordMode,
	}

	r.context.MakeCurrent()
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	var err error
	r.blitProgram, err = newProgram(shader.GenerateVertexShader(), shader.GetBlitFragmentShader(false))
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}

	if !recordMode {
		r.overlay, err = newOverlayProgram()
		if err != nil {
			r.Release()
			return nil, fmt.Errorf("failed to create overlay program: %w", err)
		}
	}

	r.offscreen, err = NewOffscreenRenderer(width, height)
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}

	r.log.Debug("renderer created", "width", width, "height", height, "record", recordMode)
	return r, nil
}

// SetImage compiles source as the new image pass. On failure the previous
// program keeps rendering. The clock and frame counter are untouched.
func (r *Renderer) SetImage(source string) error {
	if r.released {
		return errors.New("renderer released")
	}
	pass, err := createRenderPass(source)
	if err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}
	if r.image != nil {
		r.image.destroy()
	}
	r.image = pass
	return nil
}

// Play starts or resumes shader time.
func (r *Renderer) Play() error {
	if r.image == nil {
		return ErrNoImage
	}
	now := r.context.Time()
	if !r.clock.Playing() {
		r.lastTime = r.clock.Elapsed(now)
	}
	r.clock.Play(now)
	return nil
}

// Pause freezes shader time; frames keep presenting the frozen image.
func (r *Renderer) Pause() {
	r.clock.Pause(r.context.Time())
}

// Playing reports whether shader time is advancing.
func (r *Renderer) Playing() bool {
	return r.clock.Playing()
}

// Resize changes the render target size. Ignored in record mode, where the
// output size is fixed.
func (r *Renderer) Resize(w, h int) {
	if r.recordMode || w <= 0 || h <= 0 {
		return
	}
	if w == r.width && h == r.height {
		return
	}
	r.width, r.height = w, h
	if r.offscreen != nil {
		r.offscreen.Resize(w, h)
	}
}

// Size returns the current render target size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Release frees every GL object owned by the renderer. The context itself is
// owned by the caller. Releasing twice is a no-op.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	if r.image != nil {
		r.image.destroy()
		r.image = nil
	}
	if r.overlay != nil {
		r.overlay.destroy()
		r.overlay = nil
	}
	if r.offscreen != nil {
		r.offscreen.Destroy()
		r.offscreen = nil
	}
	if r.blitProgram != 0 {
		gl.DeleteProgram(r.blitProgram)
	}
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	r.log.Debug("renderer released")
}

// RenderFrame draws the image pass at the current clock time and blits it to
// the window framebuffer. Swapping buffers is left to the context.
func (r *Renderer) RenderFrame() {
	if r.released {
		return
	}
	now := r.clock.Elapsed(r.context.Time())
	delta := now - r.lastTime
	r.lastTime = now
	r.renderImage(Uniforms{
		Time:      float32(now),
		TimeDelta: float32(delta),
		Frame:     r.frame,
	})
	if r.clock.Playing() {
		r.frame++
	}

	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.offscreen.textureID)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// renderImage draws the image pass into the offscreen target.
func (r *Renderer) renderImage(u Uniforms) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.offscreen.fbo)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if r.image != nil {
		gl.UseProgram(r.image.ShaderProgram)
		r.image.updateUniforms(r.width, r.height, u)
		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(logText, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}
