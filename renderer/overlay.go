package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/shadertuner/graphics"
	"github.com/richinsley/shadertuner/shader"
)

type overlayProgram struct {
	program       uint32
	projectionLoc int32
	colorLoc      int32
	vao           uint32
	vbo           uint32
	capacity      int // vertices
	vertices      []float32
}

func newOverlayProgram() (*overlayProgram, error) {
	vs, fs := shader.GetOverlayShaders()
	program, err := newProgram(vs, fs)
	if err != nil {
		return nil, err
	}
	o := &overlayProgram{
		program:       program,
		projectionLoc: gl.GetUniformLocation(program, gl.Str("u_projection\x00")),
		colorLoc:      gl.GetUniformLocation(program, gl.Str("u_color\x00")),
	}
	if o.projectionLoc == -1 || o.colorLoc == -1 {
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("overlay program is missing uniforms")
	}
	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return o, nil
}

func (o *overlayProgram) destroy() {
	gl.DeleteProgram(o.program)
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
}

// DrawOverlay draws flat quads given in window coordinates over the frame.
// Quads are drawn in order, so later quads cover earlier ones.
func (r *Renderer) DrawOverlay(quads []graphics.Quad) {
	o := r.overlay
	if o == nil || len(quads) == 0 {
		return
	}
	winWidth, winHeight := r.context.GetWindowSize()
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	if winWidth <= 0 || winHeight <= 0 {
		return
	}

	o.vertices = o.vertices[:0]
	for _, q := range quads {
		x0, y0, x1, y1 := q.X, q.Y, q.X+q.W, q.Y+q.H
		o.vertices = append(o.vertices,
			x0, y0, x0, y1, x1, y1,
			x0, y0, x1, y1, x1, y0,
		)
	}
	n := len(o.vertices) / 2

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.UseProgram(o.program)

	projection := mgl32.Ortho2D(0, float32(winWidth), float32(winHeight), 0)
	gl.UniformMatrix4fv(o.projectionLoc, 1, false, &projection[0])

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	if n > o.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(o.vertices)*4, gl.Ptr(o.vertices), gl.DYNAMIC_DRAW)
		o.capacity = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(o.vertices)*4, gl.Ptr(o.vertices))
	}
	for i, q := range quads {
		gl.Uniform4f(o.colorLoc, q.Color[0], q.Color[1], q.Color[2], q.Color[3])
		gl.DrawArrays(gl.TRIANGLES, int32(i*6), 6)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}
