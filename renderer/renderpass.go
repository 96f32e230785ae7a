package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/shadertuner/shader"
	xlate "github.com/richinsley/shadertuner/translator"
)

// RenderPass is a compiled image program and its standard uniform locations.
type RenderPass struct {
	ShaderProgram uint32
	resolutionLoc int32
	timeLoc       int32
	timeDeltaLoc  int32
	frameLoc      int32
}

// Uniforms holds the per-frame values supplied to mainImage.
type Uniforms struct {
	Time      float32
	TimeDelta float32
	Frame     int32
}

// createRenderPass translates image source (a mainImage function) to desktop
// GLSL and links it.
func createRenderPass(image string) (*RenderPass, error) {
	fullFragmentSource := shader.GetFragmentShader(image)
	translator, err := xlate.GetTranslator()
	if err != nil {
		return nil, err
	}
	fsShader, err := translator.TranslateShader(fullFragmentSource, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	program, err := newProgram(shader.GenerateVertexShader(), fsShader.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	pass := &RenderPass{ShaderProgram: program}
	uniformMap := fsShader.Variables
	gl.UseProgram(program)
	location := func(name string) int32 {
		v, ok := uniformMap[name]
		if !ok {
			return -1
		}
		return gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00"))
	}
	pass.resolutionLoc = location("iResolution")
	pass.timeLoc = location("iTime")
	pass.timeDeltaLoc = location("iTimeDelta")
	pass.frameLoc = location("iFrame")
	return pass, nil
}

func (p *RenderPass) updateUniforms(width, height int, u Uniforms) {
	if p.resolutionLoc != -1 {
		// z is the pixel aspect ratio, as on Shadertoy
		gl.Uniform3f(p.resolutionLoc, float32(width), float32(height), 1)
	}
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, u.Time)
	}
	if p.timeDeltaLoc != -1 {
		gl.Uniform1f(p.timeDeltaLoc, u.TimeDelta)
	}
	if p.frameLoc != -1 {
		gl.Uniform1i(p.frameLoc, u.Frame)
	}
}

func (p *RenderPass) destroy() {
	gl.DeleteProgram(p.ShaderProgram)
}
