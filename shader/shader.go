package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// Overlay quads are given in window pixels, top-left origin.
const overlayVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_pos;
uniform mat4 u_projection;
void main() {
    gl_Position = u_projection * vec4(in_pos, 0.0, 1.0);
}
`

const overlayFragmentShaderSourceGL = `#version 410 core
out vec4 fragColor;
uniform vec4 u_color;
void main() { fragColor = u_color; }
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader() string {
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(flip bool) string {
	if flip {
		return blitFragmentShaderSourceFlipGL
	}
	return blitFragmentShaderSourceGL
}

// GetOverlayShaders returns the vertex and fragment source of the flat-color
// program used for the parameter panel.
func GetOverlayShaders() (vertex, fragment string) {
	return overlayVertexShaderSourceGL, overlayFragmentShaderSourceGL
}

// ────────────────────── Dynamic preamble / user code glue ──────────────────────

// GeneratePreamble declares the uniforms the renderer supplies to mainImage.
func GeneratePreamble() string {
	return `#version 300 es
precision highp float;
precision highp int;

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform int   iFrame;

out vec4 fragColor;
`
}

func GetMain() string {
	return `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`
}

// GetFragmentShader combines preamble + image source + wrapper into a complete
// WebGL2 fragment shader ready for translation.
func GetFragmentShader(image string) string {
	return GeneratePreamble() + image + GetMain()
}
