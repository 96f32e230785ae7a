package shader

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/richinsley/shadertuner/params"
)

// Decimal places used when a parameter is embedded as a GLSL literal.
const (
	scalarPrecision    = 3
	iterationPrecision = 1
)

var imageTemplate = template.Must(template.New("image").Funcs(template.FuncMap{
	"f": func(v float64) string { return Literal(v, scalarPrecision) },
	"i": func(v float64) string { return Literal(v, iterationPrecision) },
}).Parse(`
float distanceField(vec3 pos, float time) {
    vec3 p = pos;

    // rotate about xz, then xy
    float angle1 = time * {{f .RotationSpeed1}};
    mat2 rotation1 = mat2(cos(angle1), -sin(angle1), sin(angle1), cos(angle1));
    p.xz *= rotation1;

    float angle2 = time * {{f .RotationSpeed2}};
    mat2 rotation2 = mat2(cos(angle2), -sin(angle2), sin(angle2), cos(angle2));
    p.xy *= rotation2;

    float dist = length(p + sin(time * {{f .WaveSpeed}})) * log(length(p) + 1.0);

    vec3 offset = p + p + time;
    float wave1 = sin(offset.y + offset.z);
    float wave2 = sin(wave1 + offset.x);

    dist += wave2 * {{f .WaveAmplitude}} - {{f .DistanceOffset}};

    return dist;
}

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    vec3 rayOrigin, rayPos, colorAccumulator;
    vec3 resolution = iResolution;
    float time = iTime * {{f .TimeSpeed}};

    for (float marchDistance = 1.5, rayDistance;
         resolution.z++ < {{i .Iterations}};

         fragColor.xyz = colorAccumulator = max(colorAccumulator + {{f .ColorIntensity}} - rayDistance * {{f .RayStepSize}},
                                               colorAccumulator)
                        * (vec3({{f .BaseColor.R}}, {{f .BaseColor.G}}, {{f .BaseColor.B}}) -
                           vec3({{f .AccentColor.R}}, {{f .AccentColor.G}}, {{f .AccentColor.B}}) *
                           (distanceField(rayPos, time) - rayDistance) / {{f .Complexity}})
        ) {

        rayPos = rayOrigin = vec3((fragCoord - 0.5 * resolution.xy) / resolution.y * marchDistance,
                                  {{f .RayOriginDistance}} - marchDistance);

        marchDistance += min(rayDistance = distanceField(rayPos, time), {{f .MaxDistance}});

        rayPos = rayOrigin + 0.1;
    }
}
`))

// Generate returns the Shadertoy-style image source for p: a distanceField
// function and a single mainImage entry point that ray-marches it. The output
// depends only on p, and every parameter appears as a fixed-precision literal.
// p must pass Validate.
func Generate(p params.Set) string {
	var b strings.Builder
	if err := imageTemplate.Execute(&b, p); err != nil {
		// the template only reads float fields of params.Set
		panic(fmt.Sprintf("shader: image template: %v", err))
	}
	return b.String()
}

// Literal formats v as a GLSL float literal with the given number of decimals.
// Negative zero prints as zero so equal sets always produce equal text.
func Literal(v float64, decimals int) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
