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

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────────── Lens ──────────────────────────────────────

// The lens program is written once as WebGL2 and handed to the translator,
// which emits GLSL 410 or ESSL and renames the uniforms.
//
// gl_FragCoord has a bottom-left origin; the pointer and the image rows use a
// top-left one, so the fragment coordinate is flipped before anything else.
// Sampling goes through texelFetch with clamped indices so that the GPU sees
// exactly the texels the software path reads.
const lensFragmentShaderSource = `#version 300 es
precision highp float;
precision highp int;

uniform vec2 iResolution;
uniform vec2 iMouse;
uniform vec2 glassDimensions;
uniform sampler2D iChannel0;

out vec4 fragColor;

vec4 sampleImage(vec2 p) {
    ivec2 size = textureSize(iChannel0, 0);
    ivec2 texel = clamp(ivec2(floor(p)), ivec2(0), size - 1);
    return texelFetch(iChannel0, texel, 0);
}

void main() {
    vec2 fragCoord = vec2(gl_FragCoord.x, iResolution.y - gl_FragCoord.y);

    if (iResolution.x == 0.0 || iResolution.y == 0.0 ||
        glassDimensions.x == 0.0 || glassDimensions.y == 0.0) {
        fragColor = sampleImage(fragCoord);
        return;
    }

    vec2 uv = fragCoord / iResolution;

    vec2 norm_dist = (fragCoord - iMouse) / (glassDimensions / 2.0);
    vec2 a = abs(norm_dist);
    vec2 a2 = a * a;
    vec2 a4 = a2 * a2;
    vec2 a8 = a4 * a4;
    float roundedBox = a8.x + a8.y;

    float rb1 = clamp((1.0 - roundedBox) * 8.0, 0.0, 1.0);
    float rb2 = clamp((0.95 - roundedBox * 0.95) * 16.0, 0.0, 1.0) -
                clamp((0.9 - roundedBox * 0.95) * 16.0, 0.0, 1.0);
    float rb3 = clamp((1.5 - roundedBox * 1.1) * 2.0, 0.0, 1.0) -
                clamp((1.0 - roundedBox * 1.1) * 2.0, 0.0, 1.0);
    float transition = smoothstep(0.0, 1.0, rb1 + rb2);

    vec4 originalColor = sampleImage(uv * iResolution);
    if (transition == 0.0) {
        fragColor = originalColor;
        return;
    }

    float zoom = max(0.0, 1.0 - roundedBox * 0.5);
    vec2 lens = (uv - 0.5) * zoom + 0.5;

    vec4 blurredColor = vec4(0.0);
    float total = 0.0;
    for (float x = -4.0; x <= 4.0; x++) {
        for (float y = -4.0; y <= 4.0; y++) {
            vec2 offset = vec2(x, y) * 0.5 / iResolution;
            blurredColor += sampleImage((offset + lens) * iResolution);
            total += 1.0;
        }
    }
    blurredColor /= total;

    vec2 m2 = uv - iMouse / iResolution;
    float gradient = clamp((clamp(m2.y, 0.0, 0.2) + 0.1) / 2.0, 0.0, 1.0) +
                     clamp((clamp(-m2.y, -1000.0, 0.2) * rb3 + 0.1) / 2.0, 0.0, 1.0);
    vec4 lighting = clamp(blurredColor + vec4(rb1) * gradient + vec4(rb2) * 0.3, 0.0, 1.0);
    fragColor = mix(originalColor, lighting, transition);
}
`

// LensUniforms are the uniform names the lens program declares, in the order
// they are looked up after translation.
var LensUniforms = []string{"iResolution", "iMouse", "glassDimensions", "iChannel0"}

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(flip, isGLES bool) string {
	if isGLES {
		if flip {
			return blitFragmentShaderSourceFlipGLES
		}
		return blitFragmentShaderSourceGLES
	}
	if flip {
		return blitFragmentShaderSourceFlipGL
	}
	return blitFragmentShaderSourceGL
}

// LensFragmentShader returns the WebGL2 source of the lens program.
func LensFragmentShader() string {
	return lensFragmentShaderSource
}
