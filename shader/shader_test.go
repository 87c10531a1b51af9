package shader

import (
	"strings"
	"testing"
)

func TestLensFragmentShaderDeclaresUniforms(t *testing.T) {
	src := LensFragmentShader()
	if !strings.HasPrefix(src, "#version 300 es\n") {
		t.Fatalf("lens shader must be WebGL2 source, starts with %q", src[:min(len(src), 20)])
	}
	for _, name := range LensUniforms {
		if !strings.Contains(src, " "+name+";") {
			t.Errorf("lens shader does not declare uniform %s", name)
		}
	}
}

func TestLensFragmentShaderConstants(t *testing.T) {
	src := LensFragmentShader()
	for _, want := range []string{
		"(1.0 - roundedBox) * 8.0",
		"(0.95 - roundedBox * 0.95) * 16.0",
		"(0.9 - roundedBox * 0.95) * 16.0",
		"(1.5 - roundedBox * 1.1) * 2.0",
		"(1.0 - roundedBox * 1.1) * 2.0",
		"max(0.0, 1.0 - roundedBox * 0.5)",
		"for (float x = -4.0; x <= 4.0; x++)",
		"clamp(-m2.y, -1000.0, 0.2)",
		"vec4(rb2) * 0.3",
		"iResolution.y - gl_FragCoord.y",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("lens shader missing %q", want)
		}
	}
}

func TestShaderVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"vertex GL", GenerateVertexShader(false), "#version 410 core"},
		{"vertex GLES", GenerateVertexShader(true), "#version 300 es"},
		{"blit GL", GetBlitFragmentShader(false, false), "texture(u_texture, frag_uv)"},
		{"blit flip GL", GetBlitFragmentShader(true, false), "1.0 - frag_uv.y"},
		{"blit flip GLES", GetBlitFragmentShader(true, true), "precision mediump float"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.src, tt.want) {
				t.Errorf("%s source does not contain %q", tt.name, tt.want)
			}
		})
	}
}
