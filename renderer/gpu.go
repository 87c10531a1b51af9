package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/shader"
	xlate "github.com/richinsley/liquidglass/translator"
)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// newQuad builds the full-screen quad every program draws.
func newQuad() uint32 {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao
}

// lensProgram is the lens shader compiled for the current context.
type lensProgram struct {
	program       uint32
	resolutionLoc int32
	mouseLoc      int32
	glassLoc      int32
	channelLoc    int32
}

func newLensProgram(isGLES bool) (*lensProgram, error) {
	code, names, err := xlate.Translate(shader.LensFragmentShader(), isGLES)
	if err != nil {
		return nil, fmt.Errorf("lens shader translation failed: %w", err)
	}

	program, err := newProgram(shader.GenerateVertexShader(isGLES), code)
	if err != nil {
		return nil, fmt.Errorf("failed to create lens program: %w", err)
	}

	lookup := func(name string) int32 {
		if mapped, ok := names[name]; ok {
			return gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
		}
		return -1
	}
	p := &lensProgram{
		program:       program,
		resolutionLoc: lookup("iResolution"),
		mouseLoc:      lookup("iMouse"),
		glassLoc:      lookup("glassDimensions"),
		channelLoc:    lookup("iChannel0"),
	}
	slog.Info("lens program created", "program", program)
	return p, nil
}

// draw shades the bound framebuffer with u over the image texture.
func (p *lensProgram) draw(quadVAO uint32, u inputs.FrameUniforms, img inputs.IChannel) {
	gl.UseProgram(p.program)
	if p.resolutionLoc != -1 {
		gl.Uniform2f(p.resolutionLoc, u.Resolution[0], u.Resolution[1])
	}
	if p.mouseLoc != -1 {
		gl.Uniform2f(p.mouseLoc, u.Pointer[0], u.Pointer[1])
	}
	if p.glassLoc != -1 {
		gl.Uniform2f(p.glassLoc, u.LensDimensions[0], u.LensDimensions[1])
	}
	if p.channelLoc != -1 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, img.GetTextureID())
		gl.Uniform1i(p.channelLoc, 0)
	}
	gl.BindVertexArray(quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (p *lensProgram) destroy() {
	gl.DeleteProgram(p.program)
}

// frameTexture receives frames shaded on the CPU.
type frameTexture struct {
	id            uint32
	width, height int
}

func newFrameTexture() *frameTexture {
	t := &frameTexture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// upload copies img into the texture, reallocating it on a size change.
func (t *frameTexture) upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w != t.width || h != t.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		t.width, t.height = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *frameTexture) destroy() {
	gl.DeleteTextures(1, &t.id)
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
		return 0, fmt.Errorf("failed to link program: %v", logText)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return sh, nil
}
