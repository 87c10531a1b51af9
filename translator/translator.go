package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use. The translator runs a wasm module, so it is expensive to build.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
		if translatorErr != nil {
			translatorErr = fmt.Errorf("failed to create shader translator: %w", translatorErr)
		}
	})
	return translator, translatorErr
}

// Translate converts a WebGL2 fragment shader to the GL dialect of the
// current context and returns the code with the uniform name mapping.
func Translate(src string, isGLES bool) (code string, uniforms map[string]string, err error) {
	t, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}
	format := gst.OutputFormatGLSL410
	if isGLES {
		format = gst.OutputFormatESSL
	}
	sh, err := t.TranslateShader(src, "fragment", gst.ShaderSpecWebGL2, format)
	if err != nil {
		return "", nil, fmt.Errorf("failed to translate fragment shader: %w", err)
	}
	uniforms = make(map[string]string, len(sh.Variables))
	for name, v := range sh.Variables {
		uniforms[name] = v.MappedName
	}
	return sh.Code, uniforms, nil
}
