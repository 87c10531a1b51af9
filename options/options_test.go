package options

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newFlagSet(t *testing.T, args ...string) (*flag.FlagSet, *LensOptions) {
	t.Helper()
	fs := flag.NewFlagSet("liquidglass", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs, opts
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "lens.yaml")
	if err := os.WriteFile(name, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDefaults(t *testing.T) {
	_, opts := newFlagSet(t, "-image", "in.png")
	if err := opts.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if got := opts.LensDimensions(); got != (mgl32.Vec2{200, 200}) {
		t.Errorf("LensDimensions() = %v", got)
	}
	if *opts.Fit != "fitWidth" || *opts.Mode != ModeInteractive || *opts.Backend != BackendGPU {
		t.Errorf("unexpected defaults fit=%s mode=%s backend=%s", *opts.Fit, *opts.Mode, *opts.Backend)
	}
	if got := opts.Output(); got != "lens.png" {
		t.Errorf("Output() = %q", got)
	}
}

func TestApplyFileFlagsWin(t *testing.T) {
	cfg := writeConfig(t, `
image: photo.jpg
width: 640
lens-width: 120.5
hover: true
mode: record
`)
	fs, opts := newFlagSet(t, "-width", "800", "-config", cfg)
	if err := ApplyFile(fs, *opts.Config); err != nil {
		t.Fatal(err)
	}
	if *opts.Width != 800 {
		t.Errorf("width = %d, want command line value 800", *opts.Width)
	}
	if *opts.Image != "photo.jpg" || *opts.LensWidth != 120.5 || !*opts.Hover || *opts.Mode != ModeRecord {
		t.Errorf("config values not applied: image=%s lens-width=%v hover=%v mode=%s",
			*opts.Image, *opts.LensWidth, *opts.Hover, *opts.Mode)
	}
	if got := opts.Output(); got != "lens.mp4" {
		t.Errorf("Output() = %q for record mode", got)
	}
}

func TestApplyFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "colour: red\n"},
		{"nested config", "config: other.yaml\n"},
		{"bad value", "width: wide\n"},
		{"not yaml", "width: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, _ := newFlagSet(t)
			if err := ApplyFile(fs, writeConfig(t, tt.body)); err == nil {
				t.Error("ApplyFile should fail")
			}
		})
	}

	fs, _ := newFlagSet(t)
	if err := ApplyFile(fs, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"snapshot", []string{"-image", "a.png", "-mode", "snapshot", "-pointer", "10,20"}, true},
		{"record", []string{"-image", "a.png", "-mode", "record", "-path", "sweep"}, true},
		{"missing image", nil, false},
		{"bad mode", []string{"-image", "a.png", "-mode", "stream"}, false},
		{"bad backend", []string{"-image", "a.png", "-backend", "vulkan"}, false},
		{"zero width", []string{"-image", "a.png", "-width", "0"}, false},
		{"zero lens", []string{"-image", "a.png", "-lens-height", "0"}, false},
		{"bad fit", []string{"-image", "a.png", "-fit", "stretch"}, false},
		{"negative workers", []string{"-image", "a.png", "-workers", "-1"}, false},
		{"bad path", []string{"-image", "a.png", "-mode", "record", "-path", "zigzag"}, false},
		{"zero fps", []string{"-image", "a.png", "-mode", "record", "-fps", "0"}, false},
		{"bad pointer", []string{"-image", "a.png", "-pointer", "10"}, false},
		{"odd record width", []string{"-image", "a.png", "-mode", "record", "-width", "641"}, false},
		{"odd record height", []string{"-image", "a.png", "-mode", "record", "-height", "361"}, false},
		{"odd snapshot size", []string{"-image", "a.png", "-mode", "snapshot", "-width", "641", "-height", "361"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, opts := newFlagSet(t, tt.args...)
			err := opts.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("Validate() = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestPointerPosition(t *testing.T) {
	_, opts := newFlagSet(t, "-pointer", " -12.5, 300 ")
	p, ok, err := opts.PointerPosition()
	if err != nil || !ok {
		t.Fatalf("PointerPosition() = %v, %v, %v", p, ok, err)
	}
	if p != (mgl32.Vec2{-12.5, 300}) {
		t.Errorf("PointerPosition() = %v", p)
	}

	_, opts = newFlagSet(t)
	if _, ok, err := opts.PointerPosition(); ok || err != nil {
		t.Errorf("empty pointer: ok=%v err=%v", ok, err)
	}
}
