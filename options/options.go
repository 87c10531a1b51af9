package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v2"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/media"
)

// ErrInvalidOption is wrapped by every validation failure.
var ErrInvalidOption = errors.New("invalid option")

const (
	ModeInteractive = "interactive"
	ModeSnapshot    = "snapshot"
	ModeRecord      = "record"

	BackendGPU = "gpu"
	BackendCPU = "cpu"
)

// LensOptions holds the command line settings. Fields point at flag values so
// that a config file can fill in anything not given on the command line.
type LensOptions struct {
	Image      *string
	UseCache   *bool
	Mode       *string
	Backend    *string
	Width      *int
	Height     *int
	LensWidth  *float64
	LensHeight *float64
	Fit        *string
	Hover      *bool
	VSync      *bool
	Workers    *int
	Duration   *float64
	FPS        *int
	Path       *string
	Pointer    *string
	OutputFile *string
	FFMPEGPath *string
	LogLevel   *string
	Config     *string
	Help       *bool
}

// Register defines the flags on fs and returns the options bound to them.
func Register(fs *flag.FlagSet) *LensOptions {
	return &LensOptions{
		Image:      fs.String("image", "", "Path or http(s) URL of the image shown under the lens"),
		UseCache:   fs.Bool("cache", true, "Cache downloaded images on disk"),
		Mode:       fs.String("mode", ModeInteractive, "Run mode: interactive, snapshot or record"),
		Backend:    fs.String("backend", BackendGPU, "Shading backend for the window: gpu or cpu"),
		Width:      fs.Int("width", 1280, "Width of the window or output"),
		Height:     fs.Int("height", 720, "Height of the window or output"),
		LensWidth:  fs.Float64("lens-width", float64(inputs.DefaultLensDimensions[0]), "Lens width in pixels"),
		LensHeight: fs.Float64("lens-height", float64(inputs.DefaultLensDimensions[1]), "Lens height in pixels"),
		Fit:        fs.String("fit", media.FitWidth.String(), "How the image fills the viewport: fitWidth, contain, cover or fill"),
		Hover:      fs.Bool("hover", false, "Move the lens with the cursor without holding a button"),
		VSync:      fs.Bool("vsync", true, "Synchronize frames with the display refresh"),
		Workers:    fs.Int("workers", 0, "Worker goroutines for the cpu backend (0 = GOMAXPROCS)"),
		Duration:   fs.Float64("duration", 5.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 30, "Frames per second for recording"),
		Path:       fs.String("path", "circle", "Scripted pointer path for recording: static, circle or sweep"),
		Pointer:    fs.String("pointer", "", "Pointer position x,y for snapshots (default: center)"),
		OutputFile: fs.String("output", "", "Output file (default lens.png for snapshot, lens.mp4 for record)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		LogLevel:   fs.String("log-level", "info", "Log level: debug, info, warn or error"),
		Config:     fs.String("config", "", "YAML file with default values for any of these flags"),
		Help:       fs.Bool("help", false, "Show help message"),
	}
}

// ApplyFile reads a YAML file whose keys are flag names and sets every flag
// that was not given explicitly on the command line.
func ApplyFile(fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	values := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if name == "config" || name == "help" || fs.Lookup(name) == nil {
			return fmt.Errorf("%w: unknown key %q in %s", ErrInvalidOption, name, path)
		}
		if explicit[name] {
			continue
		}
		if err := fs.Set(name, fmt.Sprint(values[name])); err != nil {
			return fmt.Errorf("%w: %s in %s: %v", ErrInvalidOption, name, path, err)
		}
	}
	return nil
}

// Validate checks values that the flag package cannot.
func (o *LensOptions) Validate() error {
	switch *o.Mode {
	case ModeInteractive, ModeSnapshot, ModeRecord:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidOption, *o.Mode)
	}
	switch *o.Backend {
	case BackendGPU, BackendCPU:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidOption, *o.Backend)
	}
	if *o.Image == "" {
		return fmt.Errorf("%w: -image is required", ErrInvalidOption)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidOption, *o.Width, *o.Height)
	}
	if *o.LensWidth <= 0 || *o.LensHeight <= 0 {
		return fmt.Errorf("%w: lens size %gx%g must be positive", ErrInvalidOption, *o.LensWidth, *o.LensHeight)
	}
	if _, err := media.ParseFitMode(*o.Fit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if *o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidOption)
	}
	if *o.Mode == ModeRecord {
		if *o.FPS <= 0 || *o.Duration <= 0 {
			return fmt.Errorf("%w: record needs positive fps and duration", ErrInvalidOption)
		}
		if _, err := inputs.ParseGesturePath(*o.Path); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		// yuv420p halves both chroma dimensions.
		if *o.Width%2 != 0 || *o.Height%2 != 0 {
			return fmt.Errorf("%w: record size %dx%d must be even", ErrInvalidOption, *o.Width, *o.Height)
		}
	}
	if _, _, err := o.PointerPosition(); err != nil {
		return err
	}
	return nil
}

// LensDimensions returns the configured lens size.
func (o *LensOptions) LensDimensions() mgl32.Vec2 {
	return mgl32.Vec2{float32(*o.LensWidth), float32(*o.LensHeight)}
}

// PointerPosition parses -pointer. ok is false when it was left empty.
func (o *LensOptions) PointerPosition() (p mgl32.Vec2, ok bool, err error) {
	s := strings.TrimSpace(*o.Pointer)
	if s == "" {
		return mgl32.Vec2{}, false, nil
	}
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return mgl32.Vec2{}, false, fmt.Errorf("%w: pointer %q is not x,y", ErrInvalidOption, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return mgl32.Vec2{}, false, fmt.Errorf("%w: pointer x: %v", ErrInvalidOption, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return mgl32.Vec2{}, false, fmt.Errorf("%w: pointer y: %v", ErrInvalidOption, err)
	}
	return mgl32.Vec2{float32(x), float32(y)}, true, nil
}

// Output returns the output file, defaulting by mode.
func (o *LensOptions) Output() string {
	if *o.OutputFile != "" {
		return *o.OutputFile
	}
	if *o.Mode == ModeRecord {
		return "lens.mp4"
	}
	return "lens.png"
}
