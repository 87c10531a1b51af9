package media

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedFit is returned for an unknown fit mode name.
var ErrUnsupportedFit = errors.New("unsupported fit mode")

// FitMode says how an image is scaled into a viewport.
type FitMode int

const (
	// FitWidth scales the image to the viewport width and centers it
	// vertically, cropping or leaving bands as needed.
	FitWidth FitMode = iota
	// Contain scales the whole image into the viewport.
	Contain
	// Cover fills the viewport, cropping the overflowing axis.
	Cover
	// Fill stretches the image to the viewport, ignoring aspect ratio.
	Fill
)

var fitNames = map[FitMode]string{
	FitWidth: "fitWidth",
	Contain:  "contain",
	Cover:    "cover",
	Fill:     "fill",
}

func (m FitMode) String() string {
	if s, ok := fitNames[m]; ok {
		return s
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// ParseFitMode returns the mode with the given name.
func ParseFitMode(name string) (FitMode, error) {
	for m, s := range fitNames {
		if s == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFit, name)
}

// Placement returns where src of size sw×sh lands inside a w×h viewport. The
// rectangle may extend past the viewport on cropped axes.
func Placement(sw, sh, w, h int, mode FitMode) (image.Rectangle, error) {
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("cannot fit %dx%d into %dx%d", sw, sh, w, h)
	}
	sx := float64(w) / float64(sw)
	sy := float64(h) / float64(sh)

	var scale float64
	switch mode {
	case FitWidth:
		scale = sx
	case Contain:
		scale = min(sx, sy)
	case Cover:
		scale = max(sx, sy)
	case Fill:
		return image.Rect(0, 0, w, h), nil
	default:
		return image.Rectangle{}, fmt.Errorf("%w: %v", ErrUnsupportedFit, mode)
	}

	dw := max(1, int(math.Round(float64(sw)*scale)))
	dh := max(1, int(math.Round(float64(sh)*scale)))
	x := (w - dw) / 2
	y := (h - dh) / 2
	return image.Rect(x, y, x+dw, y+dh), nil
}

// Fit renders src into a new w×h RGBA image. Pixels not covered by the
// image stay transparent.
func Fit(src image.Image, w, h int, mode FitMode) (*image.RGBA, error) {
	if src == nil {
		return nil, errors.New("no source image")
	}
	b := src.Bounds()
	dr, err := Placement(b.Dx(), b.Dy(), w, h, mode)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if dr.Size() == b.Size() {
		xdraw.Draw(dst, dr, src, b.Min, xdraw.Src)
		return dst, nil
	}
	xdraw.CatmullRom.Scale(dst, dr, src, b, xdraw.Src, nil)
	return dst, nil
}
