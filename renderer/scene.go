package renderer

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/richinsley/liquidglass/inputs"
	"github.com/richinsley/liquidglass/media"
)

// Scene owns the source image and its copy fitted to the current viewport.
type Scene struct {
	source  image.Image
	fit     media.FitMode
	size    inputs.ViewportSize
	channel *inputs.ImageChannel
}

// NewScene returns a scene for src. Nothing is fitted until Refit.
func NewScene(src image.Image, fit media.FitMode) *Scene {
	return &Scene{source: src, fit: fit}
}

// Ready reports whether the scene has an image to show.
func (s *Scene) Ready() bool {
	return s != nil && s.source != nil
}

// Size is the viewport size the channel was fitted to.
func (s *Scene) Size() inputs.ViewportSize {
	return s.size
}

// Channel returns the fitted image, or nil before the first Refit.
func (s *Scene) Channel() inputs.IChannel {
	if s.channel == nil {
		return nil
	}
	return s.channel
}

// Refit scales the source image to size and replaces the channel. The
// previous channel, and its texture if it was uploaded, is released.
func (s *Scene) Refit(size inputs.ViewportSize) error {
	if !s.Ready() {
		return ErrNoImage
	}
	fitted, err := media.Fit(s.source, size.Width, size.Height, s.fit)
	if err != nil {
		return fmt.Errorf("failed to fit image to %v: %w", size, err)
	}
	ch, err := inputs.NewImageChannel(fitted)
	if err != nil {
		return err
	}
	if s.channel != nil {
		s.channel.Destroy()
	}
	s.channel = ch
	s.size = size
	slog.Debug("image fitted to viewport", "size", size.String(), "fit", s.fit.String())
	return nil
}

// Destroy releases the channel and drops the image reference.
func (s *Scene) Destroy() {
	if s == nil {
		return
	}
	if s.channel != nil {
		s.channel.Destroy()
		s.channel = nil
	}
	s.source = nil
	slog.Debug("scene destroyed")
}
