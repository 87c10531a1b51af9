package inputs

import "github.com/go-gl/mathgl/mgl32"

// IChannel defines the contract for the image bound to the lens shader's iChannel0.
type IChannel interface {
	// Sample point-samples the channel at a pixel coordinate and returns
	// premultiplied RGBA in [0,1].
	Sample(coord mgl32.Vec2) mgl32.Vec4

	// Size returns the channel dimensions in pixels.
	Size() ViewportSize

	// Upload creates the GPU texture for the channel if it does not exist yet.
	Upload() error

	// GetTextureID returns the OpenGL texture ID that should be bound.
	GetTextureID() uint32

	// Destroy releases any resources held by the channel.
	Destroy()
}
