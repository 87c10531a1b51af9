// Package lens implements the liquid glass shading function on the CPU.
//
// Shade is the per-pixel program: given a fragment coordinate, the frame
// uniforms and the image under the lens it returns the output color. It is a
// pure function; evaluating it for different pixels in parallel needs no
// synchronization. The same algorithm, written in GLSL, lives in the shader
// package, and both must produce the same image.
//
// All arithmetic is float32 to match highp fragment shader precision.
package lens

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/liquidglass/inputs"
)

// Sampler point-samples an image at a pixel coordinate and returns
// premultiplied RGBA in [0,1].
type Sampler interface {
	Sample(coord mgl32.Vec2) mgl32.Vec4
}

// blurRadius is the half width of the box blur grid in taps.
const blurRadius = 4

// Mask is the lens coverage at one fragment.
type Mask struct {
	// Box is the superellipse distance |d.x|^8 + |d.y|^8; 1 on the lens edge.
	Box float32
	// Fill is the interior mask, 1 inside and falling to 0 at the edge.
	Fill float32
	// Border is the thin ring along the edge.
	Border float32
	// Outer is the wider band used only for directional shading.
	Outer float32
	// Transition blends the untouched image (0) with the lensed color (1).
	Transition float32
}

// ComputeMask evaluates the lens masks at fragment p. The result depends only
// on p relative to the pointer, in pixels, and on the lens size.
func ComputeMask(p mgl32.Vec2, u inputs.FrameUniforms) Mask {
	halfW := u.LensDimensions[0] / 2
	halfH := u.LensDimensions[1] / 2
	dx := (p[0] - u.Pointer[0]) / halfW
	dy := (p[1] - u.Pointer[1]) / halfH
	return MaskFromBox(pow8(abs(dx)) + pow8(abs(dy)))
}

// MaskFromBox derives the masks from a superellipse distance.
func MaskFromBox(box float32) Mask {
	fill := clamp01((1 - box) * 8)
	border := clamp01((0.95-box*0.95)*16) - clamp01((0.9-box*0.95)*16)
	outer := clamp01((1.5-box*1.1)*2) - clamp01((1.0-box*1.1)*2)
	return Mask{
		Box:        box,
		Fill:       fill,
		Border:     border,
		Outer:      outer,
		Transition: smoothstep(0, 1, fill+border),
	}
}

// Zoom is the magnification factor for a superellipse distance. It is
// clamped at zero so the image never inverts at or past the lens edge.
func Zoom(box float32) float32 {
	return max(0, 1-box*0.5)
}

// Blur averages 81 samples on a 9×9 grid around lensUV, spaced half a pixel
// apart. lensUV is in normalized [0,1] surface coordinates.
func Blur(img Sampler, lensUV, res mgl32.Vec2) mgl32.Vec4 {
	var sum mgl32.Vec4
	var total float32
	for x := float32(-blurRadius); x <= blurRadius; x++ {
		for y := float32(-blurRadius); y <= blurRadius; y++ {
			ox := x * 0.5 / res[0]
			oy := y * 0.5 / res[1]
			c := img.Sample(mgl32.Vec2{(ox + lensUV[0]) * res[0], (oy + lensUV[1]) * res[1]})
			sum = sum.Add(c)
			total++
		}
	}
	for i := range sum {
		sum[i] /= total
	}
	return sum
}

// Gradient is the directional lighting term. m2y is the fragment's vertical
// offset from the pointer in normalized surface units (positive below the
// pointer); outer is the Outer mask. Below the pointer the ramp brightens,
// above it the outer band darkens relative to the interior.
func Gradient(m2y, outer float32) float32 {
	below := clamp01((clamp(m2y, 0, 0.2) + 0.1) / 2)
	above := clamp01((clamp(-m2y, -1000, 0.2)*outer + 0.1) / 2)
	return below + above
}

// Shade returns the output color for fragment p.
func Shade(p mgl32.Vec2, u inputs.FrameUniforms, img Sampler) mgl32.Vec4 {
	if Degenerate(u) {
		return img.Sample(p)
	}

	res := u.Resolution
	uv := mgl32.Vec2{p[0] / res[0], p[1] / res[1]}
	original := img.Sample(mgl32.Vec2{uv[0] * res[0], uv[1] * res[1]})

	m := ComputeMask(p, u)
	if m.Transition == 0 {
		return original
	}

	zoom := Zoom(m.Box)
	lensUV := mgl32.Vec2{(uv[0]-0.5)*zoom + 0.5, (uv[1]-0.5)*zoom + 0.5}
	blurred := Blur(img, lensUV, res)

	m2y := uv[1] - u.Pointer[1]/res[1]
	gradient := Gradient(m2y, m.Outer)

	var out mgl32.Vec4
	for i := range out {
		lit := clamp01(blurred[i] + m.Fill*gradient + m.Border*0.3)
		out[i] = mix(original[i], lit, m.Transition)
	}
	return out
}

// Degenerate reports whether the uniforms would divide by zero or carry
// non-finite values into the mask math.
func Degenerate(u inputs.FrameUniforms) bool {
	for _, v := range [...]float32{
		u.Resolution[0], u.Resolution[1],
		u.LensDimensions[0], u.LensDimensions[1],
	} {
		if v == 0 || !finite(v) {
			return true
		}
	}
	return !finite(u.Pointer[0]) || !finite(u.Pointer[1])
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func abs(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}

func pow8(v float32) float32 {
	v2 := v * v
	v4 := v2 * v2
	return v4 * v4
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

func clamp01(v float32) float32 {
	return clamp(v, 0, 1)
}

// smoothstep matches the GLSL built-in.
func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// mix matches the GLSL built-in.
func mix(x, y, a float32) float32 {
	return x*(1-a) + y*a
}
