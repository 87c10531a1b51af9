package inputs

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// gradientImage returns a w×h image whose pixel (x, y) has R=x, G=y.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestNewImageChannelRejectsMissing(t *testing.T) {
	if _, err := NewImageChannel(nil); err == nil {
		t.Error("NewImageChannel(nil) should fail")
	}
	if _, err := NewImageChannel(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("NewImageChannel(empty) should fail")
	}
}

func TestImageChannelSampleClampToEdge(t *testing.T) {
	ch, err := NewImageChannel(gradientImage(4, 3))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		coord mgl32.Vec2
		x, y  uint8
	}{
		{"texel center", mgl32.Vec2{1.5, 2.5}, 1, 2},
		{"texel corner", mgl32.Vec2{2, 1}, 2, 1},
		{"left of surface", mgl32.Vec2{-10, 1.5}, 0, 1},
		{"above surface", mgl32.Vec2{1.5, -0.01}, 1, 0},
		{"right edge", mgl32.Vec2{4, 0}, 3, 0},
		{"far bottom right", mgl32.Vec2{1e9, 1e9}, 3, 2},
		{"not a number", mgl32.Vec2{float32(math.NaN()), 1.5}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ch.Sample(tt.coord)
			want := mgl32.Vec4{float32(tt.x) * inv255, float32(tt.y) * inv255, 0, 1}
			if got != want {
				t.Errorf("Sample(%v) = %v, want %v", tt.coord, got, want)
			}
		})
	}
}

func TestImageChannelNormalizesOrigin(t *testing.T) {
	src := gradientImage(8, 8).SubImage(image.Rect(2, 3, 6, 7))
	ch, err := NewImageChannel(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := ch.Size(); got != (ViewportSize{4, 4}) {
		t.Fatalf("Size() = %v, want 4x4", got)
	}
	got := ch.Sample(mgl32.Vec2{0.5, 0.5})
	// Scale at run time in float32, the way Sample does.
	r, g := uint8(2), uint8(3)
	want := mgl32.Vec4{float32(r) * inv255, float32(g) * inv255, 0, 1}
	if got != want {
		t.Errorf("Sample at channel origin = %v, want source pixel (2,3) %v", got, want)
	}
}

func TestImageChannelBeforeUpload(t *testing.T) {
	var ch IChannel
	ch, err := NewImageChannel(gradientImage(5, 7))
	if err != nil {
		t.Fatal(err)
	}
	if got := ch.Size(); got != (ViewportSize{5, 7}) {
		t.Errorf("Size() = %v, want 5x7", got)
	}
	if ch.GetTextureID() != 0 {
		t.Error("texture should not exist before Upload")
	}
	// Destroy without a texture touches no GL state.
	ch.Destroy()
}

func TestGesturePaths(t *testing.T) {
	size := ViewportSize{400, 300}
	lens := DefaultLensDimensions

	static, err := ParseGesturePath("static")
	if err != nil {
		t.Fatal(err)
	}
	if got := static(3, 10, size, lens); got != (mgl32.Vec2{200, 150}) {
		t.Errorf("static = %v, want center", got)
	}

	circle, _ := ParseGesturePath("circle")
	for i := range 8 {
		p := circle(i, 8, size, lens)
		d := p.Sub(mgl32.Vec2{200, 150}).Len()
		if math.Abs(float64(d)-75) > 1e-3 {
			t.Errorf("circle frame %d at distance %v from center, want 75", i, d)
		}
	}

	sweep, _ := ParseGesturePath("sweep")
	if got := sweep(0, 11, size, lens); got != (mgl32.Vec2{-200, 150}) {
		t.Errorf("sweep start = %v", got)
	}
	if got := sweep(10, 11, size, lens); got != (mgl32.Vec2{600, 150}) {
		t.Errorf("sweep end = %v", got)
	}

	// The off-surface margin follows the configured lens, not the default.
	wide := mgl32.Vec2{320, 100}
	if got := sweep(0, 11, size, wide); got != (mgl32.Vec2{-320, 150}) {
		t.Errorf("sweep start with %v lens = %v", wide, got)
	}
	if got := sweep(10, 11, size, wide); got != (mgl32.Vec2{720, 150}) {
		t.Errorf("sweep end with %v lens = %v", wide, got)
	}

	if _, err := ParseGesturePath("zigzag"); err == nil {
		t.Error("unknown path should be rejected")
	}
}
