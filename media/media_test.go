package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		name   string
		sw, sh int
		w, h   int
		mode   FitMode
		want   image.Rectangle
	}{
		{"fitWidth wide", 200, 100, 400, 400, FitWidth, image.Rect(0, 100, 400, 300)},
		{"fitWidth tall", 100, 400, 200, 200, FitWidth, image.Rect(0, -300, 200, 500)},
		{"contain tall", 100, 400, 200, 200, Contain, image.Rect(75, 0, 125, 200)},
		{"cover wide", 200, 100, 400, 400, Cover, image.Rect(-200, 0, 600, 400)},
		{"fill", 10, 30, 400, 300, Fill, image.Rect(0, 0, 400, 300)},
		{"same size", 64, 48, 64, 48, Contain, image.Rect(0, 0, 64, 48)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Placement(tt.sw, tt.sh, tt.w, tt.h, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Placement() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Placement(0, 10, 10, 10, Fill); err == nil {
		t.Error("empty source should be rejected")
	}
	if _, err := Placement(10, 10, 10, 10, FitMode(42)); !errors.Is(err, ErrUnsupportedFit) {
		t.Errorf("unknown mode error = %v, want ErrUnsupportedFit", err)
	}
}

func TestParseFitMode(t *testing.T) {
	for _, m := range []FitMode{FitWidth, Contain, Cover, Fill} {
		got, err := ParseFitMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseFitMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseFitMode("stretch"); !errors.Is(err, ErrUnsupportedFit) {
		t.Errorf("ParseFitMode(stretch) error = %v, want ErrUnsupportedFit", err)
	}
}

func TestFitLeavesUncoveredTransparent(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	dst, err := Fit(solidImage(200, 100, red), 400, 400, FitWidth)
	if err != nil {
		t.Fatal(err)
	}
	if got := dst.Bounds(); got != image.Rect(0, 0, 400, 400) {
		t.Fatalf("bounds = %v", got)
	}
	if got := dst.RGBAAt(200, 10); got != (color.RGBA{}) {
		t.Errorf("band above the image = %v, want transparent", got)
	}
	if got := dst.RGBAAt(200, 390); got != (color.RGBA{}) {
		t.Errorf("band below the image = %v, want transparent", got)
	}
	if got := dst.RGBAAt(200, 200); got.R < 250 || got.G > 5 || got.A < 250 {
		t.Errorf("image center = %v, want about %v", got, red)
	}
}

func TestFitSameSizeCopies(t *testing.T) {
	src := solidImage(8, 8, color.RGBA{1, 2, 3, 255})
	src.SetRGBA(3, 4, color.RGBA{9, 9, 9, 255})
	dst, err := Fit(src.SubImage(image.Rect(0, 0, 8, 8)), 8, 8, Fill)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dst.Pix, src.Pix) {
		t.Error("same-size fit should copy pixels unchanged")
	}
	if _, err := Fit(nil, 8, 8, Fill); err == nil {
		t.Error("Fit(nil) should fail")
	}
}

func TestFetcherLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "in.png")
	if err := os.WriteFile(name, encodePNG(t, solidImage(3, 2, color.RGBA{0, 0, 255, 255})), 0644); err != nil {
		t.Fatal(err)
	}
	img, err := LoadImage(name, false)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"), false); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFetcherDownloadAndCache(t *testing.T) {
	data := encodePNG(t, solidImage(4, 4, color.RGBA{0, 255, 0, 255}))
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), CacheDir: t.TempDir()}
	for range 3 {
		img, err := f.Load(srv.URL+"/photo.png", true)
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds().Dx() != 4 {
			t.Fatalf("bounds = %v", img.Bounds())
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1 with caching", n)
	}

	if _, err := f.Load(srv.URL+"/photo.png", false); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2 after uncached load", n)
	}

	if _, err := f.Load(srv.URL+"/missing.png", false); err == nil {
		t.Error("404 should fail")
	}
}

func TestFetcherRedownloadsCorruptCache(t *testing.T) {
	data := encodePNG(t, solidImage(2, 2, color.RGBA{255, 255, 255, 255}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), CacheDir: t.TempDir()}
	url := srv.URL + "/img.png"
	cached := filepath.Join(f.CacheDir, cacheName(url))
	if err := os.WriteFile(cached, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Load(url, true); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(cached)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("corrupt cache entry was not replaced")
	}
}
