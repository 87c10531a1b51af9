// Package media loads the image shown under the lens and fits it to the
// viewport.
package media

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "https://github.com/richinsley/liquidglass")
	return t.Transport.RoundTrip(req)
}

// Fetcher loads images from local paths or http(s) URLs. Downloads are kept
// in CacheDir when caching is requested.
type Fetcher struct {
	Client   *http.Client
	CacheDir string
}

// NewFetcher returns a Fetcher using the user cache directory.
func NewFetcher() (*Fetcher, error) {
	dir, err := getCacheDir("media")
	if err != nil {
		return nil, fmt.Errorf("could not get cache directory: %w", err)
	}
	return &Fetcher{
		Client:   &http.Client{Transport: &headerTransport{Transport: http.DefaultTransport}},
		CacheDir: dir,
	}, nil
}

// LoadImage decodes the image at pathOrURL with a default Fetcher.
func LoadImage(pathOrURL string, useCache bool) (image.Image, error) {
	if !isURL(pathOrURL) {
		return decodeFile(pathOrURL)
	}
	f, err := NewFetcher()
	if err != nil {
		return nil, err
	}
	return f.Load(pathOrURL, useCache)
}

// Load decodes the image at pathOrURL. A URL is downloaded unless a cached
// copy exists and useCache is set; a cached copy that fails to decode is
// downloaded again.
func (f *Fetcher) Load(pathOrURL string, useCache bool) (image.Image, error) {
	if !isURL(pathOrURL) {
		return decodeFile(pathOrURL)
	}

	cachePath := filepath.Join(f.CacheDir, cacheName(pathOrURL))
	if useCache && f.CacheDir != "" {
		if img, err := decodeFile(cachePath); err == nil {
			slog.Debug("using cached image", "url", pathOrURL, "path", cachePath)
			return img, nil
		} else if !os.IsNotExist(err) {
			slog.Warn("could not decode cached image, redownloading", "path", cachePath, "error", err)
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image %s: %w", pathOrURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load image %s, status code: %d", pathOrURL, resp.StatusCode)
	}

	// Read into a buffer to allow both decoding and saving
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data from %s: %w", pathOrURL, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode downloaded image from %s: %w", pathOrURL, err)
	}

	if useCache && f.CacheDir != "" {
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			slog.Warn("failed to save image to cache", "path", cachePath, "error", err)
		}
	}
	return img, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// cacheName keeps the URL's base name for readability and prefixes a hash so
// that different URLs with the same file name do not collide.
func cacheName(url string) string {
	sum := sha1.Sum([]byte(url))
	base := path.Base(strings.SplitN(url, "?", 2)[0])
	return hex.EncodeToString(sum[:8]) + "-" + base
}

func decodeFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return img, nil
}

// getCacheDir determines the appropriate OS-specific cache directory.
func getCacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default: // linux, bsd, etc.
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}

	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(baseCacheDir, "liquidglass", subdir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", cacheDir, err)
	}
	return cacheDir, nil
}
