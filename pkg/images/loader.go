// Package images loads and scales the raster images referenced by
// url() backgrounds.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"layerstack/std/net"
)

// Loader resolves image references against a base location and caches
// decoded images by their resolved address.
type Loader struct {
	// Base is the document location: a directory, a file path or a URL.
	Base string

	cache map[string]image.Image
	mu    sync.RWMutex
}

// NewLoader creates a loader resolving relative references against base.
func NewLoader(base string) *Loader {
	return &Loader{Base: base, cache: make(map[string]image.Image)}
}

var defaultLoader = NewLoader("")

// Load returns the image at uri: a data: URI, an http(s) URL or a file path.
func (l *Loader) Load(uri string) (image.Image, error) {
	key := l.resolve(uri)
	l.mu.RLock()
	if img, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	var img image.Image
	var err error
	switch {
	case IsDataURI(key):
		img, err = LoadImageFromDataURI(key)
	case net.IsNetworkURL(key):
		img, err = loadNetwork(key)
	default:
		img, err = loadFile(key)
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]image.Image)
	}
	l.cache[key] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) resolve(uri string) string {
	return net.Resolve(l.Base, uri)
}

func loadFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func loadNetwork(rawURL string) (image.Image, error) {
	body, _, err := net.Fetch(rawURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return img, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// LoadImageFromDataURI decodes an image from a data: URI. Base64 and
// percent-encoded payloads are accepted.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI: missing comma")
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 payload: %w", err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI payload: %w", err)
		}
		data = []byte(s)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding data URI image: %w", err)
	}
	return img, nil
}

// LoadImage loads uri through the default loader.
func LoadImage(uri string) (image.Image, error) {
	return defaultLoader.Load(uri)
}

// GetImageDimensions returns the width and height of an image
func GetImageDimensions(path string) (width, height int, err error) {
	img, err := LoadImage(path)
	if err != nil {
		return 0, 0, err
	}

	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// Scale returns img resampled to w x h pixels. Images already of that
// size are returned unchanged.
func Scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
