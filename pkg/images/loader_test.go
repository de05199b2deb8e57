package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

// testPNG encodes a solid red w x h image.
func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func base64URI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestLoadImageFromDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		w, h    int
		wantErr bool
	}{
		{name: "base64", uri: base64URI(testPNG(2, 3)), w: 2, h: 3},
		{name: "percent encoded", uri: "data:image/png," + url.PathEscape(string(testPNG(1, 4))), w: 1, h: 4},
		{name: "not a data uri", uri: "/path/to/file.png", wantErr: true},
		{name: "missing comma", uri: "data:image/png;base64", wantErr: true},
		{name: "bad base64", uri: "data:image/png;base64,!!!", wantErr: true},
		{name: "bad escape", uri: "data:image/png,%zz", wantErr: true},
		{name: "not an image", uri: "data:image/png;base64,aGVsbG8=", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := LoadImageFromDataURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestLoadImage_CachesDataURI(t *testing.T) {
	uri := base64URI(testPNG(5, 2))
	first, err := LoadImage(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := LoadImage(uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if first != second {
		t.Error("second load should come from the cache")
	}
	if w, h, err := GetImageDimensions(uri); err != nil || w != 5 || h != 2 {
		t.Errorf("GetImageDimensions = %d, %d, %v", w, h, err)
	}
	if !IsDataURI(uri) || IsDataURI("") {
		t.Error("IsDataURI misclassified input")
	}
}

func TestLoader_RelativeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tile.png"), testPNG(3, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(filepath.Join(dir, "page.html"))
	img, err := loader.Load("tile.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 5 {
		t.Errorf("expected 3x5, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := loader.Load("missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoader_HTTP(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "image/png")
		w.Write(testPNG(4, 4))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL + "/pages/index.html")
	for i := 0; i < 2; i++ {
		img, err := loader.Load("../img/a.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("expected width 4, got %d", img.Bounds().Dx())
		}
	}
	if hits != 1 {
		t.Errorf("expected 1 request, got %d", hits)
	}
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if Scale(src, 2, 2) != image.Image(src) {
		t.Error("same size should return the source image")
	}
	dst := Scale(src, 10, 6)
	if b := dst.Bounds(); b.Dx() != 10 || b.Dy() != 6 {
		t.Errorf("expected 10x6, got %dx%d", b.Dx(), b.Dy())
	}
	if b := Scale(src, 0, 6).Bounds(); !b.Empty() {
		t.Errorf("expected empty image, got %v", b)
	}
}
