package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &buf
}

func TestSaveThumbnailShrinksLargeImages(t *testing.T) {
	p := &Processor{Dir: t.TempDir()}

	name, err := p.SaveThumbnail(pngBytes(t, 1000, 400), PostMaxDim)
	if err != nil {
		t.Fatalf("SaveThumbnail: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected filename: %s", name)
	}

	f, err := os.Open(filepath.Join(p.Dir, name))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 500 || cfg.Height != 200 {
		t.Fatalf("unexpected dimensions: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveThumbnailKeepsSmallImages(t *testing.T) {
	p := &Processor{Dir: t.TempDir()}

	name, err := p.SaveThumbnail(pngBytes(t, 100, 80), ProfileMaxDim)
	if err != nil {
		t.Fatalf("SaveThumbnail: %v", err)
	}

	f, err := os.Open(filepath.Join(p.Dir, name))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 80 {
		t.Fatalf("unexpected dimensions: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveThumbnailRejectsGarbage(t *testing.T) {
	p := &Processor{Dir: t.TempDir()}

	if _, err := p.SaveThumbnail(strings.NewReader("not an image"), PostMaxDim); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRemoveMissingFileIsQuiet(t *testing.T) {
	p := &Processor{Dir: t.TempDir()}
	p.Remove("")
	p.Remove("nope.jpg")
}
