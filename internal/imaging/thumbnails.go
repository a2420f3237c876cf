package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// Bounding box edge for each kind of upload, in pixels.
const (
	PostMaxDim    = 500
	ProfileMaxDim = 125
)

// Processor turns uploaded images into bounded jpeg thumbnails stored under
// Dir. Callers persist only the returned filename; the binary never enters
// the database.
type Processor struct {
	Dir string
}

// SaveThumbnail decodes the upload, shrinks it to fit maxDim x maxDim while
// keeping the aspect ratio (images already within bounds are kept at size),
// and writes it as a jpeg under a random filename.
func (p *Processor) SaveThumbnail(r io.Reader, maxDim int) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	dst := scaleToFit(src, maxDim)

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.NewString() + ".jpg"
	tmp, err := os.CreateTemp(p.Dir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if err := jpeg.Encode(tmp, dst, &jpeg.Options{Quality: 85}); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(p.Dir, filename)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("store thumbnail: %w", err)
	}

	return filename, nil
}

// Remove deletes a stored thumbnail. Missing files are not an error.
func (p *Processor) Remove(filename string) {
	if filename == "" {
		return
	}
	_ = os.Remove(filepath.Join(p.Dir, filename))
}

func scaleToFit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
