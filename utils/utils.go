package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrSizeMismatch is returned when a layer and the image it is composited onto
// have different dimensions.
var ErrSizeMismatch = errors.New("images do not match in size")

// ReadImage decodes the image at path. Any format registered with the image
// package (png, jpeg, gif, bmp, tiff, webp) is accepted.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img as PNG into filename. The data goes to a temporary file
// in the same directory first and is renamed into place, so readers never see
// a half written image.
func SaveImage(img image.Image, filename string) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := png.Encode(tmp, img); err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	tmp = nil
	return nil
}

// NewCanvas returns an RGBA copy of background anchored at the origin. Layers
// are composited onto the copy so the decoded background can be reused.
func NewCanvas(background image.Image) *image.RGBA {
	b := background.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), background, b.Min, draw.Src)
	return canvas
}

// Composite alpha-composites layer over dst ("over" operator). Both images
// must have the same dimensions.
func Composite(dst *image.RGBA, layer image.Image) error {
	db, lb := dst.Bounds(), layer.Bounds()
	if db.Dx() != lb.Dx() || db.Dy() != lb.Dy() {
		return fmt.Errorf("%w: layer is %dx%d, base is %dx%d",
			ErrSizeMismatch, lb.Dx(), lb.Dy(), db.Dx(), db.Dy())
	}
	draw.Draw(dst, db, layer, lb.Min, draw.Over)
	return nil
}

// Flatten draws img over an opaque matte of the given color.
func Flatten(img image.Image, matte color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(matte), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// ParseMatte parses an html hex color ("#rgb" or "#rrggbb") into an opaque
// color. An empty string means no matte and returns nil.
func ParseMatte(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid matte color: %w", err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
