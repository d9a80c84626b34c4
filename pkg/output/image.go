// Package output stores rendered pixels and encodes them to image files.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for file extensions with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// JPEGQuality is used when saving .jpg files
const JPEGQuality = 95

// Format identifies an image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Image is an 8-bit RGB image sink for the renderer
type Image struct {
	img *image.RGBA
}

// NewImage creates a black image of the given size
func NewImage(width, height int) *Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &Image{img: img}
}

// SetPixel sets an opaque pixel. Coordinates outside the image are ignored.
func (m *Image) SetPixel(x, y int, r, g, b uint8) {
	m.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
}

// RGBA returns the underlying image
func (m *Image) RGBA() *image.RGBA {
	return m.img
}

// Bounds returns the image bounds
func (m *Image) Bounds() image.Rectangle {
	return m.img.Bounds()
}

// Annotate draws a line of text in the bottom-left corner
func (m *Image) Annotate(text string) {
	face := basicfont.Face7x13
	bounds := m.img.Bounds()

	// Dark backing strip so the text stays readable on bright skies
	strip := image.Rect(bounds.Min.X, bounds.Max.Y-face.Height-4, bounds.Max.X, bounds.Max.Y)
	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		for x := strip.Min.X; x < strip.Max.X; x++ {
			m.img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}

	drawer := &font.Drawer{
		Dst:  m.img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(bounds.Min.X+4, bounds.Max.Y-4-face.Descent),
	}
	drawer.DrawString(text)
}

// Encode writes the image in the given format
func (m *Image) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, m.img)
	case FormatJPEG:
		return jpeg.Encode(w, m.img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		return bmp.Encode(w, m.img)
	case FormatTIFF:
		return tiff.Encode(w, m.img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save encodes the image to path, choosing the format from the extension
// and creating parent directories as needed.
func (m *Image) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := m.Encode(file, format); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return file.Close()
}
