// Package imaging decodes input images into the single pixel layout the
// tensor assembler understands: 8 bits per channel, four channels.
package imaging

import (
	"fmt"
	"image"
	_ "image/png" // registers the PNG decoder
	"os"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Extension is the only file suffix routed to the decoder.
const Extension = ".png"

// ErrUnsupportedPixelFormat is returned when a decoded image does not use
// 8-bit four-channel pixels.
var ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")

// Supported reports whether path is routed to the decoder. The check is a
// plain suffix match on the file name; content is never sniffed.
func Supported(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// RGBA8 is a decoded image with 4 bytes per pixel (R, G, B, A), rows packed
// without padding and origin at (0, 0).
type RGBA8 struct {
	Width  int
	Height int
	Pix    []uint8
}

// Green returns the green channel of the pixel in column x, row y.
func (b *RGBA8) Green(x, y int) uint8 {
	return b.Pix[(y*b.Width+x)*4+1]
}

// Open decodes the file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Resize resamples img to width x height with Lanczos3. The result keeps
// 8-bit channels for 8-bit sources.
func Resize(img image.Image, width, height uint) image.Image {
	return resize.Resize(width, height, img, resize.Lanczos3)
}

// FromImage converts a decoded image into an RGBA8 buffer. Only images
// that already hold 8-bit RGBA samples are accepted; every other layout
// fails with ErrUnsupportedPixelFormat instead of being converted.
func FromImage(img image.Image) (*RGBA8, error) {
	switch m := img.(type) {
	case *image.RGBA:
		return pack(m.Pix, m.Stride, m.Rect), nil
	case *image.NRGBA:
		return pack(m.Pix, m.Stride, m.Rect), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "%T", img)
	}
}

func pack(pix []uint8, stride int, r image.Rectangle) *RGBA8 {
	w, h := r.Dx(), r.Dy()
	out := &RGBA8{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
	// Pix of a sub-image starts at Rect.Min, so rows are read relative to 0.
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w*4:(y+1)*w*4], pix[y*stride:y*stride+w*4])
	}
	return out
}
