package qimage

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an image in any of the registered formats (PNG, JPEG, GIF,
// BMP, TIFF, WebP) and returns it as NRGBA with its origin at (0, 0).
func Decode(r io.Reader) (*image.NRGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return ToNRGBA(src), nil
}

// LoadImage opens and decodes the named image file.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()
	return Decode(f)
}
