package qimage

import (
	"image"
	"image/color"
	"strconv"
	"strings"
)

// ParsePalette parses a colon separated list of "r,g,b" or "r,g,b,a" entries
// into a palette. Entries which are malformed are skipped.
func ParsePalette(s string) color.Palette {
	palette := color.Palette{}
	for _, entry := range strings.Split(s, ":") {
		parts := strings.Split(entry, ",")
		if len(parts) < 3 || len(parts) > 4 {
			continue
		}
		var rgba [4]uint8
		rgba[3] = 255
		valid := true
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				valid = false
				break
			}
			rgba[i] = uint8(v)
		}
		if !valid {
			continue
		}
		palette = append(palette, color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]})
	}
	return palette
}

// Quantize maps every pixel of src to its closest palette colour.
// An empty palette returns a copy of the source.
func Quantize(src image.Image, palette color.Palette) *image.NRGBA {
	img := ToNRGBA(src)
	dst := image.NewNRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	if len(palette) == 0 {
		return dst
	}
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		c := color.NRGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2], A: dst.Pix[i+3]}
		q := color.NRGBAModel.Convert(palette.Convert(c)).(color.NRGBA)
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = q.R, q.G, q.B, q.A
	}
	return dst
}
