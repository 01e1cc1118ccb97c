package qimage

import (
	"image"
	"math"
)

// WeightFunc turns an image into a per-pixel weight mask of the same shape.
type WeightFunc func(img *image.NRGBA) *Mask

// UniformWeights gives every pixel the same weight.
func UniformWeights(img *image.NRGBA) *Mask {
	b := img.Bounds()
	m := NewMask(Shape{Height: b.Dy(), Width: b.Dx()})
	for i := range m.Values {
		m.Values[i] = 1
	}
	return m
}

// SobelWeights weighs pixels by their edge magnitude. The image is blurred
// with blurRadius before the Sobel operator, and magnitudes at or below the
// threshold are discarded.
func SobelWeights(blurRadius int, threshold float64) WeightFunc {
	return func(img *image.NRGBA) *Mask {
		gray := StackBlur(Grayscale(img), blurRadius)
		return SobelMagnitude(gray, threshold)
	}
}

// entropyLevels is the number of histogram bins used by EntropyWeights.
const entropyLevels = 16

// EntropyWeights weighs pixels by the Shannon entropy (in bits) of the
// grayscale levels found in the square window of the given radius around them.
// Flat regions get zero weight, busy regions the most.
func EntropyWeights(radius int) WeightFunc {
	return func(img *image.NRGBA) *Mask {
		gray := Grayscale(img)
		width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
		m := NewMask(Shape{Height: height, Width: width})

		levels := make([]uint8, width*height)
		for i := range levels {
			levels[i] = gray.Pix[i<<2] / (256 / entropyLevels)
		}

		var hist [entropyLevels]int
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				hist = [entropyLevels]int{}
				total := 0
				for sy := Max(y-radius, 0); sy <= Min(y+radius, height-1); sy++ {
					for sx := Max(x-radius, 0); sx <= Min(x+radius, width-1); sx++ {
						hist[levels[sx+sy*width]]++
						total++
					}
				}
				var h float64
				for _, c := range hist {
					if c == 0 {
						continue
					}
					p := float64(c) / float64(total)
					h -= p * math.Log2(p)
				}
				m.Values[y*width+x] = h
			}
		}
		return m
	}
}
