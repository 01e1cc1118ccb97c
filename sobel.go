package qimage

import (
	"image"
	"math"
)

type kernel [3][3]float64

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelMagnitude computes the gradient magnitude of a grayscale image.
// Magnitudes not exceeding the threshold are set to zero. Border pixels
// reuse their nearest neighbour.
func SobelMagnitude(gray *image.NRGBA, threshold float64) *Mask {
	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	m := NewMask(Shape{Height: height, Width: width})

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumX, sumY float64
			for ky := 0; ky < 3; ky++ {
				sy := Clamp(y+ky-1, 0, height-1)
				for kx := 0; kx < 3; kx++ {
					sx := Clamp(x+kx-1, 0, width-1)
					// The image is grayscale so the red channel is enough.
					px := float64(gray.Pix[(sx+sy*width)<<2])
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			magnitude := math.Sqrt(sumX*sumX + sumY*sumY)
			if magnitude > threshold {
				m.Values[y*width+x] = magnitude
			}
		}
	}
	return m
}

// SobelFilter renders the thresholded gradient magnitude as a grayscale image.
func SobelFilter(gray *image.NRGBA, threshold float64) *image.NRGBA {
	m := SobelMagnitude(gray, threshold)
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Values {
		c := uint8(Clamp(v/2, 0, 255))
		j := i << 2
		dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = c, c, c, 255
	}
	return dst
}
