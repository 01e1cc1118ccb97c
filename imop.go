package qimage

import (
	"image"
	"image/color"
)

// Grayscale converts the image to grayscale mode. Every channel of the
// destination pixel holds the luminance and alpha is kept.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		lum := uint8(float32(r)*0.299 + float32(g)*0.587 + float32(b)*0.114)
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = lum, lum, lum, src.Pix[i+3]
	}
	return dst
}

// ToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := dstW * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	case *image.Gray:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := src.Pix[si]
				dst.Pix[di+0] = c
				dst.Pix[di+1] = c
				dst.Pix[di+2] = c
				dst.Pix[di+3] = 0xff
				di += 4
				si++
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}

// StackBlur smooths the red channel of a grayscale image with a box kernel of
// the given radius. It is used to quiet pixel noise before edge detection.
func StackBlur(img *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	side := radius*2 + 1
	dst := image.NewNRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	convolutionFilter(setBlurMatrix(radius), dst, float64(side*side))
	return dst
}

// convolutionFilter applies a mathematical operation over the source image by taking
// the matrix table as input parameter and convolving the matrix values over the pixels data.
// Only the red channel is read and written, the image is expected to be grayscale.
func convolutionFilter(matrix []float64, img *image.NRGBA, divisor float64) {
	var (
		width  = img.Bounds().Dx()
		height = img.Bounds().Dy()
		side   = 0
	)
	for side*side < len(matrix) {
		side++
	}
	dim := side / 2

	if divisor != 1 {
		for k := range matrix {
			matrix[k] /= divisor
		}
	}
	values := make([]float64, width*height)
	for i := range values {
		values[i] = float64(img.Pix[i*4])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r float64

			for row := -dim; row <= dim; row++ {
				sy := Clamp(y+row, 0, height-1)
				kstep := (row + dim) * side
				for col := -dim; col <= dim; col++ {
					sx := Clamp(x+col, 0, width-1)
					r += values[sx+sy*width] * matrix[(col+dim)+kstep]
				}
			}

			v := uint8(Clamp(r, 0, 255))
			i := (x + y*width) << 2
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = v, v, v
		}
	}
}

// setBlurMatrix populates a matrix table with values used in conjunction with the convolution filter operator.
func setBlurMatrix(size int) []float64 {
	var (
		side   = size*2 + 1
		length = side * side
		matrix = make([]float64, length)
	)

	for i := 0; i < length; i++ {
		matrix[i] = 1
	}

	return matrix
}
