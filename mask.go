package qimage

import "math"

const (
	defaultMaskAmp   = 1.0
	defaultMaskSigma = 15.0
)

// Shape describes the dimensions of a weight grid as (height, width).
type Shape struct {
	Height, Width int
}

// Mask is a dense grid of real valued weights stored in row-major order.
type Mask struct {
	Width, Height int
	Values        []float64
}

// NewMask allocates a zero filled mask of the given shape.
func NewMask(shape Shape) *Mask {
	return &Mask{
		Width:  shape.Width,
		Height: shape.Height,
		Values: make([]float64, shape.Width*shape.Height),
	}
}

// Shape returns the (height, width) pair of the mask.
func (m *Mask) Shape() Shape {
	return Shape{Height: m.Height, Width: m.Width}
}

// At returns the weight at the given row and column.
func (m *Mask) At(row, col int) float64 {
	return m.Values[row*m.Width+col]
}

// Set stores the weight at the given row and column.
func (m *Mask) Set(row, col int, v float64) {
	m.Values[row*m.Width+col] = v
}

// MaskOptions holds the optional parameters of GaussianMask.
// A nil field falls back to its default (Amp 1, Sigma 15).
type MaskOptions struct {
	Amp   *float64
	Sigma *float64
}

// GaussianMask returns a grid of the given shape where the value at row j and
// column i is amp * exp(-((i-x)² + (j-y)²) / (2σ²)), a radial falloff peaking
// at (x, y). opts may be nil.
func GaussianMask(x, y float64, shape Shape, opts *MaskOptions) *Mask {
	if opts == nil {
		opts = &MaskOptions{}
	}
	amp := Default(opts.Amp, defaultMaskAmp)
	sigma := Default(opts.Sigma, defaultMaskSigma)
	denom := 2 * sigma * sigma

	m := NewMask(shape)
	for j := 0; j < shape.Height; j++ {
		dy := float64(j) - y
		for i := 0; i < shape.Width; i++ {
			dx := float64(i) - x
			m.Values[j*shape.Width+i] = amp * math.Exp(-(dx*dx+dy*dy)/denom)
		}
	}
	return m
}
