package qimage

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	WithoutWireframe = iota
	WithWireframe
	WireframeOnly
)

// FillMode selects how a triangle picks its colour.
type FillMode int

const (
	// FillCentroid uses the pixel under the triangle centroid.
	FillCentroid FillMode = iota
	// FillDominant uses the most frequent colour covered by the triangle.
	FillDominant
)

// Renderer draws a triangulation over the source image.
type Renderer struct {
	Fill      FillMode
	Wireframe int
	LineWidth float64
	// Palette quantizes the triangle colours when not empty.
	Palette color.Palette
	// Noise is the amount of grain applied to the final image.
	Noise int
}

// Render paints every triangle of t with a colour taken from src. The
// returned image has the bounds of src moved to the origin.
func (r *Renderer) Render(src image.Image, t *Triangulation) image.Image {
	img := ToNRGBA(src)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	ctx := gg.NewContext(width, height)
	ctx.DrawRectangle(0, 0, float64(width), float64(height))
	ctx.SetRGBA(1, 1, 1, 1)
	ctx.Fill()

	lineWidth := r.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}

	for _, s := range t.Simplices {
		p0, p1, p2 := t.Points[s[0]], t.Points[s[1]], t.Points[s[2]]

		var c color.NRGBA
		switch r.Fill {
		case FillDominant:
			c = dominantColor(img, p0, p1, p2)
		default:
			c = centroidColor(img, p0, p1, p2)
		}
		if len(r.Palette) > 0 {
			c = color.NRGBAModel.Convert(r.Palette.Convert(c)).(color.NRGBA)
		}

		ctx.Push()
		ctx.MoveTo(p0.X, p0.Y)
		ctx.LineTo(p1.X, p1.Y)
		ctx.LineTo(p2.X, p2.Y)
		ctx.ClosePath()

		switch r.Wireframe {
		case WithWireframe:
			ctx.SetFillStyle(gg.NewSolidPattern(c))
			ctx.SetStrokeStyle(gg.NewSolidPattern(color.NRGBA{A: 20}))
			ctx.SetLineWidth(lineWidth)
			ctx.FillPreserve()
			ctx.Stroke()
		case WireframeOnly:
			ctx.SetStrokeStyle(gg.NewSolidPattern(c))
			ctx.SetLineWidth(lineWidth)
			ctx.Stroke()
		default:
			ctx.SetFillStyle(gg.NewSolidPattern(c))
			// A hairline stroke in the fill colour hides antialiasing seams.
			ctx.SetStrokeStyle(gg.NewSolidPattern(c))
			ctx.SetLineWidth(0.5)
			ctx.FillPreserve()
			ctx.Stroke()
		}
		ctx.Pop()
	}

	out := ctx.Image()
	if r.Noise > 0 {
		return Noise(r.Noise, out)
	}
	return out
}

func pixelAt(img *image.NRGBA, x, y float64) color.NRGBA {
	b := img.Bounds()
	px := Clamp(int(x), 0, b.Dx()-1)
	py := Clamp(int(y), 0, b.Dy()-1)
	return img.NRGBAAt(px, py)
}

func centroidColor(img *image.NRGBA, p0, p1, p2 Point) color.NRGBA {
	return pixelAt(img, (p0.X+p1.X+p2.X)/3, (p0.Y+p1.Y+p2.Y)/3)
}

// dominantColor returns the most frequent colour among the pixels whose
// position lies inside the triangle. On a tie the colour which reached the
// winning count first in scanline order is kept.
func dominantColor(img *image.NRGBA, p0, p1, p2 Point) color.NRGBA {
	b := img.Bounds()
	minX := Clamp(int(math.Floor(Min(p0.X, p1.X, p2.X))), 0, b.Dx()-1)
	maxX := Clamp(int(math.Ceil(Max(p0.X, p1.X, p2.X))), 0, b.Dx()-1)
	minY := Clamp(int(math.Floor(Min(p0.Y, p1.Y, p2.Y))), 0, b.Dy()-1)
	maxY := Clamp(int(math.Ceil(Max(p0.Y, p1.Y, p2.Y))), 0, b.Dy()-1)

	counts := make(map[color.NRGBA]int)
	var (
		best      color.NRGBA
		bestCount int
	)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !inTriangle(Point{float64(x), float64(y)}, p0, p1, p2) {
				continue
			}
			c := img.NRGBAAt(x, y)
			counts[c]++
			if counts[c] > bestCount {
				best, bestCount = c, counts[c]
			}
		}
	}
	if bestCount == 0 {
		return centroidColor(img, p0, p1, p2)
	}
	return best
}

// inTriangle reports whether p lies inside or on the border of the triangle.
func inTriangle(p, a, b, c Point) bool {
	d0 := cross(a, b, p)
	d1 := cross(b, c, p)
	d2 := cross(c, a, p)
	hasNeg := d0 < 0 || d1 < 0 || d2 < 0
	hasPos := d0 > 0 || d1 > 0 || d2 > 0
	return !(hasNeg && hasPos)
}
