package qimage

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/fogleman/gg"
)

const (
	defaultMinEdge   = 5
	defaultEdgeRange = 60
	// scatterDensity is the number of triangles per unit of aspect ratio.
	scatterDensity = 1 / 0.00001708897089
)

// Scatter paints isolated random triangles over a transparent canvas, each
// filled with the most frequent source colour it covers. Unlike Renderer the
// triangles do not form a mesh and may overlap or leave gaps.
type Scatter struct {
	// The second and third vertex are offset from the first by a distance
	// drawn from [MinEdge, MinEdge+EdgeRange) on both axes, in a random
	// direction. Either being zero selects 5 and 60.
	MinEdge, EdgeRange int
	// Count is the number of triangles. Zero derives it from the aspect
	// ratio of the image.
	Count int
	// Palette quantizes the triangle colours when not empty.
	Palette color.Palette
	Noise   int
	// Rand is the random source, seeded from the clock when nil.
	Rand *rand.Rand
}

// Lines returns a Scatter whose triangles collapse into 60 pixel diagonal
// strokes and wedges.
func Lines() *Scatter {
	return &Scatter{MinEdge: 60, EdgeRange: 1}
}

func (s *Scatter) edges() (int, int) {
	if s.MinEdge <= 0 || s.EdgeRange <= 0 {
		return defaultMinEdge, defaultEdgeRange
	}
	return s.MinEdge, s.EdgeRange
}

func (s *Scatter) count(width, height int) int {
	if s.Count > 0 {
		return s.Count
	}
	return int(float64(width) / float64(height) * scatterDensity)
}

// Triangles draws the random triangles for a canvas of the given size. The
// first vertex of each lies inside the canvas, the others may fall outside.
func (s *Scatter) Triangles(width, height int) [][3]Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	r := newRand(s.Rand)
	minEdge, edgeRange := s.edges()
	offset := func() float64 {
		d := float64(r.Intn(edgeRange) + minEdge)
		if r.Intn(2) == 0 {
			return -d
		}
		return d
	}

	triangles := make([][3]Point, s.count(width, height))
	for i := range triangles {
		v := Point{X: float64(r.Intn(width)), Y: float64(r.Intn(height))}
		triangles[i] = [3]Point{
			v,
			{X: v.X + offset(), Y: v.Y + offset()},
			{X: v.X + offset(), Y: v.Y + offset()},
		}
	}
	return triangles
}

// Render paints the scattered triangles with colours taken from src. The
// returned image has the bounds of src moved to the origin.
func (s *Scatter) Render(src image.Image) image.Image {
	img := ToNRGBA(src)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	ctx := gg.NewContext(width, height)

	for _, t := range s.Triangles(width, height) {
		c := dominantColor(img, t[0], t[1], t[2])
		if len(s.Palette) > 0 {
			c = color.NRGBAModel.Convert(s.Palette.Convert(c)).(color.NRGBA)
		}
		ctx.MoveTo(t[0].X, t[0].Y)
		ctx.LineTo(t[1].X, t[1].Y)
		ctx.LineTo(t[2].X, t[2].Y)
		ctx.ClosePath()
		ctx.SetFillStyle(gg.NewSolidPattern(c))
		// Collinear triangles have no area and only show through the stroke.
		ctx.SetStrokeStyle(gg.NewSolidPattern(c))
		ctx.SetLineWidth(1)
		ctx.FillPreserve()
		ctx.Stroke()
	}

	out := ctx.Image()
	if s.Noise > 0 {
		return Noise(s.Noise, out)
	}
	return out
}
