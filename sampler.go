package qimage

import (
	"image"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCount is returned when the requested number of points is not positive.
	ErrInvalidCount = errors.New("number of points must be positive")
	// ErrTooManyPoints is returned when sampling without replacement asks for
	// more points than the image has pixels.
	ErrTooManyPoints = errors.New("number of points exceeds the number of pixels")
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// Sampler selects n point coordinates inside the bounds of an image.
type Sampler interface {
	Sample(img image.Image, n int) ([]Point, error)
}

// Strategy names a sampling strategy.
type Strategy string

const (
	StrategyUniform  Strategy = "uniform"
	StrategyWeighted Strategy = "weighted"
	StrategyEntropy  Strategy = "entropy"
)

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyUniform, StrategyWeighted, StrategyEntropy:
		return s, nil
	}
	return "", errors.Errorf("unknown sampling strategy %q", name)
}

// checkInput validates the sampler input and returns the image as NRGBA.
func checkInput(img image.Image, n int) (*image.NRGBA, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "got %d", n)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return ToNRGBA(img), nil
}

func newRand(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// UniformSampler draws n pixel positions independently and uniformly.
// The same position may be drawn more than once.
type UniformSampler struct {
	// Rand is the random source, seeded from the clock when nil.
	Rand *rand.Rand
}

// Sample implements Sampler.
func (s *UniformSampler) Sample(img image.Image, n int) ([]Point, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "got %d", n)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	r := newRand(s.Rand)
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			X: float64(r.Intn(b.Dx())),
			Y: float64(r.Intn(b.Dy())),
		}
	}
	return points, nil
}

// WeightedSampler draws n distinct pixels with probability proportional to
// their weight, without replacement.
//
// Zero weight pixels are only picked once every positive weight pixel has been
// used. Pixels whose keys compare equal are ordered by row-major index.
type WeightedSampler struct {
	Weights WeightFunc
	Rand    *rand.Rand
}

// Sample implements Sampler.
func (s *WeightedSampler) Sample(img image.Image, n int) ([]Point, error) {
	src, err := checkInput(img, n)
	if err != nil {
		return nil, err
	}
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if n > width*height {
		return nil, errors.Wrapf(ErrTooManyPoints, "%d > %dx%d", n, width, height)
	}
	weightFn := s.Weights
	if weightFn == nil {
		weightFn = UniformWeights
	}
	weights := weightFn(src)
	r := newRand(s.Rand)

	// Efraimidis-Spirakis: keep the n largest log(u)/w keys.
	keys := make([]float64, len(weights.Values))
	for i, w := range weights.Values {
		if w > 0 {
			keys[i] = math.Log(1-r.Float64()) / w
		} else {
			keys[i] = math.Inf(-1)
		}
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] > keys[order[b]]
	})

	points := make([]Point, n)
	for i, idx := range order[:n] {
		points[i] = Point{X: float64(idx % width), Y: float64(idx / width)}
	}
	return points, nil
}

// EntropySampler places points greedily on the highest weight pixel, then
// damps the weights around it with a Gaussian mask so that the next point
// lands elsewhere. The result is deterministic for a given image.
//
// Equal weights resolve to the lowest row-major index.
type EntropySampler struct {
	Weights WeightFunc
	// Amp and Sigma parametrize the damping mask, see GaussianMask.
	Amp   *float64
	Sigma *float64
}

// Sample implements Sampler.
func (s *EntropySampler) Sample(img image.Image, n int) ([]Point, error) {
	src, err := checkInput(img, n)
	if err != nil {
		return nil, err
	}
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if n > width*height {
		return nil, errors.Wrapf(ErrTooManyPoints, "%d > %dx%d", n, width, height)
	}
	weightFn := s.Weights
	if weightFn == nil {
		weightFn = EntropyWeights(defaultEntropyRadius)
	}
	weights := weightFn(src)
	amp := Default(s.Amp, defaultMaskAmp)
	sigma := Default(s.Sigma, defaultMaskSigma)

	g := newGreedy(weights)
	points := make([]Point, 0, n)
	for len(points) < n {
		best := g.argmax()
		x, y := best%width, best/width
		points = append(points, Point{X: float64(x), Y: float64(y)})
		g.damp(x, y, amp, sigma)
	}
	return points, nil
}

// greedy tracks the first maximum of every row of a weight grid, so picking
// the next point only scans the rows touched by the last damping.
type greedy struct {
	weights *Mask
	rowBest []int
}

func newGreedy(weights *Mask) *greedy {
	g := &greedy{weights: weights, rowBest: make([]int, weights.Height)}
	for row := range g.rowBest {
		g.updateRow(row)
	}
	return g
}

// updateRow stores the index of the first largest weight of the row, or -1
// when every pixel of the row was taken.
func (g *greedy) updateRow(row int) {
	best := -1
	start := row * g.weights.Width
	for i, w := range g.weights.Values[start : start+g.weights.Width] {
		if math.IsInf(w, -1) {
			continue
		}
		if best < 0 || w > g.weights.Values[best] {
			best = start + i
		}
	}
	g.rowBest[row] = best
}

// argmax returns the row-major index of the first largest weight.
func (g *greedy) argmax() int {
	best := -1
	for _, i := range g.rowBest {
		if i >= 0 && (best < 0 || g.weights.Values[i] > g.weights.Values[best]) {
			best = i
		}
	}
	return best
}

// damp scales the weights by 1-GaussianMask(x, y) and takes the pixel at
// (x, y) out of the race. Pixels further than the reach of the mask are
// left untouched, since 1-g rounds to 1 there.
func (g *greedy) damp(x, y int, amp, sigma float64) {
	w, h := g.weights.Width, g.weights.Height
	x0, x1, y0, y1 := 0, w-1, 0, h-1
	if amp > 0 {
		// amp·exp(-d²/2σ²) < 2⁻⁶⁰ beyond r.
		r := 0
		if e := math.Log(amp) + 60*math.Ln2; e > 0 {
			r = int(math.Ceil(math.Abs(sigma) * math.Sqrt(2*e)))
		}
		x0, x1 = Max(x-r, 0), Min(x+r, w-1)
		y0, y1 = Max(y-r, 0), Min(y+r, h-1)
	}
	denom := 2 * sigma * sigma
	values := g.weights.Values
	for j := y0; j <= y1; j++ {
		dy := float64(j - y)
		for i := x0; i <= x1; i++ {
			idx := j*w + i
			if math.IsInf(values[idx], -1) {
				continue
			}
			dx := float64(i - x)
			values[idx] *= Max(1-amp*math.Exp(-(dx*dx+dy*dy)/denom), 0)
		}
	}
	values[y*w+x] = math.Inf(-1)
	for j := y0; j <= y1; j++ {
		g.updateRow(j)
	}
}

// EdgeSampler wraps another sampler and appends the four image corners so the
// triangulation covers the whole canvas.
type EdgeSampler struct {
	Sampler Sampler
}

// Sample implements Sampler. The result holds n+4 points, the corners last.
func (s *EdgeSampler) Sample(img image.Image, n int) ([]Point, error) {
	points, err := s.Sampler.Sample(img, n)
	if err != nil {
		return nil, err
	}
	return append(points, Corners(img.Bounds())...), nil
}

// Corners returns the corner pixels of a rectangle relative to its origin,
// clockwise from the top left.
func Corners(b image.Rectangle) []Point {
	w, h := float64(b.Dx()-1), float64(b.Dy()-1)
	return []Point{{0, 0}, {w, 0}, {w, h}, {0, h}}
}
