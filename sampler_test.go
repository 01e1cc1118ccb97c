package qimage

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func inBounds(p Point, w, h int) bool {
	return p.X >= 0 && p.X < float64(w) && p.Y >= 0 && p.Y < float64(h)
}

// fixedWeights returns a weight function ignoring the image.
func fixedWeights(w, h int, values map[int]float64) WeightFunc {
	return func(*image.NRGBA) *Mask {
		m := NewMask(Shape{Height: h, Width: w})
		for i, v := range values {
			m.Values[i] = v
		}
		return m
	}
}

func TestUniformSampler(t *testing.T) {
	img := gradientImage(37, 21)
	s := &UniformSampler{Rand: rand.New(rand.NewSource(1))}
	for _, n := range []int{1, 3, 10, 500, 5000} {
		points, err := s.Sample(img, n)
		if err != nil {
			t.Fatalf("Sample(%d): %v", n, err)
		}
		if len(points) != n {
			t.Fatalf("Expected %d points, got %d", n, len(points))
		}
		for _, p := range points {
			if !inBounds(p, 37, 21) {
				t.Fatalf("Point %+v out of bounds", p)
			}
		}
	}
}

func TestUniformSamplerOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 15, 24))
	points, err := (&UniformSampler{}).Sample(img, 50)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range points {
		if !inBounds(p, 5, 4) {
			t.Fatalf("Point %+v outside the origin based bounds", p)
		}
	}
}

func TestSamplersRejectInvalidInput(t *testing.T) {
	img := gradientImage(4, 4)
	samplers := map[string]Sampler{
		"uniform":  &UniformSampler{},
		"weighted": &WeightedSampler{},
		"entropy":  &EntropySampler{},
		"edge":     &EdgeSampler{Sampler: &UniformSampler{}},
	}
	for name, s := range samplers {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{0, -3} {
				if _, err := s.Sample(img, n); !errors.Is(err, ErrInvalidCount) {
					t.Errorf("Sample(%d) error = %v, want ErrInvalidCount", n, err)
				}
			}
			empty := image.NewNRGBA(image.Rect(0, 0, 0, 5))
			if _, err := s.Sample(empty, 3); !errors.Is(err, ErrEmptyImage) {
				t.Errorf("Sample(empty) error = %v, want ErrEmptyImage", err)
			}
		})
	}
}

func TestWithoutReplacementLimit(t *testing.T) {
	img := gradientImage(4, 3)
	for name, s := range map[string]Sampler{
		"weighted": &WeightedSampler{Rand: rand.New(rand.NewSource(3))},
		"entropy":  &EntropySampler{},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Sample(img, 13); !errors.Is(err, ErrTooManyPoints) {
				t.Errorf("Expected ErrTooManyPoints, got %v", err)
			}

			points, err := s.Sample(img, 12)
			if err != nil {
				t.Fatal(err)
			}
			seen := make(map[Point]bool)
			for _, p := range points {
				if !inBounds(p, 4, 3) {
					t.Fatalf("Point %+v out of bounds", p)
				}
				if seen[p] {
					t.Fatalf("Point %+v sampled twice", p)
				}
				seen[p] = true
			}
			if len(seen) != 12 {
				t.Errorf("Expected every pixel once, got %d", len(seen))
			}
		})
	}
}

func TestWeightedSamplerFollowsWeights(t *testing.T) {
	img := gradientImage(3, 3)
	s := &WeightedSampler{
		Weights: fixedWeights(3, 3, map[int]float64{4: 1, 8: 5}),
		Rand:    rand.New(rand.NewSource(7)),
	}
	points, err := s.Sample(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := map[Point]bool{points[0]: true, points[1]: true}
	if !got[Point{1, 1}] || !got[Point{2, 2}] {
		t.Errorf("Expected the positive weight pixels first, got %v", points[:2])
	}
	// Zero weight pixels come last, by row-major index.
	if points[2] != (Point{0, 0}) {
		t.Errorf("Expected the first zero weight pixel, got %+v", points[2])
	}
}

func TestWeightedSamplerBias(t *testing.T) {
	img := gradientImage(10, 10)
	// Right half weighs a hundred times the left half.
	values := make(map[int]float64)
	for i := 0; i < 100; i++ {
		if i%10 >= 5 {
			values[i] = 100
		} else {
			values[i] = 1
		}
	}
	s := &WeightedSampler{Weights: fixedWeights(10, 10, values), Rand: rand.New(rand.NewSource(11))}
	points, err := s.Sample(img, 20)
	if err != nil {
		t.Fatal(err)
	}
	right := 0
	for _, p := range points {
		if p.X >= 5 {
			right++
		}
	}
	if right < 15 {
		t.Errorf("Expected most points on the heavy half, got %d of 20", right)
	}
}

func TestEntropySampler(t *testing.T) {
	img := gradientImage(20, 10)
	peak := 3*20 + 7
	values := make(map[int]float64)
	for i := 0; i < 200; i++ {
		values[i] = 1
	}
	values[peak] = 10
	s := &EntropySampler{Weights: fixedWeights(20, 10, values)}

	points, err := s.Sample(img, 5)
	if err != nil {
		t.Fatal(err)
	}
	if points[0] != (Point{7, 3}) {
		t.Errorf("Expected the first point on the maximum, got %+v", points[0])
	}
	again, err := s.Sample(img, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range points {
		if points[i] != again[i] {
			t.Fatalf("Expected deterministic output, got %v and %v", points, again)
		}
	}
	// The damping pushes the next point away from the first one.
	dx, dy := points[1].X-points[0].X, points[1].Y-points[0].Y
	if dx*dx+dy*dy < 25 {
		t.Errorf("Expected the second point away from the first, got %+v", points[1])
	}
}

// greedyReference picks points the straightforward way, damping the whole
// grid with GaussianMask after every pick.
func greedyReference(weights *Mask, n int, opts *MaskOptions) []Point {
	var points []Point
	for len(points) < n {
		best := -1
		for i, w := range weights.Values {
			if !math.IsInf(w, -1) && (best < 0 || w > weights.Values[best]) {
				best = i
			}
		}
		x, y := best%weights.Width, best/weights.Width
		points = append(points, Point{X: float64(x), Y: float64(y)})
		mask := GaussianMask(float64(x), float64(y), weights.Shape(), opts)
		for i, g := range mask.Values {
			if !math.IsInf(weights.Values[i], -1) {
				weights.Values[i] *= Max(1-g, 0)
			}
		}
		weights.Values[best] = math.Inf(-1)
	}
	return points
}

func TestEntropySamplerMatchesFullMask(t *testing.T) {
	const w, h = 400, 30
	r := rand.New(rand.NewSource(5))
	values := make([]float64, w*h)
	for i := range values {
		values[i] = float64(r.Intn(8))
	}
	weights := func(*image.NRGBA) *Mask {
		m := NewMask(Shape{Height: h, Width: w})
		copy(m.Values, values)
		return m
	}
	img := gradientImage(w, h)

	amp, small := 0.8, 4.0
	for name, opts := range map[string]*MaskOptions{
		"defaults":    {},
		"small sigma": {Amp: &amp, Sigma: &small},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := (&EntropySampler{Weights: weights, Amp: opts.Amp, Sigma: opts.Sigma}).Sample(img, 80)
			if err != nil {
				t.Fatal(err)
			}
			want := greedyReference(weights(img), 80, opts)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("Point %d: expected %+v, got %+v", i, want[i], got[i])
				}
			}
		})
	}
}

func TestEntropySamplerDefaultWeights(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	// A textured square in an otherwise flat image.
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	points, err := (&EntropySampler{}).Sample(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	p := points[0]
	if p.X < 7 || p.X > 22 || p.Y < 7 || p.Y > 22 {
		t.Errorf("Expected the first point near the textured square, got %+v", p)
	}
}

func TestEdgeSampler(t *testing.T) {
	img := gradientImage(40, 30)
	s := &EdgeSampler{Sampler: &UniformSampler{Rand: rand.New(rand.NewSource(5))}}
	points, err := s.Sample(img, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 10 {
		t.Fatalf("Expected 10 points, got %d", len(points))
	}
	want := []Point{{0, 0}, {39, 0}, {39, 29}, {0, 29}}
	for i, c := range want {
		if points[6+i] != c {
			t.Errorf("Expected corner %+v at %d, got %+v", c, 6+i, points[6+i])
		}
	}
	for _, p := range points {
		if !inBounds(p, 40, 30) {
			t.Fatalf("Point %+v out of bounds", p)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"uniform":   StrategyUniform,
		"Weighted":  StrategyWeighted,
		" entropy ": StrategyEntropy,
	} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("random"); err == nil {
		t.Error("Expected an error for an unknown strategy")
	}
}
