package qimage

import (
	"image"
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	defaultEntropyRadius  = 3
	defaultSobelThreshold = 10
	defaultBlurRadius     = 2
)

// Processor : type with triangulation options
type Processor struct {
	// Strategy selects the point sampler, uniform when empty.
	Strategy Strategy
	// Points is the number of sampled points.
	Points int
	// Corners adds the four image corners to the sampled points.
	Corners bool

	BlurRadius     *int
	SobelThreshold *float64
	EntropyRadius  *int
	// Sigma is the spread of the mask used by the entropy sampler.
	Sigma *float64
	// Seed makes the random samplers reproducible, the clock is used when nil.
	Seed *int64
}

// Sampler builds the sampler described by the processor options.
func (p *Processor) Sampler() (Sampler, error) {
	var r *rand.Rand
	if p.Seed != nil {
		r = rand.New(rand.NewSource(*p.Seed))
	}

	var s Sampler
	switch p.Strategy {
	case "", StrategyUniform:
		s = &UniformSampler{Rand: r}
	case StrategyWeighted:
		s = &WeightedSampler{
			Weights: SobelWeights(Default(p.BlurRadius, defaultBlurRadius), Default(p.SobelThreshold, defaultSobelThreshold)),
			Rand:    r,
		}
	case StrategyEntropy:
		s = &EntropySampler{
			Weights: EntropyWeights(Default(p.EntropyRadius, defaultEntropyRadius)),
			Sigma:   p.Sigma,
		}
	default:
		return nil, errors.Errorf("unknown sampling strategy %q", p.Strategy)
	}
	if p.Corners {
		s = &EdgeSampler{Sampler: s}
	}
	return s, nil
}

// Process samples the source image and triangulates the sampled points.
func (p *Processor) Process(src image.Image) (*Triangulation, error) {
	s, err := p.Sampler()
	if err != nil {
		return nil, err
	}
	points, err := s.Sample(src, p.Points)
	if err != nil {
		return nil, errors.Wrap(err, "sampling points")
	}
	glog.V(1).Infof("sampled %d points with the %s strategy", len(points), Default(nonEmpty(p.Strategy), StrategyUniform))

	tri, err := Triangulate(points)
	if err != nil {
		return nil, errors.Wrap(err, "triangulating points")
	}
	glog.V(1).Infof("triangulation has %d triangles", len(tri.Simplices))
	return tri, nil
}

func nonEmpty(s Strategy) *Strategy {
	if s == "" {
		return nil
	}
	return &s
}
