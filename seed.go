package qimage

import (
	"image"
	"image/color"
)

// prng is a Park-Miller minimal standard generator. It keeps the grain
// pattern identical between runs.
type prng struct {
	a         int
	m         int
	randomNum int
	div       float64
}

func newPrng() *prng {
	return &prng{
		a:         16807,
		m:         0x7fffffff,
		randomNum: 1,
		div:       1.0 / 0x7fffffff,
	}
}

// Noise applies a grain filter of the given amount over the image.
func Noise(amount int, src image.Image) *image.NRGBA {
	img := ToNRGBA(src)
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	rnd := newPrng()

	for x := 0; x < b.Dx(); x++ {
		for y := 0; y < b.Dy(); y++ {
			noise := (rnd.randomSeed() - 0.1) * float64(amount)
			c := img.NRGBAAt(x, y)
			rf, gf, bf := float64(c.R)+noise, float64(c.G)+noise, float64(c.B)+noise
			// Leave the pixel alone if the grain would overflow any channel.
			if Max(rf, gf, bf) >= 255 || Min(rf, gf, bf) < 0 {
				rf, gf, bf = float64(c.R), float64(c.G), float64(c.B)
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: uint8(rf), G: uint8(gf), B: uint8(bf), A: c.A})
		}
	}
	return dst
}

func (p *prng) nextLongRand(seed int) int {
	lo := p.a * (seed & 0xffff)
	hi := p.a * (seed >> 16)
	lo += (hi & 0x7fff) << 16

	if lo > p.m {
		lo &= p.m
		lo++
	}
	lo += hi >> 15
	if lo > p.m {
		lo &= p.m
		lo++
	}
	return lo
}

func (p *prng) randomSeed() float64 {
	p.randomNum = p.nextLongRand(p.randomNum)
	return float64(p.randomNum) * p.div
}
