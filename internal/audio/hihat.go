package audio

import (
	"math"
	"math/rand"
)

// HiHat renders a short, bright noise burst.
// It aims to mimic a closed hi-hat.
type HiHat struct{}

// NewVoice renders a thirty-second note of high-passed noise.
func (HiHat) NewVoice(bpm, sampleRate int) Voice {
	samples := int(float64(sampleRate) * beatSeconds(bpm) * 0.125)
	buf := make([]float32, samples)
	rng := rand.New(rand.NewSource(7))
	var prev float64
	for i := range buf {
		n := rng.Float64()*2 - 1
		// first difference keeps the top of the spectrum
		hp := n - prev
		prev = n
		env := math.Exp(-12 * float64(i) / float64(samples))
		buf[i] = float32(0.5 * hp * env)
	}
	return &bufVoice{buf: buf}
}
