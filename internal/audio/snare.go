package audio

import (
	"math"
	"math/rand"
)

// Snare mixes a low body tone with decaying white noise.
type Snare struct{}

func (Snare) NewVoice(bpm, sampleRate int) Voice {
	samples := int(float64(sampleRate) * beatSeconds(bpm) * 0.25)
	buf := make([]float32, samples)
	rng := rand.New(rand.NewSource(3))
	sr := float64(sampleRate)
	for i := range buf {
		t := float64(i) / float64(samples)
		body := math.Sin(2*math.Pi*180*float64(i)/sr) * math.Exp(-10*t)
		noise := (rng.Float64()*2 - 1) * math.Exp(-4*t)
		buf[i] = float32(0.4*body + 0.6*noise)
	}
	return &bufVoice{buf: buf}
}
