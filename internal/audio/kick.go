package audio

import "math"

// Kick is a sine-based bass drum used for downbeats.
type Kick struct{}

// NewVoice returns a decaying sine with a downward pitch bend lasting an
// eighth note.
func (Kick) NewVoice(bpm, sampleRate int) Voice {
	samples := int(float64(sampleRate) * beatSeconds(bpm) * 0.5)
	return &kickVoice{n: samples, sr: float64(sampleRate)}
}

type kickVoice struct {
	i, n  int
	sr    float64
	phase float64
}

func (k *kickVoice) Sample() (float64, bool) {
	if k.i >= k.n {
		return 0, true
	}
	t := float64(k.i) / float64(k.n)
	freq := 150 - 100*t
	k.phase += 2 * math.Pi * freq / k.sr
	env := math.Exp(-5 * t)
	v := math.Sin(k.phase) * env
	k.i++
	return v, false
}

func beatSeconds(bpm int) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	return 60 / float64(bpm)
}
