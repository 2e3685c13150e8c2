// Package tempo estimates the tempo of a song from its samples.
package tempo

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	algofft "github.com/cwbudde/algo-fft"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var (
	ErrTooShort = errors.New("audio too short for tempo estimation")
	ErrSilent   = errors.New("audio is silent")
	ErrBadRate  = errors.New("invalid sample rate")
)

// Estimator finds the dominant beat period of an onset envelope. The
// defaults favour tempos near PriorBPM when a song is ambiguous between
// octaves.
type Estimator struct {
	TargetRate int
	FrameSize  int
	Hop        int
	MinBPM     float64
	MaxBPM     float64
	PriorBPM   float64
	// PriorWidth is the standard deviation of the tempo prior in octaves.
	PriorWidth float64
	// TrimDB is how far below the peak leading and trailing audio counts as
	// silence.
	TrimDB float64

	logger *game_log.Logger
}

func New(logger *game_log.Logger) *Estimator {
	return &Estimator{
		TargetRate: 11025,
		FrameSize:  1024,
		Hop:        256,
		MinBPM:     60,
		MaxBPM:     200,
		PriorBPM:   120,
		PriorWidth: 1,
		TrimDB:     20,
		logger:     logger.Named("TEMPO"),
	}
}

// Estimate returns the tempo of samples recorded at rate.
func (e *Estimator) Estimate(samples []float64, rate int) (float64, error) {
	if rate <= 0 {
		return 0, fault.Wrap(ErrBadRate, fmsg.With("estimate"), ftag.With(ftag.InvalidArgument))
	}
	x := samples
	if rate != e.TargetRate {
		r, err := dspresample.NewForRates(float64(rate), float64(e.TargetRate), dspresample.WithQuality(dspresample.QualityBest))
		if err != nil {
			return 0, fault.Wrap(err, fmsg.With("tempo resampler"), ftag.With(ftag.InvalidArgument))
		}
		x = r.Process(samples)
	}
	x, err := trimSilence(x, e.TrimDB)
	if err != nil {
		return 0, err
	}

	env, err := e.onsetEnvelope(x)
	if err != nil {
		return 0, err
	}
	frameRate := float64(e.TargetRate) / float64(e.Hop)
	lagMin := int(math.Floor(60 * frameRate / e.MaxBPM))
	lagMax := int(math.Ceil(60 * frameRate / e.MinBPM))
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMax >= len(env)-1 {
		return 0, fault.Wrap(ErrTooShort, fmsg.With("onset envelope shorter than slowest beat"), ftag.With(ftag.InvalidArgument))
	}

	scores := make([]float64, lagMax+2)
	best := -1
	for lag := lagMin; lag <= lagMax; lag++ {
		scores[lag] = autocorr(env, lag) * e.prior(60*frameRate/float64(lag))
		if best < 0 || scores[lag] > scores[best] {
			best = lag
		}
	}
	if scores[best] <= 0 {
		return 0, fault.Wrap(ErrSilent, fmsg.With("no periodic onsets"), ftag.With(ftag.InvalidArgument))
	}

	lag := float64(best)
	if best > lagMin && best < lagMax {
		lag += parabolicOffset(scores[best-1], scores[best], scores[best+1])
	}
	bpm := 60 * frameRate / lag
	e.logger.Debugf("lag %.3f frames -> %.2f bpm", lag, bpm)
	return bpm, nil
}

// prior is a log-normal weight centred on PriorBPM.
func (e *Estimator) prior(bpm float64) float64 {
	if e.PriorBPM <= 0 || e.PriorWidth <= 0 {
		return 1
	}
	d := math.Log2(bpm/e.PriorBPM) / e.PriorWidth
	return math.Exp(-0.5 * d * d)
}

// onsetEnvelope is the mean-removed positive log-spectral flux per hop.
func (e *Estimator) onsetEnvelope(x []float64) ([]float64, error) {
	n := e.FrameSize
	if len(x) < n {
		return nil, fault.Wrap(ErrTooShort, fmsg.With("shorter than one analysis frame"), ftag.With(ftag.InvalidArgument))
	}
	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("fft plan"))
	}
	hann := make([]float64, n)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}

	frames := 1 + (len(x)-n)/e.Hop
	bins := n/2 + 1
	spec := make([]complex128, bins)
	buf := make([]float64, n)
	prev := make([]float64, bins)
	cur := make([]float64, bins)
	env := make([]float64, frames)

	for f := 0; f < frames; f++ {
		pos := f * e.Hop
		for i := 0; i < n; i++ {
			buf[i] = x[pos+i] * hann[i]
		}
		plan.Forward(spec, buf)
		var flux float64
		for k := 0; k < bins; k++ {
			cur[k] = math.Log1p(100 * cmplx.Abs(spec[k]))
			if f > 0 {
				if d := cur[k] - prev[k]; d > 0 {
					flux += d
				}
			}
		}
		env[f] = flux
		prev, cur = cur, prev
	}

	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))
	for i := range env {
		env[i] -= mean
	}
	return env, nil
}

func autocorr(x []float64, lag int) float64 {
	var sum float64
	for i := 0; i+lag < len(x); i++ {
		sum += x[i] * x[i+lag]
	}
	return sum / float64(len(x)-lag)
}

// parabolicOffset is the vertex of the parabola through three equally
// spaced points, relative to the middle one.
func parabolicOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	off := 0.5 * (a - c) / den
	return math.Max(-0.5, math.Min(0.5, off))
}

// trimSilence drops leading and trailing audio quieter than db below the peak.
func trimSilence(x []float64, db float64) ([]float64, error) {
	var peak float64
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return nil, fault.Wrap(ErrSilent, fmsg.With("no signal"), ftag.With(ftag.InvalidArgument))
	}
	th := peak * math.Pow(10, -db/20)
	start, end := 0, len(x)
	for start < end && math.Abs(x[start]) < th {
		start++
	}
	for end > start && math.Abs(x[end-1]) < th {
		end--
	}
	return x[start:end], nil
}
