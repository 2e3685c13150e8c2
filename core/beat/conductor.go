package beat

import (
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
	"github.com/ingyamilmolinar/astral/internal/utils"
)

// Sound is a loaded audio asset. Its path identifies it in the BPM cache.
type Sound interface {
	Path() string
}

// Player is a running playback of a Sound. Position is read once per frame
// and is the conductor's only clock while a player exists.
type Player interface {
	Play()
	Pause()
	Position() time.Duration
}

// Playback starts sounds.
type Playback interface {
	Play(s Sound, loop bool) (Player, error)
}

// Decoder returns the mono samples of the asset at path and their sample rate.
type Decoder interface {
	Samples(path string) ([]float64, int, error)
}

// Estimator guesses a tempo from raw samples.
type Estimator interface {
	Estimate(samples []float64, sampleRate int) (float64, error)
}

type loadOptions struct {
	bpm    float64
	hasBPM bool
	loop   bool
}

// LoadOption customises LoadAudio and PlayAudio.
type LoadOption func(*loadOptions)

// WithBPM skips estimation and pins the asset's tempo to bpm.
func WithBPM(bpm float64) LoadOption {
	return func(o *loadOptions) { o.bpm, o.hasBPM = bpm, true }
}

// Looping makes PlayAudio loop the sound.
func Looping() LoadOption {
	return func(o *loadOptions) { o.loop = true }
}

// Conductor turns a playback position into beat and step edges.
type Conductor struct {
	playback  Playback
	decoder   Decoder
	estimator Estimator
	cache     *Cache
	logger    *game_log.Logger

	sound    Sound
	player   Player
	data     BPMData
	loaded   bool
	position float64 // ms
	beat     int
	step     int
}

func NewConductor(playback Playback, decoder Decoder, estimator Estimator, cache *Cache, logger *game_log.Logger) *Conductor {
	if cache == nil {
		cache = NewCache()
	}
	c := &Conductor{
		playback:  playback,
		decoder:   decoder,
		estimator: estimator,
		cache:     cache,
		logger:    logger.Named("CONDUCTOR"),
	}
	c.Reset()
	return c
}

// Reset stops playback and forgets the current song.
func (c *Conductor) Reset() {
	c.Stop()
	c.sound = nil
	c.data = BPMData{}
	c.loaded = false
	c.position = 0
	c.beat = -1
	c.step = -1
}

// Stop pauses and drops the current player. Timing data stays loaded.
func (c *Conductor) Stop() {
	if c.player != nil {
		c.player.Pause()
		c.player = nil
	}
}

// LoadAudio prepares the conductor for s. The first Update afterwards reports
// beat 0 and step 0 as hits.
func (c *Conductor) LoadAudio(s Sound, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	c.Stop()
	c.position = 0
	c.beat = -1
	c.step = -1

	data, err := c.resolve(s.Path(), o)
	if err != nil {
		c.loaded = false
		return err
	}
	c.sound = s
	c.data = data
	c.loaded = true
	c.logger.Infof("loaded %s: bpm=%.2f beat=%.2fms step=%.2fms", s.Path(), data.BPM, data.BeatMs, data.StepMs)
	return nil
}

func (c *Conductor) resolve(path string, o loadOptions) (BPMData, error) {
	if o.hasBPM {
		if cached, ok := c.cache.Get(path); ok && cached.BPM == o.bpm {
			return cached, nil
		}
		data, err := ComputeMeasureTimes(o.bpm)
		if err != nil {
			return BPMData{}, fault.Wrap(err, fmsg.With("bpm override for "+path))
		}
		c.cache.Set(path, data)
		return data, nil
	}
	if cached, ok := c.cache.Get(path); ok {
		return cached, nil
	}
	if c.decoder == nil || c.estimator == nil {
		return BPMData{}, fault.Wrap(ErrInvalidTempo, fmsg.With("no tempo estimator for "+path))
	}
	samples, rate, err := c.decoder.Samples(path)
	if err != nil {
		return BPMData{}, fault.Wrap(err, fmsg.With("decode "+path))
	}
	bpm, err := c.estimator.Estimate(samples, rate)
	if err != nil {
		return BPMData{}, fault.Wrap(err, fmsg.With("estimate tempo of "+path))
	}
	data, err := ComputeMeasureTimes(bpm)
	if err != nil {
		return BPMData{}, fault.Wrap(err, fmsg.With("estimated tempo of "+path))
	}
	c.logger.Debugf("estimated %s at %.2f bpm", path, bpm)
	c.cache.Set(path, data)
	return data, nil
}

// PlayAudio loads s and starts it through the playback service.
func (c *Conductor) PlayAudio(s Sound, opts ...LoadOption) error {
	if err := c.LoadAudio(s, opts...); err != nil {
		return err
	}
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	p, err := c.playback.Play(s, o.loop)
	if err != nil {
		return fault.Wrap(err, fmsg.With("play "+s.Path()))
	}
	c.player = p
	return nil
}

// Update samples the song position and reports whether a new beat or step
// started since the previous call. Skipped boundaries are not replayed.
func (c *Conductor) Update(dt float64) (beatHit, stepHit bool) {
	if !c.loaded {
		return false, false
	}
	if c.player != nil {
		c.position = float64(c.player.Position()) / float64(time.Millisecond)
	} else {
		c.position += dt * 1000
	}

	newBeat := utils.FloorDiv(c.position, c.data.BeatMs)
	newStep := utils.FloorDiv(c.position, c.data.StepMs)

	beatHit = newBeat != c.beat
	stepHit = newStep != c.step

	c.beat = newBeat
	c.step = newStep
	return beatHit, stepHit
}

// Position returns the song position in milliseconds.
func (c *Conductor) Position() float64 { return c.position }

func (c *Conductor) CurrentBeat() int { return c.beat }

func (c *Conductor) CurrentStep() int { return c.step }

// CurrentMeasure returns the measure index, or -1 before the first update.
func (c *Conductor) CurrentMeasure() int {
	if c.beat < 0 {
		return -1
	}
	return c.beat / BeatsPerMeasure
}

// Data returns the active timing constants.
func (c *Conductor) Data() BPMData { return c.data }

// Loaded reports whether a song's timing is ready.
func (c *Conductor) Loaded() bool { return c.loaded }

// Playing reports whether a live player drives the clock.
func (c *Conductor) Playing() bool { return c.player != nil }

// Sound returns the current song, if any.
func (c *Conductor) Sound() Sound { return c.sound }
