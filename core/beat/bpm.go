package beat

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// A measure is 4 beats, or 16 steps.
const (
	BeatsPerMeasure = 4
	StepsPerBeat    = 4
	StepsPerMeasure = BeatsPerMeasure * StepsPerBeat
)

// ErrInvalidTempo is returned for a tempo that cannot drive the clock.
var ErrInvalidTempo = errors.New("invalid tempo")

// BPMData holds the timing constants derived from a tempo. Durations are in
// milliseconds.
type BPMData struct {
	BPM       float64
	MeasureMs float64
	BeatMs    float64
	StepMs    float64
}

// ComputeMeasureTimes derives measure, beat and step durations from bpm.
func ComputeMeasureTimes(bpm float64) (BPMData, error) {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 {
		return BPMData{}, fault.Wrap(ErrInvalidTempo,
			fmsg.WithDesc(fmt.Sprintf("bpm %v", bpm), "The song's tempo must be a positive number."),
			ftag.With(ftag.InvalidArgument),
		)
	}
	beat := 60000.0 / bpm
	return BPMData{
		BPM:       bpm,
		MeasureMs: beat * BeatsPerMeasure,
		BeatMs:    beat,
		StepMs:    beat / StepsPerBeat,
	}, nil
}

// Cache maps an audio asset's path to its timing constants for the whole
// session. Entries are never invalidated implicitly.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]BPMData
}

func NewCache() *Cache {
	return &Cache{entries: map[string]BPMData{}}
}

func (c *Cache) Get(path string) (BPMData, bool) {
	c.mu.RLock()
	d, ok := c.entries[path]
	c.mu.RUnlock()
	return d, ok
}

func (c *Cache) Set(path string, d BPMData) {
	c.mu.Lock()
	c.entries[path] = d
	c.mu.Unlock()
}

// Forget drops the entry for path so the next load re-estimates it.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
