package audio

import (
	"math"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/hajimehoshi/ebiten/v2/audio"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

// Pattern picks the instrument for each beat of a measure.
var Pattern = [4]string{"kick", "hihat", "snare", "hihat"}

// Metronome clicks along with the conductor. Voices are mixed into a single
// streaming player so clicks never allocate a player each.
type Metronome struct {
	mu      sync.Mutex
	mix     *mixer
	player  *audio.Player
	rate    int
	bpm     int
	gain    float64
	enabled bool
	logger  *game_log.Logger
}

// NewMetronome starts a silent stream on ctx. A nil ctx gives a metronome
// that only mixes, which is what tests use.
func NewMetronome(ctx *audio.Context, logger *game_log.Logger) (*Metronome, error) {
	m := &Metronome{
		mix:    &mixer{},
		rate:   SampleRate,
		bpm:    120,
		gain:   0.6,
		logger: logger.Named("METRONOME"),
	}
	if ctx == nil {
		return m, nil
	}
	m.rate = ctx.SampleRate()
	p, err := ctx.NewPlayer(m.mix)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("metronome player"))
	}
	p.SetBufferSize(10 * time.Millisecond)
	p.Play()
	m.player = p
	return m, nil
}

func (m *Metronome) SetEnabled(on bool) {
	m.mu.Lock()
	m.enabled = on
	m.mu.Unlock()
	m.logger.Infof("enabled=%v", on)
}

func (m *Metronome) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetBPM sets the tempo voice lengths are derived from.
func (m *Metronome) SetBPM(bpm float64) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return
	}
	m.mu.Lock()
	m.bpm = int(math.Round(bpm))
	m.mu.Unlock()
}

// SetGain sets the click volume in [0,1].
func (m *Metronome) SetGain(g float64) {
	m.mu.Lock()
	m.gain = math.Max(0, math.Min(1, g))
	m.mu.Unlock()
}

// OnBeat schedules the click for beat.
func (m *Metronome) OnBeat(beat int) {
	m.mu.Lock()
	on, bpm, gain := m.enabled, m.bpm, m.gain
	m.mu.Unlock()
	if !on {
		return
	}
	id := VoiceFor(beat)
	inst, ok := lookup(id)
	if !ok {
		m.logger.Warnf("no instrument %q", id)
		return
	}
	m.mix.Schedule(&scaledVoice{v: inst.NewVoice(bpm, m.rate), gain: gain}, 0)
	m.logger.Debugf("beat %d -> %s", beat, id)
}

// VoiceFor returns the instrument ID Pattern assigns to beat.
func VoiceFor(beat int) string {
	return Pattern[((beat%4)+4)%4]
}

func (m *Metronome) Close() error {
	if m.player == nil {
		return nil
	}
	err := m.player.Close()
	m.player = nil
	return err
}
