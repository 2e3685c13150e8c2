package audio

import (
	"sort"
	"sync"
)

// SampleRate is the rate of the shared ebiten audio context.
const SampleRate = 44100

// bytesPerFrame is one 16-bit little endian stereo frame.
const bytesPerFrame = 4

var (
	instruments = map[string]Instrument{}
	instMu      sync.RWMutex
)

// Voice generates PCM samples in the range [-1,1].
type Voice interface {
	// Sample returns the next sample and whether the voice has finished.
	Sample() (float64, bool)
}

// Instrument constructs a new Voice instance when triggered.
type Instrument interface {
	NewVoice(bpm, sampleRate int) Voice
}

// Register makes an instrument available by ID, replacing any previous one.
func Register(id string, inst Instrument) {
	instMu.Lock()
	instruments[id] = inst
	instMu.Unlock()
}

func init() {
	ResetInstruments()
}

// ResetInstruments restores the built-in click voices.
func ResetInstruments() {
	instMu.Lock()
	instruments = map[string]Instrument{
		"kick":  Kick{},
		"snare": Snare{},
		"hihat": HiHat{},
	}
	instMu.Unlock()
}

// Instruments returns the registered IDs in name order.
func Instruments() []string {
	instMu.RLock()
	ids := make([]string, 0, len(instruments))
	for id := range instruments {
		ids = append(ids, id)
	}
	instMu.RUnlock()
	sort.Strings(ids)
	return ids
}

func lookup(id string) (Instrument, bool) {
	instMu.RLock()
	inst, ok := instruments[id]
	instMu.RUnlock()
	return inst, ok
}

type scaledVoice struct {
	v    Voice
	gain float64
}

func (s *scaledVoice) Sample() (float64, bool) {
	f, done := s.v.Sample()
	return f * s.gain, done
}

// bufVoice plays a pre-rendered buffer once.
type bufVoice struct {
	buf []float32
	i   int
}

func (v *bufVoice) Sample() (float64, bool) {
	if v.i >= len(v.buf) {
		return 0, true
	}
	f := float64(v.buf[v.i])
	v.i++
	return f, false
}

// mixer sums scheduled voices into an endless 16-bit stereo stream that an
// ebiten audio player reads from.
type mixer struct {
	mu     sync.Mutex
	voices []*voiceState
	pos    int
}

type voiceState struct {
	start int
	v     Voice
}

// Schedule adds a voice to start after delaySamples frames.
func (m *mixer) Schedule(v Voice, delaySamples int) {
	m.mu.Lock()
	m.voices = append(m.voices, &voiceState{start: m.pos + delaySamples, v: v})
	m.mu.Unlock()
}

// Active returns the number of voices not yet finished.
func (m *mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read implements io.Reader. Partial frames are left unread.
func (m *mixer) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < frames; i++ {
		var sum float64
		for idx := 0; idx < len(m.voices); idx++ {
			vs := m.voices[idx]
			if m.pos < vs.start {
				continue
			}
			val, done := vs.v.Sample()
			sum += val
			if done {
				m.voices = append(m.voices[:idx], m.voices[idx+1:]...)
				idx--
			}
		}
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		v := int16(sum * 32767)
		o := i * bytesPerFrame
		p[o] = byte(v)
		p[o+1] = byte(v >> 8)
		p[o+2] = byte(v)
		p[o+3] = byte(v >> 8)
		m.pos++
	}
	return frames * bytesPerFrame, nil
}
