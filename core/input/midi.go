package input

import (
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

type midiEdge struct {
	action Action
	phase  Phase
}

// MIDI turns notes from a MIDI controller into action events. The driver
// delivers messages on its own goroutine, so pending edges are locked.
type MIDI struct {
	mu      sync.Mutex
	notes   map[uint8]Action
	pending []midiEdge
	stop    func()
	logger  *game_log.Logger
}

func NewMIDI(notes map[uint8]Action, logger *game_log.Logger) *MIDI {
	if notes == nil {
		notes = DefaultNoteMap
	}
	return &MIDI{notes: notes, logger: logger.Named("MIDI")}
}

// Listen opens in and starts receiving messages until Close.
func (m *MIDI) Listen(in drivers.In) error {
	if err := in.Open(); err != nil {
		return fault.Wrap(err, fmsg.With("open midi input "+in.String()))
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		m.Handle(msg)
	}, midi.HandleError(func(err error) {
		m.logger.Warnf("listener error on %s: %v", in.String(), err)
	}))
	if err != nil {
		_ = in.Close()
		return fault.Wrap(err, fmsg.With("listen on midi input "+in.String()))
	}
	m.stop = stop
	m.logger.Infof("listening on %s", in.String())
	return nil
}

// Handle maps one message. Unbound notes and non-note messages are dropped.
func (m *MIDI) Handle(msg midi.Message) {
	var ch, key, vel uint8
	phase := Pressed
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
	case msg.GetNoteEnd(&ch, &key):
		phase = Released
	default:
		return
	}
	a, ok := m.notes[key]
	if !ok {
		m.logger.Debugf("unbound note %d", key)
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, midiEdge{a, phase})
	m.mu.Unlock()
}

// Poll stamps buffered edges with currentTime since the driver clock is not
// the engine clock.
func (m *MIDI) Poll(currentTime float64) []Event {
	m.mu.Lock()
	edges := m.pending
	m.pending = nil
	m.mu.Unlock()
	if len(edges) == 0 {
		return nil
	}
	out := make([]Event, len(edges))
	for i, e := range edges {
		out[i] = Event{Source: m, Time: currentTime, Action: e.action, Phase: e.phase}
	}
	return out
}

func (m *MIDI) Close() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}
