package input

import (
	"fmt"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Replay releases a prerecorded event list as the clock reaches each event.
type Replay struct {
	events []Event
	next   int
}

// NewReplay copies events and orders them by time.
func NewReplay(events []Event) *Replay {
	r := &Replay{events: append([]Event(nil), events...)}
	sort.SliceStable(r.events, func(i, j int) bool { return r.events[i].Time < r.events[j].Time })
	for i := range r.events {
		r.events[i].Source = r
	}
	return r
}

func (r *Replay) Poll(currentTime float64) []Event {
	start := r.next
	for r.next < len(r.events) && r.events[r.next].Time <= currentTime {
		r.next++
	}
	if start == r.next {
		return nil
	}
	return append([]Event(nil), r.events[start:r.next]...)
}

// Done reports whether every event has been delivered.
func (r *Replay) Done() bool { return r.next >= len(r.events) }

// DefaultNoteMap binds the four lane notes of a C4 chord shape plus two
// navigation notes.
var DefaultNoteMap = map[uint8]Action{
	60: Left,
	62: Down,
	64: Up,
	65: Right,
	67: Accept,
	48: Return,
}

// LoadReplaySMF builds a replay from the note-on/note-off events of a
// Standard MIDI File. Notes outside notes are ignored.
func LoadReplaySMF(path string, notes map[uint8]Action) (*Replay, error) {
	if notes == nil {
		notes = DefaultNoteMap
	}
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("read replay "+path, fmt.Sprintf("Could not read replay file %s", path)),
			ftag.With(ftag.NotFound),
		)
	}
	var events []Event
	for _, track := range s.Tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			var ch, key, vel uint8
			phase := Pressed
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
			case ev.Message.GetNoteEnd(&ch, &key):
				phase = Released
			default:
				continue
			}
			a, ok := notes[key]
			if !ok {
				continue
			}
			secs := float64(s.TimeAt(abs)) / 1e6
			events = append(events, Event{Time: secs, Action: a, Phase: phase})
		}
	}
	return NewReplay(events), nil
}
