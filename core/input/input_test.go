package input

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers/testdrv"
	"gitlab.com/gomidi/midi/v2/smf"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var testLogger = game_log.New(io.Discard, game_log.LevelError)

type scriptedSource struct {
	name   string
	events []Event
	polls  []float64
}

func (s *scriptedSource) Poll(t float64) []Event {
	s.polls = append(s.polls, t)
	out := s.events
	s.events = nil
	return out
}

func TestPollDrainsExactlyOnce(t *testing.T) {
	agg := NewAggregator(testLogger)
	kb := NewKeyboard(nil)
	agg.AddSource(kb)

	kb.OnKeyPress(ebiten.KeyEnter, 0.1)
	agg.Update(0.2)
	first := agg.Poll()
	if len(first) != 1 || !first[0].Is(Accept, Pressed) {
		t.Fatalf("first poll=%v", first)
	}
	if again := agg.Poll(); len(again) != 0 {
		t.Fatalf("second poll returned %d events", len(again))
	}
	agg.Update(0.3)
	if again := agg.Poll(); len(again) != 0 {
		t.Fatalf("source redelivered %d events", len(again))
	}
}

func TestAggregatorKeepsRegistrationOrder(t *testing.T) {
	agg := NewAggregator(testLogger)
	a := &scriptedSource{name: "a", events: []Event{{Action: Left}}}
	b := &scriptedSource{name: "b", events: []Event{{Action: Right}, {Action: Up}}}
	agg.AddSource(a)
	agg.AddSource(b)
	agg.Update(1.5)
	got := agg.Poll()
	want := []Action{Left, Right, Up}
	if len(got) != len(want) {
		t.Fatalf("got %d events", len(got))
	}
	for i, e := range got {
		if e.Action != want[i] {
			t.Fatalf("event %d action=%s want %s", i, e.Action, want[i])
		}
	}
	if a.polls[0] != 1.5 || b.polls[0] != 1.5 {
		t.Fatalf("sources polled with %v %v", a.polls, b.polls)
	}
}

func TestAggregatorAccumulatesUntilPolled(t *testing.T) {
	agg := NewAggregator(testLogger)
	kb := NewKeyboard(nil)
	agg.AddSource(kb)
	kb.OnKeyPress(ebiten.KeyW, 0)
	agg.Update(0)
	kb.OnKeyRelease(ebiten.KeyW, 0.01)
	agg.Update(0.02)
	got := agg.Poll()
	if len(got) != 2 || !got[0].Is(Up, Pressed) || !got[1].Is(Up, Released) {
		t.Fatalf("got %+v", got)
	}
}

func TestKeyboardChecksEveryAction(t *testing.T) {
	kb := NewKeyboard([]Binding{
		{Accept, []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace}},
		{Right, []ebiten.Key{ebiten.KeyD}},
		{Up, []ebiten.Key{ebiten.KeySpace}},
	})
	kb.OnKeyPress(ebiten.KeySpace, 1)
	got := kb.Poll(1)
	if len(got) != 2 {
		t.Fatalf("expected one event per bound action, got %d", len(got))
	}
	if got[0].Action != Accept || got[1].Action != Up {
		t.Fatalf("actions %s %s", got[0].Action, got[1].Action)
	}
	if got[0].Source != kb {
		t.Fatalf("source back-reference missing")
	}
	kb.OnKeyPress(ebiten.KeyQ, 2)
	if len(kb.Poll(2)) != 0 {
		t.Fatalf("unbound key produced events")
	}
}

func TestKeyboardHoldsFutureEvents(t *testing.T) {
	kb := NewKeyboard(nil)
	kb.OnKeyPress(ebiten.KeyA, 1.0)
	kb.OnKeyPress(ebiten.KeyD, 2.0)
	if got := kb.Poll(1.5); len(got) != 1 || got[0].Action != Left {
		t.Fatalf("poll(1.5)=%+v", got)
	}
	if got := kb.Poll(2.0); len(got) != 1 || got[0].Action != Right {
		t.Fatalf("poll(2.0)=%+v", got)
	}
}

func TestKeyboardCheck(t *testing.T) {
	kb := NewKeyboard(nil)
	if !kb.Check(ebiten.KeyArrowUp, Up) || !kb.Check(ebiten.KeyZ, Return) {
		t.Fatalf("default bindings missing")
	}
	if kb.Check(ebiten.KeyZ, Accept) {
		t.Fatalf("Z should not accept")
	}
}

func TestDefaultsBindEveryAction(t *testing.T) {
	kb := NewKeyboard(nil)
	for _, a := range Actions {
		bound := false
		for _, b := range DefaultBindings {
			for _, key := range b.Keys {
				if kb.Check(key, a) {
					bound = true
				}
			}
		}
		if !bound {
			t.Fatalf("no default key for %s", a)
		}
		noted := false
		for _, na := range DefaultNoteMap {
			noted = noted || na == a
		}
		if !noted {
			t.Fatalf("no default note for %s", a)
		}
	}
}

func TestKeyboardCaptureReadsEbitenEdges(t *testing.T) {
	restore := SetKeysForTest(
		func(k []ebiten.Key) []ebiten.Key { return append(k, ebiten.KeyEscape, ebiten.KeyS) },
		func(k []ebiten.Key) []ebiten.Key { return append(k, ebiten.KeyX) },
	)
	defer restore()
	kb := NewKeyboard(nil)
	kb.Capture(3)
	got := kb.Poll(3)
	if len(got) != 3 {
		t.Fatalf("got %d events", len(got))
	}
	if !got[0].Is(Return, Pressed) || !got[1].Is(Down, Pressed) || !got[2].Is(Accept, Released) {
		t.Fatalf("got %+v", got)
	}
	if !JustPressed(got, Return) || JustPressed(got, Accept) {
		t.Fatalf("JustPressed mismatch")
	}
}

func TestReplayReleasesEventsOnce(t *testing.T) {
	r := NewReplay([]Event{
		{Time: 2, Action: Right},
		{Time: 0.5, Action: Left},
		{Time: 1, Action: Up},
	})
	if got := r.Poll(0.25); len(got) != 0 {
		t.Fatalf("early poll returned %d", len(got))
	}
	got := r.Poll(1)
	if len(got) != 2 || got[0].Action != Left || got[1].Action != Up {
		t.Fatalf("poll(1)=%+v", got)
	}
	if got := r.Poll(1); len(got) != 0 {
		t.Fatalf("replay redelivered %d events", len(got))
	}
	if r.Done() {
		t.Fatalf("replay finished early")
	}
	if got := r.Poll(5); len(got) != 1 || got[0].Source != r {
		t.Fatalf("poll(5)=%+v", got)
	}
	if !r.Done() {
		t.Fatalf("replay not done")
	}
}

func TestLoadReplaySMF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.mid")
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 99, 100)) // unbound
	tr.Add(480, midi.NoteOn(0, 67, 90))
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadReplaySMF(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := r.Poll(10)
	if len(got) != 3 {
		t.Fatalf("got %d events: %+v", len(got), got)
	}
	want := []struct {
		at    float64
		a     Action
		phase Phase
	}{{0, Left, Pressed}, {0.5, Left, Released}, {0.75, Accept, Pressed}}
	for i, w := range want {
		if math.Abs(got[i].Time-w.at) > 1e-6 || !got[i].Is(w.a, w.phase) {
			t.Fatalf("event %d = %+v want %+v", i, got[i], w)
		}
	}
}

func TestLoadReplaySMFMissingFile(t *testing.T) {
	if _, err := LoadReplaySMF(filepath.Join(t.TempDir(), "nope.mid"), nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMIDIHandleAndPoll(t *testing.T) {
	m := NewMIDI(nil, testLogger)
	m.Handle(midi.NoteOn(0, 64, 100))
	m.Handle(midi.NoteOn(0, 64, 0)) // running-status note off
	m.Handle(midi.NoteOn(0, 30, 100))
	m.Handle(midi.ControlChange(0, 7, 100))
	got := m.Poll(4.5)
	if len(got) != 2 {
		t.Fatalf("got %d events", len(got))
	}
	if !got[0].Is(Up, Pressed) || !got[1].Is(Up, Released) {
		t.Fatalf("got %+v", got)
	}
	if got[0].Time != 4.5 || got[0].Source != m {
		t.Fatalf("event not stamped with poll time: %+v", got[0])
	}
	if len(m.Poll(5)) != 0 {
		t.Fatalf("midi redelivered events")
	}
}

func TestMIDIListenDeliversPortMessages(t *testing.T) {
	drv := testdrv.New("pads")
	ins, _ := drv.Ins()
	outs, _ := drv.Outs()
	in, out := ins[0], outs[0]

	m := NewMIDI(nil, testLogger)
	if err := m.Listen(in); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if !in.IsOpen() {
		t.Fatalf("listen did not open %s", in)
	}
	if err := out.Open(); err != nil {
		t.Fatalf("open out: %v", err)
	}
	if err := out.Send(midi.NoteOn(0, 67, 90)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := out.Send(midi.NoteOff(0, 67)); err != nil {
		t.Fatalf("send: %v", err)
	}
	got := m.Poll(1.25)
	if len(got) != 2 || !got[0].Is(Accept, Pressed) || !got[1].Is(Accept, Released) {
		t.Fatalf("got %+v", got)
	}
	if got[0].Time != 1.25 {
		t.Fatalf("time=%v", got[0].Time)
	}

	m.Close()
	if err := out.Send(midi.NoteOn(0, 67, 90)); err != nil {
		t.Fatalf("send after close: %v", err)
	}
	if evs := m.Poll(2); len(evs) != 0 {
		t.Fatalf("events after close: %+v", evs)
	}
}
