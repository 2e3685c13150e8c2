package audio

import (
	"io"
	"testing"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var testLogger = game_log.New(io.Discard, game_log.LevelError)

func TestVoiceFor(t *testing.T) {
	cases := map[int]string{0: "kick", 1: "hihat", 2: "snare", 3: "hihat", 4: "kick", 10: "snare", -1: "hihat"}
	for beat, want := range cases {
		if got := VoiceFor(beat); got != want {
			t.Errorf("VoiceFor(%d)=%s want %s", beat, got, want)
		}
	}
}

func TestMetronomeSchedulesOnlyWhenEnabled(t *testing.T) {
	m, err := NewMetronome(nil, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.OnBeat(0)
	if m.mix.Active() != 0 {
		t.Fatalf("disabled metronome scheduled a click")
	}
	m.SetEnabled(true)
	m.SetBPM(102)
	m.OnBeat(0)
	m.OnBeat(1)
	if m.mix.Active() != 2 {
		t.Fatalf("active=%d", m.mix.Active())
	}
	if m.bpm != 102 {
		t.Fatalf("bpm=%d", m.bpm)
	}
	m.SetBPM(-5)
	if m.bpm != 102 {
		t.Fatalf("invalid bpm accepted")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMetronomeGainScalesOutput(t *testing.T) {
	defer ResetInstruments()
	Register("kick", Sample{data: []float32{1}})
	m, _ := NewMetronome(nil, testLogger)
	m.SetEnabled(true)
	m.SetGain(0.5)
	m.OnBeat(0)
	buf := make([]byte, bytesPerFrame)
	m.mix.Read(buf)
	if got := leftChannel(buf, 0); got != 16383 {
		t.Fatalf("sample=%d", got)
	}
}
