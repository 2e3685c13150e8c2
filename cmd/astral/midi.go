package main

import (
	"errors"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/ingyamilmolinar/astral/core/input"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var errNoPort = errors.New("no matching midi input")

type midiSource struct {
	*input.MIDI
	drv *rtmididrv.Driver
}

func (m *midiSource) Close() {
	m.MIDI.Close()
	m.drv.Close()
}

// openMIDI listens on the first input whose name contains port.
func openMIDI(port string, logger *game_log.Logger) (*midiSource, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("rtmidi driver"))
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fault.Wrap(err, fmsg.With("list midi inputs"))
	}
	for _, in := range ins {
		if !strings.Contains(strings.ToLower(in.String()), strings.ToLower(port)) {
			continue
		}
		m := input.NewMIDI(nil, logger)
		if err := m.Listen(in); err != nil {
			drv.Close()
			return nil, err
		}
		return &midiSource{MIDI: m, drv: drv}, nil
	}
	drv.Close()
	return nil, fault.Wrap(errNoPort, fmsg.With(port), ftag.With(ftag.NotFound))
}
