// Package states holds the concrete screens the state manager switches
// between.
package states

import (
	"github.com/ingyamilmolinar/astral/core/beat"
	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/state"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
	"github.com/ingyamilmolinar/astral/internal/ui"
)

// Names the screens are registered under.
const (
	TitleName    = "title"
	MainMenuName = "mainMenu"
)

// SoundLoader resolves a song path to something the conductor can play.
type SoundLoader func(path string) (beat.Sound, error)

// screen is the part every full screen shares: the engine it runs in and a
// world camera that only exists while the screen is active.
type screen struct {
	state.Nop
	e      *engine.Engine
	cam    *ui.Camera
	w, h   int
	logger *game_log.Logger
}

func (s *screen) Enter() {
	s.cam = ui.NewCamera(s.w, s.h)
}

func (s *screen) Exit() {
	s.cam = nil
}

func (s *screen) Update(dt float64) {
	if s.cam != nil {
		s.cam.Update(dt)
	}
}

// bump pulses the camera on a beat.
func (s *screen) bump(amount float64) {
	if s.cam != nil {
		s.cam.Bump(amount)
	}
}
