package engine

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/astral/core/beat"
	"github.com/ingyamilmolinar/astral/core/input"
	"github.com/ingyamilmolinar/astral/core/state"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

// Engine ties the conductor, the input queue and the state manager into one
// per-frame loop. States receive it as their context instead of reaching for
// globals.
type Engine struct {
	Conductor *beat.Conductor
	Input     *input.Aggregator
	States    *state.Manager

	// OnBeat runs after the active state saw the beat edge.
	OnBeat func(beat int)

	clock  float64
	frame  []input.Event
	logger *game_log.Logger
}

// New creates an Engine around already built components.
func New(c *beat.Conductor, in *input.Aggregator, states *state.Manager, logger *game_log.Logger) *Engine {
	return &Engine{
		Conductor: c,
		Input:     in,
		States:    states,
		logger:    logger.Named("ENGINE"),
	}
}

// Update advances one frame of dt seconds.
func (e *Engine) Update(dt float64) {
	e.clock += dt

	e.Input.Update(e.clock)
	e.frame = e.Input.Poll()

	beatHit, stepHit := e.Conductor.Update(dt)
	if beatHit {
		b := e.Conductor.CurrentBeat()
		e.logger.Debugf("beat %d at %.1fms", b, e.Conductor.Position())
		e.States.BeatHit(b)
		if e.OnBeat != nil {
			e.OnBeat(b)
		}
	}
	if stepHit {
		e.States.StepHit(e.Conductor.CurrentStep())
	}

	e.States.Update(dt)
}

func (e *Engine) Draw(dst *ebiten.Image) { e.States.Draw(dst) }

// Clock returns the seconds accumulated by Update.
func (e *Engine) Clock() float64 { return e.clock }

// Frame returns the input events drained during the current frame.
func (e *Engine) Frame() []input.Event { return e.frame }

// JustPressed reports whether a was pressed during the current frame.
func (e *Engine) JustPressed(a input.Action) bool { return input.JustPressed(e.frame, a) }
