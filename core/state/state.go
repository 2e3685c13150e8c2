package state

import "github.com/hajimehoshi/ebiten/v2"

// Substate is a layer the manager drives: a modal overlay on its own, and the
// common part of every State.
type Substate interface {
	// Enter runs each time the layer becomes active.
	Enter()
	// Exit runs each time the layer stops being active.
	Exit()
	Update(dt float64)
	Draw(dst *ebiten.Image)
	// BeatHit and StepHit receive the conductor's edges.
	BeatHit(beat int)
	StepHit(step int)
}

// State is a full screen. Setup runs once, on the first activation.
type State interface {
	Substate
	Setup() error
}

// Nop implements every hook as a no-op; embed it and override what is needed.
type Nop struct{}

func (Nop) Setup() error       { return nil }
func (Nop) Enter()             {}
func (Nop) Exit()              {}
func (Nop) Update(float64)     {}
func (Nop) Draw(*ebiten.Image) {}
func (Nop) BeatHit(int)        {}
func (Nop) StepHit(int)        {}

// Window is the render surface the manager presents states on.
type Window interface {
	Present(s State)
}
