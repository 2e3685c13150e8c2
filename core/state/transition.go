package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ingyamilmolinar/astral/internal/utils"
)

type Phase int

const (
	FadeIn Phase = iota
	Black
	FadeOut
)

func (p Phase) String() string {
	switch p {
	case FadeIn:
		return "in"
	case Black:
		return "black"
	case FadeOut:
		return "out"
	default:
		return "unknown"
	}
}

// Transition is a fade-to-black overlay that swaps states while the screen
// is covered. It is a pure function of accumulated time; callers drop it once
// Finished reports true.
type Transition struct {
	fadeIn, black, fadeOut float64

	fadeInEnd  float64
	blackEnd   float64
	fadeOutEnd float64

	elapsed  float64
	phase    Phase
	switched bool
	finished bool
	onSwitch func()
}

// NewTransition builds a fade with the given phase lengths in seconds.
// onSwitch runs once, on the first update that leaves the fade-in phase.
func NewTransition(fadeIn, black, fadeOut float64, onSwitch func()) *Transition {
	return &Transition{
		fadeIn:     fadeIn,
		black:      black,
		fadeOut:    fadeOut,
		fadeInEnd:  fadeIn,
		blackEnd:   fadeIn + black,
		fadeOutEnd: fadeIn + black + fadeOut,
		phase:      FadeIn,
		onSwitch:   onSwitch,
	}
}

func (t *Transition) Update(dt float64) {
	t.elapsed += dt

	switch {
	case t.elapsed < t.fadeInEnd:
		t.phase = FadeIn
	case t.elapsed < t.blackEnd:
		t.phase = Black
	case t.elapsed < t.fadeOutEnd:
		t.phase = FadeOut
	default:
		t.phase = FadeOut
		t.finished = true
	}

	if !t.switched && t.elapsed >= t.fadeInEnd {
		t.switched = true
		if t.onSwitch != nil {
			t.onSwitch()
		}
	}
}

// Alpha is the overlay opacity for the current frame.
func (t *Transition) Alpha() uint8 {
	if t.finished {
		return 0
	}
	switch t.phase {
	case FadeIn:
		return utils.Alpha(utils.EaseInQuart(ratio(t.elapsed, t.fadeIn)))
	case Black:
		return 255
	default:
		return utils.Alpha(1 - utils.EaseOutQuart(ratio(t.elapsed-t.blackEnd, t.fadeOut)))
	}
}

func ratio(x, span float64) float64 {
	if span <= 0 {
		return 1
	}
	return utils.Clamp01(x / span)
}

func (t *Transition) Draw(dst *ebiten.Image) {
	a := t.Alpha()
	if a == 0 {
		return
	}
	b := dst.Bounds()
	vector.DrawFilledRect(dst, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), color.NRGBA{0, 0, 0, a}, false)
}

func (t *Transition) Elapsed() float64 { return t.elapsed }
func (t *Transition) Phase() Phase     { return t.phase }
func (t *Transition) Switched() bool   { return t.switched }
func (t *Transition) Finished() bool   { return t.finished }
