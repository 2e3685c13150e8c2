package states

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/input"
	"github.com/ingyamilmolinar/astral/core/state"
	"github.com/ingyamilmolinar/astral/internal/ui"
)

// Toggle is a setting that can be switched on and off.
type Toggle interface {
	Enabled() bool
	SetEnabled(bool)
}

// Options is the settings overlay opened from the main menu.
type Options struct {
	state.Nop
	e         *engine.Engine
	metronome Toggle
	w, h      int
	beatFlash float64
}

func NewOptions(e *engine.Engine, metronome Toggle, w, h int) *Options {
	return &Options{e: e, metronome: metronome, w: w, h: h}
}

func (o *Options) Enter() { o.beatFlash = 0 }

func (o *Options) BeatHit(int) { o.beatFlash = 1 }

func (o *Options) Update(dt float64) {
	o.beatFlash -= dt * 4
	if o.beatFlash < 0 {
		o.beatFlash = 0
	}
	switch {
	case o.e.JustPressed(input.Return):
		o.e.States.RemoveSubstate()
	case o.e.JustPressed(input.Up), o.e.JustPressed(input.Down), o.e.JustPressed(input.Accept):
		if o.metronome != nil {
			o.metronome.SetEnabled(!o.metronome.Enabled())
		}
	}
}

func (o *Options) Draw(dst *ebiten.Image) {
	panel := image.Rect(o.w/4, o.h/4, o.w*3/4, o.h*3/4)
	ui.DrawRect(dst, panel, ui.ColPanel, true)
	ui.DrawRect(dst, panel, ui.ColPanelEdge, false)

	var id ebiten.GeoM
	cx := float64(o.w) / 2
	ui.DrawText(dst, "OPTIONS", cx, float64(panel.Min.Y)+24, id, ui.TextStyle{Scale: 3, Color: ui.ColText, Align: ui.AlignCenter})

	label, col := "metronome: off", ui.ColToggleOff
	if o.metronome != nil && o.metronome.Enabled() {
		label, col = "metronome: on", ui.ColToggleOn
	}
	ui.DrawText(dst, label, cx, float64(o.h)/2, id, ui.TextStyle{Scale: 2, Color: col, Align: ui.AlignCenter})
	ui.DrawText(dst, "ESC to go back", cx, float64(panel.Max.Y)-40, id, ui.TextStyle{Color: ui.ColDim, Align: ui.AlignCenter})

	if o.beatFlash > 0 {
		m := image.Rect(panel.Max.X-28, panel.Min.Y+12, panel.Max.X-12, panel.Min.Y+28)
		ui.DrawRect(dst, m, ui.ColBeatMarker, true)
	}
}
