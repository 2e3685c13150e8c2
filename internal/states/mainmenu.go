package states

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/input"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
	"github.com/ingyamilmolinar/astral/internal/ui"
)

// MenuItems are the main menu entries, top to bottom.
var MenuItems = []string{"story mode", "freeplay", "options"}

const itemBump = 0.1

type MainMenu struct {
	screen
	options  *Options
	selected int
	pulse    float64
}

func NewMainMenu(e *engine.Engine, options *Options, w, h int, logger *game_log.Logger) *MainMenu {
	return &MainMenu{
		screen:  screen{e: e, w: w, h: h, logger: logger.Named("MENU")},
		options: options,
	}
}

func (m *MainMenu) WindowTitle() string { return "Main Menu" }

func (m *MainMenu) Enter() {
	m.screen.Enter()
	m.pulse = 0
}

func (m *MainMenu) BeatHit(int) {
	m.bump(0.015)
	m.pulse = itemBump
}

func (m *MainMenu) Update(dt float64) {
	m.screen.Update(dt)
	if m.pulse > 0 {
		m.pulse -= dt * itemBump * 4
		if m.pulse < 0 {
			m.pulse = 0
		}
	}
	switch {
	case m.e.JustPressed(input.Up):
		m.selected = (m.selected + len(MenuItems) - 1) % len(MenuItems)
	case m.e.JustPressed(input.Down):
		m.selected = (m.selected + 1) % len(MenuItems)
	case m.e.JustPressed(input.Accept):
		m.accept()
	case m.e.JustPressed(input.Return):
		m.e.States.TransitionTo(TitleName)
	}
}

func (m *MainMenu) accept() {
	item := MenuItems[m.selected]
	if item == "options" && m.options != nil {
		m.e.States.SetSubstate(m.options)
		return
	}
	m.logger.Infof("%s is not available yet", item)
}

func (m *MainMenu) Draw(dst *ebiten.Image) {
	ui.Fill(dst, image.Rect(0, 0, m.w, m.h), ui.ColMenuBG, 255)
	var geo ebiten.GeoM
	if m.cam != nil {
		geo = m.cam.GeoMRounded()
	}
	cx := float64(m.w) / 2
	for i, item := range MenuItems {
		y := float64(m.h)/2 + float64(i-1)*120
		st := ui.TextStyle{Scale: 4, Color: ui.ColMenuItem, Align: ui.AlignCenter}
		if i == m.selected {
			st.Scale += m.pulse * 10
			st.Color = ui.ColText
			bar := image.Rect(0, int(y)-8, m.w, int(y)+60)
			ui.DrawRect(dst, bar, ui.ColPanel, true)
		}
		ui.DrawText(dst, item, cx, y, geo, st)
	}
}

// Selected returns the highlighted item.
func (m *MainMenu) Selected() string { return MenuItems[m.selected] }
