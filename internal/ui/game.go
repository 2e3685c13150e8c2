package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/input"
	"github.com/ingyamilmolinar/astral/core/state"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

const windowTitle = "Astral"

// Titled states name themselves in the window title.
type Titled interface {
	WindowTitle() string
}

// Game adapts the engine to ebiten and is the window states are shown on.
type Game struct {
	engine   *engine.Engine
	keyboard *input.Keyboard
	shown    state.State
	logger   *game_log.Logger

	winW, winH int
	tps        int
	frame      int64
	hud        bool
}

func New(width, height, tps int, kb *input.Keyboard, logger *game_log.Logger) *Game {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return &Game{
		keyboard: kb,
		winW:     width,
		winH:     height,
		tps:      tps,
		hud:      logger.Level() == game_log.LevelDebug,
		logger:   logger.Named("UI"),
	}
}

// Bind attaches the engine. It is separate from New because the engine's
// state manager needs the Game as its window.
func (g *Game) Bind(e *engine.Engine) { g.engine = e }

// Present implements state.Window.
func (g *Game) Present(s state.State) {
	g.shown = s
	title := windowTitle
	if t, ok := s.(Titled); ok && t.WindowTitle() != "" {
		title += " - " + t.WindowTitle()
	}
	setWindowTitle(title)
	g.logger.Debugf("presenting %T", s)
}

// Shown returns the state last presented.
func (g *Game) Shown() state.State { return g.shown }

func (g *Game) Update() error {
	if isKeyJustPressed(ebiten.KeyF11) {
		setFullscreen(!isFullscreen())
	}
	if isKeyJustPressed(ebiten.KeyF3) {
		g.hud = !g.hud
	}
	if g.engine == nil {
		return nil
	}
	dt := 1 / float64(g.tps)
	if g.keyboard != nil {
		g.keyboard.Capture(g.engine.Clock() + dt)
	}
	g.engine.Update(dt)
	g.frame++
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColBackground)
	if g.engine != nil {
		g.engine.Draw(screen)
	}
	if g.hud {
		ebitenutil.DebugPrintAt(screen, g.HUD(), 4, 4)
	}
}

// HUD returns the timing overlay toggled with F3.
func (g *Game) HUD() string {
	if g.engine == nil {
		return fmt.Sprintf("TPS %.0f", ebiten.ActualTPS())
	}
	c := g.engine.Conductor
	return fmt.Sprintf("TPS %.0f\npos %.0fms bpm %.2f\nbeat %d step %d measure %d",
		ebiten.ActualTPS(), c.Position(), c.Data().BPM, c.CurrentBeat(), c.CurrentStep(), c.CurrentMeasure())
}

// HUDVisible reports whether the timing overlay is drawn.
func (g *Game) HUDVisible() bool { return g.hud }

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.winW, g.winH
}

// Frame returns the number of updates run.
func (g *Game) Frame() int64 { return g.frame }
