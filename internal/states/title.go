package states

import (
	"image"
	"math"
	"math/rand"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/astral/core/beat"
	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/input"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
	"github.com/ingyamilmolinar/astral/internal/ui"
)

// flashDecay is how much flash alpha fades per second.
const flashDecay = 128

// pickLine chooses the intro line pair. Tests replace it.
var pickLine = rand.Intn

type TitleOptions struct {
	Music     string
	BPM       float64
	IntroText string
	Script    IntroScript
}

// Title plays the menu music, runs the intro script on the beat and then
// shows the title until the player accepts.
type Title struct {
	screen
	load SoundLoader
	opts TitleOptions

	song     beat.Sound
	lines    [2]string
	text     []string
	lastBeat int
	done     bool
	seen     bool
	flash    float64
}

func NewTitle(e *engine.Engine, load SoundLoader, opts TitleOptions, w, h int, logger *game_log.Logger) *Title {
	if len(opts.Script.Cues) == 0 {
		opts.Script = DefaultIntroScript
	}
	return &Title{
		screen: screen{e: e, w: w, h: h, logger: logger.Named("TITLE")},
		load:   load,
		opts:   opts,
	}
}

func (t *Title) WindowTitle() string { return "Title" }

func (t *Title) Setup() error {
	song, err := t.load(t.opts.Music)
	if err != nil {
		return err
	}
	t.song = song

	pool := DefaultIntroLines
	if t.opts.IntroText != "" {
		if pool, err = ReadIntroLines(t.opts.IntroText); err != nil {
			return err
		}
	}
	t.lines = pool[pickLine(len(pool))]
	t.logger.Debugf("intro lines %q / %q", t.lines[0], t.lines[1])
	return nil
}

func (t *Title) Enter() {
	t.screen.Enter()
	c := t.e.Conductor
	if c.Loaded() && c.Sound() == t.song {
		// back from a menu, the music never stopped
		t.done = true
		return
	}
	t.text = t.text[:0]
	t.lastBeat = -1
	t.flash = 0
	if err := c.PlayAudio(t.song, beat.WithBPM(t.opts.BPM), beat.Looping()); err != nil {
		// without music there are no beats to run the intro on
		t.logger.Errorf("title music: %v", err)
		t.seen = true
	}
	t.done = t.seen
}

func (t *Title) BeatHit(b int) {
	if !t.done {
		t.text = t.opts.Script.Apply(t.lastBeat, b, t.text, t.lines)
		if b >= t.opts.Script.End {
			t.showTitle()
		}
	}
	t.lastBeat = b
	if t.done {
		t.bump(0.015)
	}
}

func (t *Title) showTitle() {
	t.done = true
	t.seen = true
	t.flash = 255
	t.text = t.text[:0]
	t.logger.Infof("intro finished")
}

func (t *Title) Update(dt float64) {
	t.screen.Update(dt)
	t.flash = math.Max(0, t.flash-flashDecay*dt)
	if !t.e.JustPressed(input.Accept) {
		return
	}
	if !t.done {
		t.showTitle()
		return
	}
	t.e.States.TransitionTo(MainMenuName)
}

func (t *Title) Draw(dst *ebiten.Image) {
	var geo ebiten.GeoM
	if t.cam != nil {
		geo = t.cam.GeoMRounded()
	}
	cx, h := float64(t.w)/2, float64(t.h)
	if !t.done {
		ui.DrawText(dst, strings.Join(t.text, "\n"), cx, h/2-60, geo,
			ui.TextStyle{Scale: 3, Color: ui.ColText, Align: ui.AlignCenter, Spacing: 4})
		return
	}
	ui.DrawText(dst, "ASTRAL ENGINE", cx, h*0.3, geo, ui.TextStyle{Scale: 6, Color: ui.ColText, Align: ui.AlignCenter})
	ui.DrawText(dst, "Press ENTER to begin", cx, h*0.75, geo, ui.TextStyle{Scale: 2, Color: ui.ColHighlight, Align: ui.AlignCenter})
	ui.Fill(dst, image.Rect(0, 0, t.w, t.h), ui.ColFlash, uint8(t.flash))
}

// Text returns the intro lines currently shown.
func (t *Title) Text() []string { return t.text }

// IntroDone reports whether the title itself is showing.
func (t *Title) IntroDone() bool { return t.done }

func (t *Title) Flash() float64 { return t.flash }

// Lines returns the picked intro line pair.
func (t *Title) Lines() [2]string { return t.lines }
