// Package config holds the runtime settings the command line fills in.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Width  int
	Height int
	TPS    int

	LogLevel string

	TitleMusic  string
	TitleBPM    float64
	IntroText   string
	IntroScript string

	FadeIn    float64
	FadeBlack float64
	FadeOut   float64

	Metronome       bool
	MetronomeSample string

	ReplaySMF string
	MIDIPort  string
}

func Default() Config {
	return Config{
		Width:      1280,
		Height:     720,
		TPS:        60,
		LogLevel:   "INFO",
		TitleMusic: "assets/music/freakyMenu.ogg",
		TitleBPM:   102,
		FadeIn:     0.2,
		FadeBlack:  0,
		FadeOut:    0.2,
	}
}

// Level returns the parsed log level.
func (c Config) Level() game_log.Level { return game_log.LevelFromString(c.LogLevel) }

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return invalid(fmt.Sprintf("window size %dx%d", c.Width, c.Height))
	case c.TPS <= 0:
		return invalid(fmt.Sprintf("tps %d", c.TPS))
	case c.TitleBPM <= 0 || math.IsNaN(c.TitleBPM) || math.IsInf(c.TitleBPM, 0):
		return invalid(fmt.Sprintf("title bpm %v", c.TitleBPM))
	case c.FadeIn < 0 || c.FadeBlack < 0 || c.FadeOut < 0:
		return invalid(fmt.Sprintf("fade %v/%v/%v", c.FadeIn, c.FadeBlack, c.FadeOut))
	case c.TitleMusic == "":
		return invalid("title music path is empty")
	}
	return nil
}

func invalid(what string) error {
	return fault.Wrap(ErrInvalid, fmsg.WithDesc(what, "Check the command line flags."), ftag.With(ftag.InvalidArgument))
}
