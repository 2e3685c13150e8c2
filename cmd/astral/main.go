package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/astral/core/beat"
	"github.com/ingyamilmolinar/astral/core/engine"
	"github.com/ingyamilmolinar/astral/core/input"
	"github.com/ingyamilmolinar/astral/core/state"
	gameaudio "github.com/ingyamilmolinar/astral/internal/audio"
	"github.com/ingyamilmolinar/astral/internal/config"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
	"github.com/ingyamilmolinar/astral/internal/states"
	"github.com/ingyamilmolinar/astral/internal/tempo"
	"github.com/ingyamilmolinar/astral/internal/ui"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:          "astral",
	Short:        "Beat-synced rhythm game engine",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	f.IntVar(&cfg.TPS, "tps", cfg.TPS, "ticks per second")
	f.StringVarP(&cfg.LogLevel, "log", "l", cfg.LogLevel, "log level (DEBUG, INFO, WARN, ERROR, NONE)")
	f.StringVar(&cfg.TitleMusic, "music", cfg.TitleMusic, "title music file (.ogg, .mp3, .wav)")
	f.Float64Var(&cfg.TitleBPM, "bpm", cfg.TitleBPM, "title music tempo")
	f.StringVar(&cfg.IntroText, "intro-text", cfg.IntroText, "file of first--second intro line pairs")
	f.StringVar(&cfg.IntroScript, "intro-script", cfg.IntroScript, "Lua file describing the intro cues")
	f.Float64Var(&cfg.FadeIn, "fade-in", cfg.FadeIn, "transition fade to black, seconds")
	f.Float64Var(&cfg.FadeBlack, "fade-black", cfg.FadeBlack, "transition hold on black, seconds")
	f.Float64Var(&cfg.FadeOut, "fade-out", cfg.FadeOut, "transition fade from black, seconds")
	f.BoolVarP(&cfg.Metronome, "metronome", "m", cfg.Metronome, "start with the metronome on")
	f.StringVar(&cfg.MetronomeSample, "metronome-sample", cfg.MetronomeSample, "wav file used for the downbeat click")
	f.StringVarP(&cfg.ReplaySMF, "replay", "r", cfg.ReplaySMF, "play input back from a MIDI file")
	f.StringVar(&cfg.MIDIPort, "midi", cfg.MIDIPort, "MIDI input port name to listen on")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := game_log.New(os.Stderr, cfg.Level())

	ctx := audio.NewContext(gameaudio.SampleRate)
	svc := gameaudio.NewService(ctx, logger)
	conductor := beat.NewConductor(svc, svc, tempo.New(logger), beat.NewCache(), logger)

	kb := input.NewKeyboard(input.DefaultBindings)
	agg := input.NewAggregator(logger)
	agg.AddSource(kb)
	if cfg.ReplaySMF != "" {
		r, err := input.LoadReplaySMF(cfg.ReplaySMF, nil)
		if err != nil {
			return err
		}
		agg.AddSource(r)
	}
	if cfg.MIDIPort != "" {
		m, err := openMIDI(cfg.MIDIPort, logger)
		if err != nil {
			logger.Warnf("midi disabled: %v", err)
		} else {
			defer m.Close()
			agg.AddSource(m)
		}
	}

	game := ui.New(cfg.Width, cfg.Height, cfg.TPS, kb, logger)
	mgr := state.NewManager(game, logger)
	mgr.SetFade(state.Fade{In: cfg.FadeIn, Black: cfg.FadeBlack, Out: cfg.FadeOut})
	e := engine.New(conductor, agg, mgr, logger)
	game.Bind(e)

	metro, err := gameaudio.NewMetronome(ctx, logger)
	if err != nil {
		return err
	}
	defer metro.Close()
	metro.SetEnabled(cfg.Metronome)
	if cfg.MetronomeSample != "" {
		if err := svc.RegisterSample(gameaudio.Pattern[0], cfg.MetronomeSample); err != nil {
			logger.Warnf("metronome sample: %v", err)
		}
	}
	e.OnBeat = func(b int) {
		metro.SetBPM(conductor.Data().BPM)
		metro.OnBeat(b)
	}

	opts := states.TitleOptions{Music: cfg.TitleMusic, BPM: cfg.TitleBPM, IntroText: cfg.IntroText}
	if cfg.IntroScript != "" {
		if opts.Script, err = states.LoadIntroScript(cfg.IntroScript); err != nil {
			return err
		}
	}
	load := func(path string) (beat.Sound, error) {
		s, err := svc.Load(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	mgr.Register(states.TitleName, states.NewTitle(e, load, opts, cfg.Width, cfg.Height, logger))
	options := states.NewOptions(e, metro, cfg.Width, cfg.Height)
	mgr.Register(states.MainMenuName, states.NewMainMenu(e, options, cfg.Width, cfg.Height, logger))
	if err := mgr.Show(states.TitleName); err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Astral")
	if err := ebiten.RunGame(game); err != nil {
		logger.Errorf("game loop: %v", err)
		return err
	}
	return nil
}
