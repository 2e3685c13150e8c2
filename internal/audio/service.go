package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	ebwav "github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/ingyamilmolinar/astral/core/beat"
	game_log "github.com/ingyamilmolinar/astral/internal/log"
)

var (
	ErrUnsupported = errors.New("unsupported audio format")
	ErrNoContext   = errors.New("no audio context")
)

// Sound is a decoded song ready for playback at the context rate.
type Sound struct {
	path string
	pcm  []byte
}

func (s *Sound) Path() string { return s.path }

// Len returns the PCM length in bytes.
func (s *Sound) Len() int64 { return int64(len(s.pcm)) }

// Service decodes, caches and plays songs on an ebiten audio context. It
// implements the conductor's Playback and Decoder.
type Service struct {
	ctx    *audio.Context
	mu     sync.Mutex
	sounds map[string]*Sound
	logger *game_log.Logger
}

func NewService(ctx *audio.Context, logger *game_log.Logger) *Service {
	return &Service{
		ctx:    ctx,
		sounds: map[string]*Sound{},
		logger: logger.Named("AUDIO"),
	}
}

func (s *Service) rate() int {
	if s.ctx == nil {
		return SampleRate
	}
	return s.ctx.SampleRate()
}

// Load decodes path once and caches the PCM.
func (s *Service) Load(path string) (*Sound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snd, ok := s.sounds[path]; ok {
		return snd, nil
	}
	pcm, err := decodePCM(path, s.rate())
	if err != nil {
		return nil, err
	}
	snd := &Sound{path: path, pcm: pcm}
	s.sounds[path] = snd
	s.logger.Infof("loaded %s (%d bytes)", path, len(pcm))
	return snd, nil
}

// Play starts snd from the beginning. A looping sound restarts forever.
func (s *Service) Play(snd beat.Sound, loop bool) (beat.Player, error) {
	if s.ctx == nil {
		return nil, fault.Wrap(ErrNoContext, fmsg.With("play "+snd.Path()))
	}
	decoded, ok := snd.(*Sound)
	if !ok {
		var err error
		if decoded, err = s.Load(snd.Path()); err != nil {
			return nil, err
		}
	}
	var src io.Reader = bytes.NewReader(decoded.pcm)
	if loop {
		src = audio.NewInfiniteLoop(bytes.NewReader(decoded.pcm), decoded.Len())
	}
	p, err := s.ctx.NewPlayer(src)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("new player for "+snd.Path()))
	}
	p.Play()
	s.logger.Debugf("playing %s loop=%v", snd.Path(), loop)
	return p, nil
}

// Samples returns path as mono samples in [-1,1] at its native rate.
func (s *Service) Samples(path string) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return readWAVMono(path)
	}
	f, err := openAsset(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		stream io.Reader
		rate   int
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		st, err := vorbis.DecodeWithoutResampling(f)
		if err != nil {
			return nil, 0, corrupt(err, path)
		}
		stream, rate = st, st.SampleRate()
	case ".mp3":
		st, err := mp3.DecodeWithoutResampling(f)
		if err != nil {
			return nil, 0, corrupt(err, path)
		}
		stream, rate = st, st.SampleRate()
	default:
		return nil, 0, unsupported(path)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, 0, corrupt(err, path)
	}
	return monoFromStereo16(pcm), rate, nil
}

// RegisterSample loads a sample file and registers it as instrument id,
// resampled to the context rate.
func (s *Service) RegisterSample(id, path string) error {
	samples, rate, err := s.Samples(path)
	if err != nil {
		return err
	}
	if rate != s.rate() {
		r, err := dspresample.NewForRates(float64(rate), float64(s.rate()), dspresample.WithQuality(dspresample.QualityBest))
		if err != nil {
			return fault.Wrap(err, fmsg.With("resample "+path))
		}
		samples = r.Process(samples)
	}
	buf := make([]float32, len(samples))
	for i, v := range samples {
		buf[i] = float32(v)
	}
	Register(id, Sample{data: buf})
	s.logger.Infof("registered %s as %q", path, id)
	return nil
}

// Sample is a preloaded mono buffer played as an instrument.
type Sample struct{ data []float32 }

func (s Sample) NewVoice(bpm, sampleRate int) Voice {
	return &bufVoice{buf: s.data}
}

func decodePCM(path string, rate int) ([]byte, error) {
	f, err := openAsset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stream io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(rate, f)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(rate, f)
	case ".wav":
		stream, err = ebwav.DecodeWithSampleRate(rate, f)
	default:
		return nil, unsupported(path)
	}
	if err != nil {
		return nil, corrupt(err, path)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, corrupt(err, path)
	}
	return pcm, nil
}

func readWAVMono(path string) ([]float64, int, error) {
	f, err := openAsset(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, corrupt(errors.New("invalid wav header"), path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, corrupt(err, path)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, corrupt(errors.New("empty wav buffer"), path)
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch) / scale
	}
	return out, buf.Format.SampleRate, nil
}

// monoFromStereo16 averages 16-bit little endian stereo frames.
func monoFromStereo16(pcm []byte) []float64 {
	frames := len(pcm) / bytesPerFrame
	out := make([]float64, frames)
	for i := range out {
		o := i * bytesPerFrame
		l := int16(binary.LittleEndian.Uint16(pcm[o:]))
		r := int16(binary.LittleEndian.Uint16(pcm[o+2:]))
		out[i] = (float64(l) + float64(r)) / 2 / 32768
	}
	return out
}

func openAsset(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("open "+path, "Audio file not found."), ftag.With(ftag.NotFound))
	}
	return f, nil
}

func corrupt(err error, path string) error {
	return fault.Wrap(err, fmsg.WithDesc("decode "+path, "Audio file could not be decoded."), ftag.With(ftag.InvalidArgument))
}

func unsupported(path string) error {
	return fault.Wrap(ErrUnsupported, fmsg.With(path), ftag.With(ftag.InvalidArgument))
}
