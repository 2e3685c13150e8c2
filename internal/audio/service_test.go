package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

func writeTestWAV(t *testing.T, path string, rate, channels int, frames []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		Data:           frames,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestSamplesReadsWAVAsMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.wav")
	writeTestWAV(t, path, 22050, 2, []int{16384, 0, -32768, -32768, 8192, 8192})

	svc := NewService(nil, testLogger)
	got, rate, err := svc.Samples(path)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if rate != 22050 {
		t.Fatalf("rate=%d", rate)
	}
	want := []float64{0.25, -1, 0.25}
	if len(got) != len(want) {
		t.Fatalf("got %d frames", len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("frame %d=%v want %v", i, got[i], want[i])
		}
	}
}

func TestSamplesErrors(t *testing.T) {
	svc := NewService(nil, testLogger)
	dir := t.TempDir()

	_, _, err := svc.Samples(filepath.Join(dir, "missing.ogg"))
	if err == nil || ftag.Get(err) != ftag.NotFound {
		t.Fatalf("missing file err=%v kind=%v", err, ftag.Get(err))
	}

	flac := filepath.Join(dir, "song.flac")
	if err := os.WriteFile(flac, []byte("fLaC"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = svc.Samples(flac)
	if !errors.Is(err, ErrUnsupported) || ftag.Get(err) != ftag.InvalidArgument {
		t.Fatalf("unsupported err=%v", err)
	}

	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not a riff file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Samples(bad); err == nil || ftag.Get(err) != ftag.InvalidArgument {
		t.Fatalf("corrupt wav err=%v", err)
	}

	if _, err := svc.Load(flac); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("load unsupported err=%v", err)
	}
}

func TestPlayWithoutContext(t *testing.T) {
	svc := NewService(nil, testLogger)
	if _, err := svc.Play(&Sound{path: "x.ogg"}, false); !errors.Is(err, ErrNoContext) {
		t.Fatalf("err=%v", err)
	}
}

func TestRegisterSampleResamples(t *testing.T) {
	defer ResetInstruments()
	path := filepath.Join(t.TempDir(), "hat.wav")
	frames := make([]int, 2205)
	for i := range frames {
		frames[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/22050))
	}
	writeTestWAV(t, path, 22050, 1, frames)

	svc := NewService(nil, testLogger)
	if err := svc.RegisterSample("hihat", path); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, ok := lookup("hihat")
	if !ok {
		t.Fatalf("instrument missing")
	}
	n := len(inst.(Sample).data)
	if n < 3300 || n > 5000 {
		t.Fatalf("resampled length %d, want about 4410", n)
	}
}

func TestMonoFromStereo16(t *testing.T) {
	pcm := []byte{
		0x00, 0x40, 0x00, 0x00, // 16384, 0
		0x00, 0x80, 0x00, 0x80, // -32768, -32768
		0x01, // partial frame
	}
	got := monoFromStereo16(pcm)
	if len(got) != 2 || got[0] != 0.25 || got[1] != -1 {
		t.Fatalf("got %v", got)
	}
}
