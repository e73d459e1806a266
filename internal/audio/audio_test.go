package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/cbegin/soundtype-go/internal/envelope"
	"github.com/cbegin/soundtype-go/internal/preset"
	"github.com/cbegin/soundtype-go/internal/synth"
)

var testCurve = envelope.Build(preset.Envelope{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.01}, envelope.PeakGain)

type constSource float32

func (c constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = float32(c)
	}
}

func TestStreamReaderEncodesFloat32Frames(t *testing.T) {
	r := NewStreamReader(constSource(0.25))
	p := make([]byte, 8*3+5) // trailing partial frame is left unwritten
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 24 {
		t.Fatalf("n = %d, want 24", n)
	}
	for i := 0; i < 6; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if v != 0.25 {
			t.Fatalf("sample %d = %v", i, v)
		}
	}
	if n, _ := r.Read(make([]byte, 7)); n != 0 {
		t.Fatalf("short read n = %d, want 0", n)
	}
}

func TestMixerDelaysAndSumsVoices(t *testing.T) {
	const sr = 1000
	m := NewMixer()
	a := synth.NewVoice(preset.Square, 50, testCurve, sr)
	b := synth.NewVoice(preset.Square, 50, testCurve, sr)
	ref := synth.NewVoice(preset.Square, 50, testCurve, sr)
	m.Schedule(a, 0)
	m.Schedule(b, 10)

	var want []float32
	for {
		s, done := ref.Next()
		want = append(want, s)
		if done {
			break
		}
	}
	buf := make([]float32, 60*Channels)
	m.Process(buf)
	for i := 0; i < 60; i++ {
		var exp float32
		if i < len(want) {
			exp += want[i]
		}
		if j := i - 10; j >= 0 && j < len(want) {
			exp += want[j]
		}
		if exp > 1 {
			exp = 1
		} else if exp < -1 {
			exp = -1
		}
		if buf[i*2] != exp || buf[i*2+1] != exp {
			t.Fatalf("frame %d = (%v,%v), want %v", i, buf[i*2], buf[i*2+1], exp)
		}
	}
	if m.Active() != 0 {
		t.Fatalf("voices should have finished, %d active", m.Active())
	}
	if m.Position() != 60 {
		t.Fatalf("position = %d", m.Position())
	}
}

func TestMixerSilentWhenIdle(t *testing.T) {
	m := NewMixer()
	buf := []float32{1, 1, 1, 1}
	m.Process(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0", i, s)
		}
	}
}

type flakyBackend struct {
	failures int
	opens    int
	reader   io.Reader
}

func (b *flakyBackend) Name() string { return "flaky" }

func (b *flakyBackend) Open(sampleRate int, r io.Reader) (Stream, error) {
	b.opens++
	if b.failures > 0 {
		b.failures--
		return nil, errors.New("no device")
	}
	b.reader = r
	return Headless{}.Open(sampleRate, r)
}

func TestOutputRetriesActivationLazily(t *testing.T) {
	be := &flakyBackend{failures: 1}
	out := NewOutput(be, 8000, nil)

	ev := NoteEvent{Waveform: preset.Sine, Freq: 440, Curve: testCurve}
	if err := out.ScheduleNote(ev); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("schedule before activate: err = %v", err)
	}
	if err := out.Activate(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("first activate: err = %v, want ErrDeviceUnavailable", err)
	}
	if out.Active() {
		t.Fatal("output should not be active after failed open")
	}
	if err := out.Activate(); err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if err := out.Activate(); err != nil {
		t.Fatalf("third activate: %v", err)
	}
	if be.opens != 2 {
		t.Fatalf("opens = %d, want 2", be.opens)
	}
	if err := out.ScheduleNote(ev); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if out.Mixer().Active() != 1 {
		t.Fatalf("mixer voices = %d", out.Mixer().Active())
	}

	// The device pulls through the reader handed to Open.
	p := make([]byte, 8*400)
	if _, err := be.reader.Read(p); err != nil {
		t.Fatalf("read: %v", err)
	}
	var energy float64
	for i := 0; i < 800; i++ {
		energy += math.Abs(float64(math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))))
	}
	if energy == 0 {
		t.Fatal("expected non-zero audio energy")
	}
}

func TestOutputScheduleDelay(t *testing.T) {
	out := NewOutput(Headless{}, 1000, nil)
	if err := out.Activate(); err != nil {
		t.Fatal(err)
	}
	if err := out.ScheduleNote(NoteEvent{Waveform: preset.Square, Freq: 100, Start: 50 * time.Millisecond, Curve: testCurve}); err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, 50*Channels)
	out.Mixer().Process(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d = %v before note start", i, s)
		}
	}
	buf = make([]float32, 30*Channels)
	out.Mixer().Process(buf)
	var energy float64
	for _, s := range buf {
		energy += math.Abs(float64(s))
	}
	if energy == 0 {
		t.Fatal("expected note after delay")
	}
}

func TestOutputCloseAllowsReopen(t *testing.T) {
	be := &flakyBackend{}
	out := NewOutput(be, 8000, nil)
	if err := out.Activate(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Activate(); err != nil {
		t.Fatal(err)
	}
	if be.opens != 2 {
		t.Fatalf("opens = %d, want 2", be.opens)
	}
}

func TestHeadlessTickDrainsMixer(t *testing.T) {
	out := NewOutput(Headless{Tick: time.Millisecond}, 1000, nil)
	if err := out.Activate(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if err := out.ScheduleNote(NoteEvent{Waveform: preset.Sine, Freq: 440, Curve: testCurve}); err != nil {
			t.Fatal(err)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for out.Mixer().Active() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("voices left = %d", out.Mixer().Active())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	pos := out.Mixer().Position()
	time.Sleep(20 * time.Millisecond)
	if got := out.Mixer().Position(); got != pos {
		t.Fatalf("position moved after close: %d -> %d", pos, got)
	}
}
