package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cbegin/soundtype-go/internal/envelope"
	"github.com/cbegin/soundtype-go/internal/preset"
	"github.com/cbegin/soundtype-go/internal/synth"
)

// NoteEvent asks the device to sound one note Start from now.
type NoteEvent struct {
	Waveform preset.Waveform
	Freq     float64
	Start    time.Duration
	Curve    envelope.Curve
}

// Output schedules notes on a live device. The device is opened lazily by
// Activate; a failed open is retried on the next Activate.
type Output struct {
	mu         sync.Mutex
	backend    Backend
	sampleRate int
	mixer      *Mixer
	reader     *StreamReader
	stream     Stream
	logger     *slog.Logger
}

func NewOutput(backend Backend, sampleRate int, logger *slog.Logger) *Output {
	if backend == nil {
		backend = Headless{Tick: HeadlessTick}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mixer := NewMixer()
	return &Output{
		backend:    backend,
		sampleRate: sampleRate,
		mixer:      mixer,
		reader:     NewStreamReader(mixer),
		logger:     logger,
	}
}

// Activate opens the device if it is not open yet.
func (o *Output) Activate() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream != nil {
		return nil
	}
	stream, err := o.backend.Open(o.sampleRate, o.reader)
	if err != nil {
		o.logger.Debug("audio backend open failed", "backend", o.backend.Name(), "err", err)
		return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, o.backend.Name(), err)
	}
	stream.Play()
	o.stream = stream
	o.logger.Debug("audio backend opened", "backend", o.backend.Name(), "sampleRate", o.sampleRate)
	return nil
}

func (o *Output) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stream != nil
}

func (o *Output) ScheduleNote(ev NoteEvent) error {
	o.mu.Lock()
	active := o.stream != nil
	o.mu.Unlock()
	if !active {
		return ErrDeviceUnavailable
	}
	v := synth.NewVoice(ev.Waveform, ev.Freq, ev.Curve, o.sampleRate)
	delay := int(math.Round(ev.Start.Seconds() * float64(o.sampleRate)))
	o.mixer.Schedule(v, delay)
	return nil
}

// Mixer exposes the voice mixer feeding the device.
func (o *Output) Mixer() *Mixer { return o.mixer }

// Close stops the device. A later Activate reopens it.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return nil
	}
	err := o.stream.Close()
	o.stream = nil
	return err
}
