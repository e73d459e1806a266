package soundtype

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	intaudio "github.com/cbegin/soundtype-go/internal/audio"
	"github.com/cbegin/soundtype-go/internal/envelope"
	"github.com/cbegin/soundtype-go/internal/notemap"
	"github.com/cbegin/soundtype-go/internal/pcm"
	"github.com/cbegin/soundtype-go/internal/preset"
	"github.com/cbegin/soundtype-go/internal/sequencer"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultFilename   = "soundtype-melody.wav"

	// dispatchTick is the resolution of the live scheduler loop.
	dispatchTick = 5 * time.Millisecond
)

type (
	Note      = notemap.Note
	Preset    = preset.Preset
	Catalog   = preset.Catalog
	Buffer    = pcm.Buffer
	NoteEvent = intaudio.NoteEvent
	Backend   = intaudio.Backend
)

var (
	ErrUnknownPreset          = preset.ErrUnknownPreset
	ErrAudioDeviceUnavailable = intaudio.ErrDeviceUnavailable
)

// NewCatalog builds a read-only preset table.
func NewCatalog(presets ...Preset) (*Catalog, error) {
	return preset.NewCatalog(presets...)
}

// DefaultCatalog returns the built-in instrument presets.
func DefaultCatalog() *Catalog {
	return preset.Default()
}

// NoteOutput is the live playback capability the engine drives. Activate is
// called on every user-initiated play and may fail until a device exists.
type NoteOutput interface {
	Activate() error
	ScheduleNote(ev NoteEvent) error
}

type EngineOption func(*engineConfig)

type engineConfig struct {
	catalog    *preset.Catalog
	sampleRate int
	channels   int
	output     NoteOutput
	backend    intaudio.Backend
	logger     *slog.Logger
	keyRate    rate.Limit
	keyBurst   int
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		backend:    intaudio.Ebiten{},
		keyRate:    50,
		keyBurst:   8,
	}
}

func WithCatalog(c *Catalog) EngineOption {
	return func(cfg *engineConfig) {
		cfg.catalog = c
	}
}

func WithSampleRate(sampleRate int) EngineOption {
	return func(cfg *engineConfig) {
		cfg.sampleRate = sampleRate
	}
}

// WithChannels sets the channel count of rendered buffers and WAV files.
func WithChannels(channels int) EngineOption {
	return func(cfg *engineConfig) {
		cfg.channels = channels
	}
}

// WithOutput replaces the live output. The engine does not close it.
func WithOutput(out NoteOutput) EngineOption {
	return func(cfg *engineConfig) {
		cfg.output = out
	}
}

// WithBackend selects the device used by the default live output.
func WithBackend(b Backend) EngineOption {
	return func(cfg *engineConfig) {
		cfg.backend = b
	}
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(cfg *engineConfig) {
		cfg.logger = l
	}
}

// WithKeyRate limits PlayKey to limit notes per second with the given burst.
func WithKeyRate(limit rate.Limit, burst int) EngineOption {
	return func(cfg *engineConfig) {
		cfg.keyRate = limit
		cfg.keyBurst = burst
	}
}

// Engine turns text into melodies, either live or as WAV data.
type Engine struct {
	catalog    *preset.Catalog
	sampleRate int
	channels   int
	output     NoteOutput
	ownOutput  *intaudio.Output
	logger     *slog.Logger
	keys       *rate.Limiter
	sched      *sequencer.Scheduler

	mu      sync.Mutex
	playing bool
	current preset.Preset
	curve   envelope.Curve
	done    chan struct{}
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if cfg.channels <= 0 || cfg.channels > 0xFFFF {
		return nil, errors.New("channels must be between 1 and 65535")
	}
	if cfg.catalog == nil {
		cfg.catalog = preset.Default()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		catalog:    cfg.catalog,
		sampleRate: cfg.sampleRate,
		channels:   cfg.channels,
		output:     cfg.output,
		logger:     cfg.logger,
		keys:       rate.NewLimiter(cfg.keyRate, cfg.keyBurst),
		sched:      sequencer.NewScheduler(),
	}
	if e.output == nil {
		e.ownOutput = intaudio.NewOutput(cfg.backend, cfg.sampleRate, cfg.logger)
		e.output = e.ownOutput
	}
	return e, nil
}

func (e *Engine) SampleRate() int { return e.sampleRate }
func (e *Engine) Channels() int   { return e.channels }

// Presets lists the catalog in display order.
func (e *Engine) Presets() []Preset {
	return e.catalog.All()
}

func (e *Engine) Preset(id string) (Preset, error) {
	return e.catalog.Get(id)
}

// Layout places the notes of text on the timeline for presetID.
func (e *Engine) Layout(text, presetID string) ([]Note, error) {
	p, err := e.catalog.Get(presetID)
	if err != nil {
		return nil, err
	}
	return sequencer.Layout(text, p), nil
}

// Duration returns the melody length of text: one slot per character plus
// the envelope of the last note.
func (e *Engine) Duration(text, presetID string) (time.Duration, error) {
	p, err := e.catalog.Get(presetID)
	if err != nil {
		return 0, err
	}
	return time.Duration(sequencer.TotalDuration(text, p) * float64(time.Second)), nil
}

// PlayText schedules text for live playback. It is a no-op when text is
// empty, a sequence is already playing, or no audio device is available.
func (e *Engine) PlayText(text, presetID string) error {
	p, err := e.catalog.Get(presetID)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	// Activate may wait on the device, so it runs outside e.mu.
	if err := e.output.Activate(); err != nil {
		e.logger.Info("live playback unavailable", "err", err)
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.logger.Debug("sequence already playing", "preset", p.ID)
		return nil
	}
	notes := sequencer.Layout(text, p)
	e.playing = true
	e.current = p
	e.curve = envelope.Build(p.Envelope, envelope.PeakGain)
	e.done = make(chan struct{})
	e.sched.Schedule(time.Now(), notes)
	e.logger.Debug("sequence scheduled", "preset", p.ID, "notes", len(notes))
	go e.run(e.done)
	return nil
}

// PlayKey sounds one note for r right away. Keys arriving faster than the
// configured key rate are dropped.
func (e *Engine) PlayKey(r rune, presetID string) error {
	p, err := e.catalog.Get(presetID)
	if err != nil {
		return err
	}
	if !e.keys.Allow() {
		e.logger.Debug("key dropped by rate limit", "char", string(r))
		return nil
	}
	if err := e.output.Activate(); err != nil {
		e.logger.Info("live playback unavailable", "err", err)
		return nil
	}
	e.emit(p, envelope.Build(p.Envelope, envelope.PeakGain), notemap.Note{Char: r, Freq: notemap.Map(r, p)})
	return nil
}

func (e *Engine) run(done chan struct{}) {
	ticker := time.NewTicker(dispatchTick)
	defer ticker.Stop()
	for {
		e.mu.Lock()
		if e.done != done {
			e.mu.Unlock()
			return
		}
		p, curve := e.current, e.curve
		due := e.sched.Drain(time.Now())
		e.mu.Unlock()

		for _, ev := range due {
			e.emit(p, curve, ev.Note)
		}
		if e.sched.Pending() == 0 {
			e.finish(done)
			return
		}
		<-ticker.C
	}
}

func (e *Engine) emit(p preset.Preset, curve envelope.Curve, n notemap.Note) {
	err := e.output.ScheduleNote(NoteEvent{
		Waveform: p.Waveform,
		Freq:     n.Freq,
		Curve:    curve,
	})
	if err != nil {
		e.logger.Debug("note dropped", "char", string(n.Char), "err", err)
	}
}

func (e *Engine) finish(done chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done != done {
		return
	}
	e.playing = false
	e.done = nil
	close(done)
}

// Stop cancels notes that have not fired yet. Notes already sounding decay
// on their own.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.sched.Cancel()
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	if e.playing {
		e.logger.Debug("sequence stopped", "cancelled", n)
	}
	e.playing = false
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Wait blocks until the current sequence has dispatched its last note or
// was stopped. It returns immediately when nothing is playing.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops playback and releases the default live output.
func (e *Engine) Close() error {
	e.Stop()
	if e.ownOutput != nil {
		return e.ownOutput.Close()
	}
	return nil
}
