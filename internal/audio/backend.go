package audio

import (
	"errors"
	"io"
	"math"
	"sync"
	"time"
)

// ErrDeviceUnavailable reports that no audio device could be opened.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// ErrNotReady is returned by backends whose device exists but has not been
// allowed to start yet.
var ErrNotReady = errors.New("audio device not ready")

// Stream is a running playback handle pulling from a reader.
type Stream interface {
	Play()
	Pause()
	Close() error
}

// Backend opens a stereo float32 stream on some audio device.
type Backend interface {
	Name() string
	Open(sampleRate int, r io.Reader) (Stream, error)
}

// HeadlessTick is the default pull interval of a headless stream standing
// in for a device.
const HeadlessTick = 10 * time.Millisecond

// Headless is a Backend without a device.
type Headless struct {
	// Tick is how often an opened stream pulls one tick of audio from its
	// reader while playing, standing in for a device clock. Zero leaves
	// pulling to the caller.
	Tick time.Duration
}

func (Headless) Name() string { return "headless" }

func (h Headless) Open(sampleRate int, r io.Reader) (Stream, error) {
	s := &headlessStream{stop: make(chan struct{})}
	if h.Tick > 0 {
		go s.pull(r, sampleRate, h.Tick)
	}
	return s, nil
}

type headlessStream struct {
	mu      sync.Mutex
	playing bool
	stop    chan struct{}
	once    sync.Once
}

func (s *headlessStream) pull(r io.Reader, sampleRate int, tick time.Duration) {
	frames := max(1, int(math.Round(float64(sampleRate)*tick.Seconds())))
	buf := make([]byte, frames*Channels*4)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		s.mu.Lock()
		var err error
		if s.playing {
			_, err = r.Read(buf)
		}
		s.mu.Unlock()
		if err != nil {
			return
		}
	}
}

func (s *headlessStream) Play() {
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
}

func (s *headlessStream) Pause() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

func (s *headlessStream) Close() error {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
	s.once.Do(func() { close(s.stop) })
	return nil
}
