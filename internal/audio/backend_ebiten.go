package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// Ebiten plays through the process-wide ebiten audio context.
type Ebiten struct {
	// ReadyTimeout bounds how long Open waits for the context to become
	// ready. Zero means one second.
	ReadyTimeout time.Duration
}

func (Ebiten) Name() string { return "ebiten" }

func (b Ebiten) Open(sampleRate int, r io.Reader) (Stream, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	timeout := b.ReadyTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	deadline := time.Now().Add(timeout)
	for !ctx.IsReady() {
		if time.Now().After(deadline) {
			return nil, ErrNotReady
		}
		time.Sleep(10 * time.Millisecond)
	}
	pl, err := ctx.NewPlayerF32(r)
	if err != nil {
		return nil, err
	}
	return &ebitenStream{player: pl}, nil
}

type ebitenStream struct {
	player *ebitaudio.Player
}

func (s *ebitenStream) Play()  { s.player.Play() }
func (s *ebitenStream) Pause() { s.player.Pause() }

func (s *ebitenStream) Close() error {
	s.player.Pause()
	return s.player.Close()
}
