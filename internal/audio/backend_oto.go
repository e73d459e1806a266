package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoMu         sync.Mutex
	otoContext    *oto.Context
	otoSampleRate int
)

// oto allows one context per process. A failed attempt leaves none behind,
// so the next call tries again.
func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoContext != nil {
		if otoSampleRate != sampleRate {
			return nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, sampleRate)
		}
		return otoContext, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	otoContext = ctx
	otoSampleRate = sampleRate
	return ctx, nil
}

// Oto plays directly through an oto context.
type Oto struct{}

func (Oto) Name() string { return "oto" }

func (Oto) Open(sampleRate int, r io.Reader) (Stream, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &otoStream{player: ctx.NewPlayer(r)}, nil
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Play()  { s.player.Play() }
func (s *otoStream) Pause() { s.player.Pause() }

func (s *otoStream) Close() error {
	s.player.Pause()
	return s.player.Close()
}
