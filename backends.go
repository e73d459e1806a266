package soundtype

import (
	"fmt"
	"strings"

	intaudio "github.com/cbegin/soundtype-go/internal/audio"
)

// EbitenBackend plays through the ebiten audio context. It is the default.
func EbitenBackend() Backend { return intaudio.Ebiten{} }

// OtoBackend plays through an oto context directly. Do not mix it with the
// ebiten backend in one process; both claim the same device driver.
func OtoBackend() Backend { return intaudio.Oto{} }

// HeadlessBackend accepts notes without any device, consuming them in real
// time as a sound card would.
func HeadlessBackend() Backend { return intaudio.Headless{Tick: intaudio.HeadlessTick} }

func BackendByName(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ebiten":
		return EbitenBackend(), nil
	case "oto":
		return OtoBackend(), nil
	case "headless", "none":
		return HeadlessBackend(), nil
	default:
		return nil, fmt.Errorf("invalid backend %q (expected ebiten|oto|headless)", name)
	}
}
