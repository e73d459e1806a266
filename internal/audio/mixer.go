package audio

import (
	"sync"

	"github.com/cbegin/soundtype-go/internal/synth"
)

type scheduledVoice struct {
	start int64
	v     *synth.Voice
}

// Mixer sums scheduled voices into a stereo stream. Voices run until their
// envelope ends; nothing cuts them short.
type Mixer struct {
	mu     sync.Mutex
	voices []scheduledVoice
	pos    int64
}

func NewMixer() *Mixer {
	return &Mixer{}
}

// Schedule starts v after delayFrames frames of the stream have elapsed.
func (m *Mixer) Schedule(v *synth.Voice, delayFrames int) {
	if delayFrames < 0 {
		delayFrames = 0
	}
	m.mu.Lock()
	m.voices = append(m.voices, scheduledVoice{start: m.pos + int64(delayFrames), v: v})
	m.mu.Unlock()
}

// Process fills dst with interleaved stereo frames.
func (m *Mixer) Process(dst []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames := len(dst) / Channels
	for i := 0; i < frames; i++ {
		var sum float32
		live := m.voices[:0]
		for _, sv := range m.voices {
			if m.pos < sv.start {
				live = append(live, sv)
				continue
			}
			s, done := sv.v.Next()
			sum += s
			if !done {
				live = append(live, sv)
			}
		}
		m.voices = live
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		for c := 0; c < Channels; c++ {
			dst[i*Channels+c] = sum
		}
		m.pos++
	}
}

// Active returns the number of voices still waiting or sounding.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Position is the number of frames produced so far.
func (m *Mixer) Position() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}
