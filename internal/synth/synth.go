package synth

import (
	"math"

	"github.com/cbegin/soundtype-go/internal/envelope"
	"github.com/cbegin/soundtype-go/internal/notemap"
	"github.com/cbegin/soundtype-go/internal/osc"
	"github.com/cbegin/soundtype-go/internal/preset"
)

// Voice produces the samples of one note, one at a time. It is not safe for
// concurrent use.
type Voice struct {
	wave       preset.Waveform
	freq       float64
	curve      envelope.Curve
	sampleRate float64
	frames     int
	pos        int
}

func NewVoice(wave preset.Waveform, freq float64, curve envelope.Curve, sampleRate int) *Voice {
	return &Voice{
		wave:       wave,
		freq:       freq,
		curve:      curve,
		sampleRate: float64(sampleRate),
		frames:     Frames(curve.Duration(), sampleRate),
	}
}

// Frames is the sample count of a note lasting seconds.
func Frames(seconds float64, sampleRate int) int {
	n := int(math.Round(seconds * float64(sampleRate)))
	if n < 0 {
		return 0
	}
	return n
}

// Len is the total number of samples the voice produces.
func (v *Voice) Len() int { return v.frames }

func (v *Voice) Done() bool { return v.pos >= v.frames }

// Next returns the next sample and whether the voice has finished.
func (v *Voice) Next() (float32, bool) {
	if v.pos >= v.frames {
		return 0, true
	}
	s := v.sampleAt(v.pos)
	v.pos++
	return s, v.pos >= v.frames
}

func (v *Voice) sampleAt(i int) float32 {
	t := float64(i) / v.sampleRate
	s := osc.At(v.wave, v.freq, t) * v.curve.Gain(t)
	return float32(clamp(s, -1, 1))
}

// Render synthesizes note n with preset p shaped by curve.
func Render(n notemap.Note, p preset.Preset, curve envelope.Curve, sampleRate int) []float32 {
	v := NewVoice(p.Waveform, n.Freq, curve, sampleRate)
	out := make([]float32, v.Len())
	for i := range out {
		out[i] = v.sampleAt(i)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
