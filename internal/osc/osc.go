// Package osc evaluates naive (non band-limited) oscillator waveforms.
package osc

import (
	"math"

	"github.com/cbegin/soundtype-go/internal/preset"
)

const twoPi = math.Pi * 2

// At returns the value of waveform w at frequency freq, t seconds after the
// oscillator started. All shapes start at zero phase and rise first.
func At(w preset.Waveform, freq, t float64) float64 {
	switch w {
	case preset.Sine:
		return math.Sin(twoPi * freq * t)
	case preset.Square:
		s := math.Sin(twoPi * freq * t)
		switch {
		case s > 0:
			return 1
		case s < 0:
			return -1
		}
		return 0
	case preset.Triangle:
		return triangle(phase(freq * t))
	case preset.Sawtooth:
		// Rises from 0 to 1 over the first half cycle, wraps to -1.
		return 2*phase(freq*t+0.5) - 1
	default:
		return 0
	}
}

// phase returns the fractional cycle position in [0, 1).
func phase(cycles float64) float64 {
	p := cycles - math.Floor(cycles)
	if p >= 1 {
		p = 0
	}
	return p
}

// triangle: 0 at phase 0, +1 at 0.25, 0 at 0.5, -1 at 0.75.
func triangle(p float64) float64 {
	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	default:
		return 4*p - 4
	}
}
