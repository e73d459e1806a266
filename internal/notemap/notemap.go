// Package notemap turns characters into pitches.
package notemap

import "github.com/cbegin/soundtype-go/internal/preset"

// Steps is the number of pitch steps above the base frequency.
const Steps = 12

// Note is one character placed on the timeline.
type Note struct {
	Char  rune
	Freq  float64 // Hz
	Start float64 // seconds from sequence start
}

// Frequency maps r onto one of Steps pitches in [base, base*23/12].
func Frequency(r rune, base float64) float64 {
	step := uint32(r) % Steps
	return base * (1 + float64(step)/Steps)
}

func Map(r rune, p preset.Preset) float64 {
	return Frequency(r, p.BaseFreq)
}
