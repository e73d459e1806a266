package sequencer

import (
	"math"

	"github.com/cbegin/soundtype-go/internal/envelope"
	"github.com/cbegin/soundtype-go/internal/notemap"
	"github.com/cbegin/soundtype-go/internal/pcm"
	"github.com/cbegin/soundtype-go/internal/preset"
	"github.com/cbegin/soundtype-go/internal/synth"
)

// Interval is the spacing between successive note starts, in seconds.
const Interval = 0.2

// Layout places one note per character of text, Interval seconds apart.
func Layout(text string, p preset.Preset) []notemap.Note {
	notes := make([]notemap.Note, 0, len(text))
	i := 0
	for _, r := range text {
		notes = append(notes, notemap.Note{
			Char:  r,
			Freq:  notemap.Map(r, p),
			Start: float64(i) * Interval,
		})
		i++
	}
	return notes
}

// TotalDuration is n*Interval plus one envelope length, where n is the
// number of characters in text. Empty text lasts zero seconds.
func TotalDuration(text string, p preset.Preset) float64 {
	return duration(countRunes(text), p)
}

func duration(n int, p preset.Preset) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*Interval + p.Envelope.Duration()
}

// Render synthesizes notes into a new buffer holding the whole melody,
// round(sampleRate*TotalDuration) frames long. The last note ends one
// Interval before the buffer does. Overlapping notes are summed.
func Render(notes []notemap.Note, p preset.Preset, sampleRate, channels int) *pcm.Buffer {
	buf := pcm.NewBuffer(sampleRate, channels, pcm.FramesFor(sampleRate, duration(len(notes), p)))
	if len(notes) == 0 {
		return buf
	}
	curve := envelope.Build(p.Envelope, envelope.PeakGain)
	for _, n := range notes {
		start := int(math.Round(n.Start * float64(sampleRate)))
		buf.AddAt(start, synth.Render(n, p, curve, sampleRate))
	}
	return buf
}

func countRunes(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
