package soundtype

import (
	"github.com/cbegin/soundtype-go/internal/sequencer"
	"github.com/cbegin/soundtype-go/internal/wav"
)

// Render synthesizes text offline into a buffer as long as the melody: one
// slot per character plus the envelope of the last note.
func (e *Engine) Render(text, presetID string) (*Buffer, error) {
	p, err := e.catalog.Get(presetID)
	if err != nil {
		return nil, err
	}
	notes := sequencer.Layout(text, p)
	buf := sequencer.Render(notes, p, e.sampleRate, e.channels)
	e.logger.Debug("rendered melody",
		"preset", p.ID,
		"notes", len(notes),
		"frames", buf.Frames(),
		"channels", buf.NumChannels(),
	)
	return buf, nil
}

// RenderWAV renders text and encodes it as 16-bit PCM WAV. Empty text
// produces no file: the result is nil with a nil error.
func (e *Engine) RenderWAV(text, presetID string) ([]byte, error) {
	if _, err := e.catalog.Get(presetID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	buf, err := e.Render(text, presetID)
	if err != nil {
		return nil, err
	}
	return EncodeWAV(buf), nil
}

// EncodeWAV serializes buf as a canonical RIFF/WAVE file.
func EncodeWAV(buf *Buffer) []byte {
	return wav.Encode(buf)
}
