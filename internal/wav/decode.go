package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/cbegin/soundtype-go/internal/pcm"
)

var ErrInvalidFile = errors.New("wav: invalid file")

// Info describes the format chunk and data length of a WAVE file.
type Info struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
	DataBytes   int64
}

// Frames is the number of sample frames in the data chunk.
func (i Info) Frames() int64 {
	block := int64(i.Channels * i.BitDepth / 8)
	if block == 0 {
		return 0
	}
	return i.DataBytes / block
}

func Inspect(r io.ReadSeeker) (Info, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		return Info{}, ErrInvalidFile
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("wav: seek to data chunk: %w", err)
	}
	return Info{
		AudioFormat: int(d.WavAudioFormat),
		Channels:    int(d.NumChans),
		SampleRate:  int(d.SampleRate),
		BitDepth:    int(d.BitDepth),
		DataBytes:   d.PCMLen(),
	}, nil
}

// Decode reads a 16-bit PCM file back into a planar float buffer, inverting
// the scaling used by Quantize.
func Decode(r io.ReadSeeker) (*pcm.Buffer, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if d.BitDepth != BitsPerSample {
		return nil, fmt.Errorf("wav: unsupported bit depth %d", d.BitDepth)
	}
	ib, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: decode pcm: %w", err)
	}
	if ib.Format == nil || ib.Format.NumChannels < 1 {
		return nil, ErrInvalidFile
	}
	return fromIntBuffer(ib), nil
}

func fromIntBuffer(ib *audio.IntBuffer) *pcm.Buffer {
	nch := ib.Format.NumChannels
	frames := len(ib.Data) / nch
	b := pcm.NewBuffer(ib.Format.SampleRate, nch, frames)
	for i := 0; i < frames; i++ {
		for c := 0; c < nch; c++ {
			v := ib.Data[i*nch+c]
			if v < 0 {
				b.Channels[c][i] = float32(float64(v) / 32768)
			} else {
				b.Channels[c][i] = float32(float64(v) / 32767)
			}
		}
	}
	return b
}
