// Package wav writes and reads canonical 44-byte-header PCM WAVE files.
package wav

import (
	"encoding/binary"
	"math"

	"github.com/cbegin/soundtype-go/internal/pcm"
)

const (
	HeaderSize    = 44
	BitsPerSample = 16
	formatPCM     = 1
)

// Quantize converts s to 16-bit PCM. Negative values scale by 32768 and the
// rest by 32767, truncating toward zero.
func Quantize(s float32) int16 {
	v := float64(s)
	switch {
	case math.IsNaN(v):
		v = 0
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

// Encode serializes b as RIFF/WAVE with interleaved little-endian 16-bit
// samples in a single data chunk.
func Encode(b *pcm.Buffer) []byte {
	channels := b.NumChannels()
	frames := b.Frames()
	blockAlign := channels * BitsPerSample / 8
	dataSize := frames * blockAlign
	byteRate := b.SampleRate * blockAlign

	out := make([]byte, HeaderSize+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], formatPCM)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(b.SampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], BitsPerSample)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))

	off := HeaderSize
	for i := 0; i < frames; i++ {
		for _, ch := range b.Channels {
			binary.LittleEndian.PutUint16(out[off:], uint16(Quantize(ch[i])))
			off += 2
		}
	}
	return out
}
