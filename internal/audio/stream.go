package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// Channels is the channel count of every live stream.
const Channels = 2

type SampleSource interface {
	Process(dst []float32)
}

// StreamReader adapts a SampleSource to the io.Reader pulled by audio
// devices, emitting interleaved stereo float32 little-endian frames.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	const frameBytes = Channels * 4
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	need := frames * Channels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return frames * frameBytes, nil
}

func (r *StreamReader) Close() error { return nil }
