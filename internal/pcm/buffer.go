// Package pcm holds planar float sample buffers.
package pcm

import "math"

// Buffer stores one float32 slice per channel at a fixed sample rate. It has
// a single owner; nothing in it is synchronized.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

func NewBuffer(sampleRate, channels, frames int) *Buffer {
	if channels < 1 {
		channels = 1
	}
	if frames < 0 {
		frames = 0
	}
	b := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for i := range b.Channels {
		b.Channels[i] = make([]float32, frames)
	}
	return b
}

// FramesFor returns round(sampleRate * seconds).
func FramesFor(sampleRate int, seconds float64) int {
	n := int(math.Round(float64(sampleRate) * seconds))
	if n < 0 {
		return 0
	}
	return n
}

func (b *Buffer) NumChannels() int { return len(b.Channels) }

func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Seconds is the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// AddAt sums mono into every channel starting at frame. Samples falling
// outside the buffer are dropped.
func (b *Buffer) AddAt(frame int, mono []float32) {
	frames := b.Frames()
	for i, s := range mono {
		j := frame + i
		if j < 0 {
			continue
		}
		if j >= frames {
			break
		}
		for _, ch := range b.Channels {
			ch[j] += s
		}
	}
}

// Interleaved returns the samples frame by frame: L0 R0 L1 R1 ...
func (b *Buffer) Interleaved() []float32 {
	nch := b.NumChannels()
	frames := b.Frames()
	out := make([]float32, frames*nch)
	for c, ch := range b.Channels {
		for i, s := range ch {
			out[i*nch+c] = s
		}
	}
	return out
}
