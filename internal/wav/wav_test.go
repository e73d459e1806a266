package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/cbegin/soundtype-go/internal/pcm"
)

func TestQuantizeAsymmetricTruncation(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32768},
		{2, 32767},
		{-3, -32768},
		{0.5, 16383},  // 16383.5 truncated
		{-0.5, -16384}, // exact
		{0.00002, 0},  // 0.65534 truncated
		{-0.00002, 0}, // -0.65536 truncated toward zero
		{float32(math.NaN()), 0},
	}
	for _, tc := range cases {
		if got := Quantize(tc.in); got != tc.want {
			t.Errorf("Quantize(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEncodeHeader(t *testing.T) {
	b := pcm.NewBuffer(44100, 2, 10)
	out := Encode(b)
	if len(out) != HeaderSize+10*2*2 {
		t.Fatalf("len = %d", len(out))
	}
	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", le.Uint32(out[4:]), 36 + 40},
		{"fmt size", le.Uint32(out[16:]), 16},
		{"format", uint32(le.Uint16(out[20:])), 1},
		{"channels", uint32(le.Uint16(out[22:])), 2},
		{"sample rate", le.Uint32(out[24:]), 44100},
		{"byte rate", le.Uint32(out[28:]), 44100 * 2 * 2},
		{"block align", uint32(le.Uint16(out[32:])), 4},
		{"bits", uint32(le.Uint16(out[34:])), 16},
		{"data size", le.Uint32(out[40:]), 40},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	for _, tag := range []struct {
		off int
		s   string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(out[tag.off : tag.off+4]); got != tag.s {
			t.Errorf("tag at %d = %q, want %q", tag.off, got, tag.s)
		}
	}
}

func TestEncodeLengthScalesWithChannels(t *testing.T) {
	for _, nch := range []int{1, 2, 3} {
		for _, frames := range []int{0, 1, 441, 4410} {
			b := pcm.NewBuffer(22050, nch, frames)
			if got, want := len(Encode(b)), HeaderSize+frames*2*nch; got != want {
				t.Fatalf("%d ch x %d frames: len = %d, want %d", nch, frames, got, want)
			}
		}
	}
}

func TestEncodeSilenceIsZeroData(t *testing.T) {
	out := Encode(pcm.NewBuffer(44100, 2, 4410))
	for i, v := range out[HeaderSize:] {
		if v != 0 {
			t.Fatalf("data byte %d = %d, want 0", i, v)
		}
	}
}

func TestEncodeInterleavesLittleEndian(t *testing.T) {
	b := pcm.NewBuffer(8000, 2, 2)
	copy(b.Channels[0], []float32{1, -1})
	copy(b.Channels[1], []float32{-0.5, 0.5})
	data := Encode(b)[HeaderSize:]
	want := []int16{32767, -16384, -32768, 16383}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(data[i*2:]))
		if got != w {
			t.Fatalf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	const sr = 44100
	b := pcm.NewBuffer(sr, 2, sr/10)
	for i := range b.Channels[0] {
		v := float32(0.8 * math.Sin(2*math.Pi*440*float64(i)/sr))
		b.Channels[0][i] = v
		b.Channels[1][i] = -v
	}
	raw := Encode(b)

	info, err := Inspect(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.AudioFormat != 1 || info.Channels != 2 || info.SampleRate != sr || info.BitDepth != 16 {
		t.Fatalf("info = %+v", info)
	}
	if info.Frames() != int64(b.Frames()) {
		t.Fatalf("frames = %d, want %d", info.Frames(), b.Frames())
	}

	got, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.NumChannels() != 2 || got.Frames() != b.Frames() || got.SampleRate != sr {
		t.Fatalf("decoded shape %d ch x %d frames @ %d", got.NumChannels(), got.Frames(), got.SampleRate)
	}
	for c := range b.Channels {
		for i := range b.Channels[c] {
			if d := math.Abs(float64(got.Channels[c][i] - b.Channels[c][i])); d > 2.0/32767 {
				t.Fatalf("ch%d[%d]: %v vs %v", c, i, got.Channels[c][i], b.Channels[c][i])
			}
		}
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect(bytes.NewReader([]byte("definitely not a wave file, just text")))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}
}
