package audio

import (
	"errors"
	"testing"
)

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "empty", input: "", want: []byte{}},
		{name: "padded", input: "QQ==", want: []byte("A")},
		{name: "unpadded block", input: "aGVsbG8h", want: []byte("hello!")},
		{name: "pcm bytes", input: "AIAAAP9/", want: []byte{0x00, 0x80, 0x00, 0x00, 0xff, 0x7f}},
		{name: "invalid alphabet", input: "@@@@", wantErr: true},
		{name: "url alphabet", input: "-_-_", wantErr: true},
		{name: "missing padding", input: "QQ=", wantErr: true},
		{name: "padding in the middle", input: "QQ==QQ==", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeBase64(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("DecodeBase64(%q) error = %v; want ErrDecode", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBase64(%q) error: %v", tc.input, err)
			}
			if string(got) != string(tc.want) {
				t.Errorf("DecodeBase64(%q) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestDecodePCM16(t *testing.T) {
	raw := []byte{
		0x00, 0x80, // -32768
		0x00, 0x00, // 0
		0xff, 0x7f, // 32767
		0x00, 0x40, // 16384
	}
	w, err := DecodePCM16(raw, SpeechSampleRate, SpeechChannels)
	if err != nil {
		t.Fatalf("DecodePCM16 error: %v", err)
	}
	want := []float32{-1, 0, 32767.0 / 32768, 0.5}
	if len(w.Samples) != len(want) {
		t.Fatalf("len(Samples) = %d; want %d", len(w.Samples), len(want))
	}
	for i := range want {
		if w.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %v; want %v", i, w.Samples[i], want[i])
		}
		if w.Samples[i] < -1 || w.Samples[i] > 1 {
			t.Errorf("Samples[%d] = %v out of range", i, w.Samples[i])
		}
	}
	if w.SampleRate != 24000 || w.Channels != 1 {
		t.Errorf("format = %d Hz / %d ch; want 24000 Hz / 1 ch", w.SampleRate, w.Channels)
	}
	if w.Frames() != 4 {
		t.Errorf("Frames() = %d; want 4", w.Frames())
	}
}

func TestDecodePCM16_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		rate     int
		channels int
	}{
		{name: "odd byte count", raw: []byte{0x01, 0x02, 0x03}, rate: 24000, channels: 1},
		{name: "partial stereo frame", raw: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, rate: 24000, channels: 2},
		{name: "zero rate", raw: []byte{0x00, 0x00}, rate: 0, channels: 1},
		{name: "zero channels", raw: []byte{0x00, 0x00}, rate: 24000, channels: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePCM16(tc.raw, tc.rate, tc.channels)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("DecodePCM16 error = %v; want ErrDecode", err)
			}
		})
	}
}

func TestDecodePCM16_Empty(t *testing.T) {
	w, err := DecodePCM16(nil, SpeechSampleRate, SpeechChannels)
	if err != nil {
		t.Fatalf("DecodePCM16 error: %v", err)
	}
	if len(w.Samples) != 0 {
		t.Errorf("len(Samples) = %d; want 0", len(w.Samples))
	}
	if w.Duration() != 0 {
		t.Errorf("Duration() = %v; want 0", w.Duration())
	}
}

func TestDownmix(t *testing.T) {
	w := &Waveform{
		Samples:    []float32{1, 0, -0.5, -0.5, 0.25, 0.75},
		SampleRate: 44100,
		Channels:   2,
	}
	got := Downmix(w)
	want := []float32{0.5, -0.5, 0.5}
	if got.Channels != 1 || got.SampleRate != 44100 {
		t.Fatalf("Downmix format = %d ch / %d Hz", got.Channels, got.SampleRate)
	}
	for i := range want {
		if got.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %v; want %v", i, got.Samples[i], want[i])
		}
	}
}

func TestDecodeMP3_Invalid(t *testing.T) {
	_, err := DecodeMP3([]byte("definitely not an mpeg stream"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeMP3 error = %v; want ErrDecode", err)
	}
}

// silentMP3 builds n silent MPEG-1 Layer III frames: 44100 Hz, 128 kbps,
// mono, no CRC. An all-zero side info and main data decode to silence.
func silentMP3(n int) []byte {
	const frameSize = 144 * 128000 / 44100
	header := []byte{0xff, 0xfb, 0x90, 0xc4}
	out := make([]byte, 0, n*frameSize)
	for i := 0; i < n; i++ {
		frame := make([]byte, frameSize)
		copy(frame, header)
		out = append(out, frame...)
	}
	return out
}

func TestDecodeMP3(t *testing.T) {
	w, err := DecodeMP3(silentMP3(10))
	if err != nil {
		t.Fatalf("DecodeMP3 error: %v", err)
	}
	if w.SampleRate != 44100 || w.Channels != 1 {
		t.Errorf("format = %d Hz / %d ch; want 44100 Hz mono", w.SampleRate, w.Channels)
	}
	if w.Frames() == 0 || w.Frames()%1152 != 0 {
		t.Errorf("Frames() = %d; want a non-zero multiple of 1152", w.Frames())
	}
	for i, s := range w.Samples {
		if s != 0 {
			t.Fatalf("Samples[%d] = %v; want silence", i, s)
		}
	}
}
