package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// DecodeBase64 returns the bytes represented by a standard base64 payload.
// Characters outside the standard alphabet and malformed padding are
// rejected with ErrDecode.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecode, err)
	}
	return data, nil
}

// DecodePCM16 interprets raw as interleaved 16-bit signed little-endian PCM
// with the given rate and channel count. Each sample s becomes s/32768.
func DecodePCM16(raw []byte, sampleRate, channels int) (*Waveform, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", ErrDecode, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: invalid channel count %d", ErrDecode, channels)
	}
	frameSize := 2 * channels
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of frame size %d", ErrDecode, len(raw), frameSize)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768
	}
	return &Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}

// Downmix averages interleaved channels into a mono waveform.
func Downmix(w *Waveform) *Waveform {
	if w.Channels <= 1 {
		return w
	}
	frames := w.Frames()
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < w.Channels; c++ {
			sum += w.Samples[i*w.Channels+c]
		}
		out[i] = sum / float32(w.Channels)
	}
	return &Waveform{
		Samples:    out,
		SampleRate: w.SampleRate,
		Channels:   1,
	}
}
