// Package audio turns encoded speech payloads into normalized waveforms.
//
// Decoding happens in two steps. DecodeBase64 turns the textual payload
// returned by a speech synthesizer into raw bytes, and DecodePCM16 interprets
// those bytes as 16-bit little-endian linear PCM. The sample rate and channel
// count are supplied by the caller; they are a property of the upstream model
// and are never sniffed from the data.
//
// A Context bundles both steps behind a single acquire/release lifecycle:
//
//	actx := audio.NewContext(audio.Options{})
//	defer actx.Close()
//	w, err := actx.Decode(ctx, payload, audio.PCM24K)
package audio

import (
	"errors"
	"time"
)

const (
	// SpeechSampleRate is the rate every supported synthesizer emits.
	SpeechSampleRate = 24000
	// SpeechChannels is the channel count every supported synthesizer emits.
	SpeechChannels = 1
)

var (
	// ErrDecode reports a malformed payload: bad base64, misaligned PCM or
	// an oversized input.
	ErrDecode = errors.New("audio: decode error")
	// ErrClosed is returned when a Context is used after Close.
	ErrClosed = errors.New("audio: context closed")
)

// Waveform is a decoded, normalized audio signal. Samples are interleaved
// when Channels > 1 and lie in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of samples per channel.
func (w *Waveform) Frames() int {
	if w.Channels <= 0 {
		return 0
	}
	return len(w.Samples) / w.Channels
}

// Duration returns the playback length of the waveform.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(w.Frames()) * time.Second / time.Duration(w.SampleRate)
}

// Codec identifies how the bytes behind a payload are laid out.
type Codec int

const (
	// PCM24K is raw 16-bit little-endian PCM, 24000 Hz, mono.
	PCM24K Codec = iota
	// MP3 is an MPEG-1/2 Layer III stream.
	MP3
)

// String returns a MIME-like name of the codec.
func (c Codec) String() string {
	switch c {
	case PCM24K:
		return "audio/L16; rate=24000; channels=1"
	case MP3:
		return "audio/mpeg"
	}
	return "audio/unknown"
}
