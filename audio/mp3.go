package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 decodes an MP3 stream into a mono waveform at the stream's
// native sample rate. go-mp3 always yields 16-bit stereo.
func DecodeMP3(raw []byte) (*Waveform, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrDecode, err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrDecode, err)
	}
	// A truncated final frame may leave a partial stereo frame behind.
	pcm = pcm[:len(pcm)/4*4]

	w, err := DecodePCM16(pcm, d.SampleRate(), 2)
	if err != nil {
		return nil, err
	}
	return Downmix(w), nil
}
