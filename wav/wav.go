// Package wav encodes waveforms into canonical 16-bit PCM WAVE files and
// reads them back.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/d1nch8g/briefcast/audio"
)

const (
	// HeaderSize is the size of the canonical RIFF/WAVE header.
	HeaderSize = 44
	// MIMEType is the media type of an encoded file.
	MIMEType = "audio/wav"
	// Ext is the filename suffix of an encoded file.
	Ext = ".wav"

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	formatPCM      = 1
	fmtChunkSize   = 16
)

// ErrFormat is returned by Decode for anything but canonical 16-bit PCM.
var ErrFormat = errors.New("wav: unsupported format")

// Quantize converts a sample to signed 16-bit. The sample is clamped to
// [-1, 1]; negative values scale by 32768 and non-negative values by 32767,
// truncating toward zero.
func Quantize(s float32) int16 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return int16(v * 0x8000)
	}
	return int16(v * 0x7fff)
}

// Encode serializes w as a WAVE file: a 44-byte header followed by the
// quantized samples.
func Encode(w *audio.Waveform) []byte {
	channels := w.Channels
	if channels <= 0 {
		channels = 1
	}
	blockAlign := channels * bytesPerSample
	dataSize := len(w.Samples) * bytesPerSample

	buf := make([]byte, HeaderSize+dataSize)
	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], fmtChunkSize)
	le.PutUint16(buf[20:22], formatPCM)
	le.PutUint16(buf[22:24], uint16(channels))
	le.PutUint32(buf[24:28], uint32(w.SampleRate))
	le.PutUint32(buf[28:32], uint32(w.SampleRate*blockAlign))
	le.PutUint16(buf[32:34], uint16(blockAlign))
	le.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range w.Samples {
		off := HeaderSize + i*bytesPerSample
		le.PutUint16(buf[off:off+2], uint16(Quantize(s)))
	}
	return buf
}

// Decode parses a canonical PCM WAVE file. Chunks other than "fmt " and
// "data" are skipped.
func Decode(data []byte) (*audio.Waveform, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrFormat)
	}
	le := binary.LittleEndian

	var (
		channels   int
		sampleRate int
		haveFmt    bool
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(le.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns file", ErrFormat, id)
		}

		switch id {
		case "fmt ":
			if size < fmtChunkSize {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrFormat)
			}
			if tag := le.Uint16(data[body : body+2]); tag != formatPCM {
				return nil, fmt.Errorf("%w: format tag %d", ErrFormat, tag)
			}
			if bits := le.Uint16(data[body+14 : body+16]); bits != bitsPerSample {
				return nil, fmt.Errorf("%w: %d bits per sample", ErrFormat, bits)
			}
			channels = int(le.Uint16(data[body+2 : body+4]))
			sampleRate = int(le.Uint32(data[body+4 : body+8]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrFormat)
			}
			w, err := audio.DecodePCM16(data[body:body+size], sampleRate, channels)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			return w, nil
		}

		// Chunks are word aligned.
		off = body + size + size%2
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrFormat)
}
