package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/d1nch8g/briefcast/audio"
)

// Synthesizer defines the interface for text-to-speech synthesis
type Synthesizer interface {
	// Synthesize renders script with voice. The returned speech carries the
	// audio as standard base64 text.
	Synthesize(ctx context.Context, script string, voice Voice) (*Speech, error)

	// Voices returns the voices this synthesizer accepts. The first one is
	// the default.
	Voices() []Voice

	Close() error
}

// Speech is the encoded audio payload returned by a Synthesizer.
type Speech struct {
	// Audio is base64 text.
	Audio string
	Codec audio.Codec
}

// Voice names a prebuilt synthesis voice.
type Voice string

// ParseVoice resolves s against allowed, ignoring case. An empty s selects
// the first allowed voice.
func ParseVoice(s string, allowed []Voice) (Voice, error) {
	if len(allowed) == 0 {
		return "", fmt.Errorf("no voices available")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return allowed[0], nil
	}
	for _, v := range allowed {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	return "", fmt.Errorf("unknown voice %q, choose one of: %s", s, strings.Join(names, ", "))
}
