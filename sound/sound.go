// Package sound plays decoded briefings on the default output device.
package sound

import (
	"context"

	"github.com/d1nch8g/briefcast/audio"
)

// Player defines the interface for audio playback
type Player interface {
	// Initialize initializes the audio playback system
	Initialize() error

	// Terminate terminates the audio playback system
	Terminate()

	// Play plays w until it ends or ctx is canceled.
	Play(ctx context.Context, w *audio.Waveform) error
}

// PlayerConfig holds the output stream settings.
type PlayerConfig struct {
	FramesPerBuffer int
	// Speed is the playback rate, one of audio.Speeds.
	Speed float64
}

func GetDefaultConfig() PlayerConfig {
	return PlayerConfig{
		FramesPerBuffer: 1024,
		Speed:           1,
	}
}
