package sound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"github.com/d1nch8g/briefcast/audio"
)

// Ensure PortaudioPlayer implements Player interface
var _ Player = (*PortaudioPlayer)(nil)

type PortaudioPlayer struct {
	stream      *portaudio.Stream
	audioBuffer []float32
	config      PlayerConfig
}

func NewPortaudioPlayer(config PlayerConfig) *PortaudioPlayer {
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = GetDefaultConfig().FramesPerBuffer
	}
	if config.Speed == 0 {
		config.Speed = 1
	}
	return &PortaudioPlayer{
		config:      config,
		audioBuffer: make([]float32, config.FramesPerBuffer),
	}
}

func (p *PortaudioPlayer) Initialize() error {
	return portaudio.Initialize()
}

func (p *PortaudioPlayer) open(sampleRate int) error {
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(p.audioBuffer), p.audioBuffer)
	if err != nil {
		return err
	}
	p.stream = stream
	return nil
}

// Play writes w to the default output device one buffer at a time.
func (p *PortaudioPlayer) Play(ctx context.Context, w *audio.Waveform) error {
	if w == nil {
		return errors.New("no audio to play")
	}
	if w.Channels != 1 {
		w = audio.Downmix(w)
	}
	w, err := audio.ChangeSpeed(w, p.config.Speed)
	if err != nil {
		return fmt.Errorf("failed to apply speed: %w", err)
	}

	if err := p.open(w.SampleRate); err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer p.Close()

	if err := p.stream.Start(); err != nil {
		return err
	}
	defer p.stream.Stop()

	slog.Debug("sound: playback started", "duration", w.Duration(), "speed", p.config.Speed)

	samples := w.Samples
	for len(samples) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(p.audioBuffer, samples)
		// Zero-fill remaining buffer
		clear(p.audioBuffer[n:])
		samples = samples[n:]

		if err := p.stream.Write(); err != nil {
			slog.Warn("sound: error writing audio", "err", err)
		}
	}
	return nil
}

func (p *PortaudioPlayer) Close() error {
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	return err
}

func (p *PortaudioPlayer) Terminate() {
	portaudio.Terminate()
}
