package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/briefcast/audio"
	"github.com/d1nch8g/briefcast/sound"
	"github.com/d1nch8g/briefcast/wav"
)

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a briefing WAVE file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := audio.ParseSpeed(flagSpeed)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		w, err := wav.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return play(ctx, w, speed)
	},
}

func init() {
	playCmd.Flags().StringVar(&flagSpeed, "speed", "1", "Playback speed (0.5, 0.75, 1, 1.25, 1.5, 2)")
}

func play(ctx context.Context, w *audio.Waveform, speed float64) error {
	config := sound.GetDefaultConfig()
	config.Speed = speed
	player := sound.NewPortaudioPlayer(config)

	if err := player.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer player.Terminate()

	if err := player.Play(ctx, w); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
