package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/audio"
	"github.com/d1nch8g/briefcast/engine"
	"github.com/d1nch8g/briefcast/tts"
	"github.com/d1nch8g/briefcast/wav"
)

var (
	flagTickers    string
	flagVoice      string
	flagOutput     string
	flagTranscript bool
	flagPlay       bool
	flagSpeed      string
	flagFormat     string
)

var generateCmd = &cobra.Command{
	Use:   "generate [TICKERS]",
	Short: "Generate an audio briefing",
	Long: `Generate researches the given tickers, writes a script and records it.

Tickers are comma separated; at most four are allowed.

Example:
  briefcast generate --tickers GOOG,TSLA --voice Puck -o briefing.wav
  briefcast generate NVDA --play --speed 1.25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagTickers, "tickers", "t", "", "Comma-separated tickers (max 4)")
	generateCmd.Flags().StringVar(&flagVoice, "voice", "", "Voice name (see 'briefcast voices')")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output WAVE file (default: briefing-<id>.wav)")
	generateCmd.Flags().BoolVar(&flagTranscript, "transcript", false, "Print the script")
	generateCmd.Flags().BoolVar(&flagPlay, "play", false, "Play the briefing when done")
	generateCmd.Flags().StringVar(&flagSpeed, "speed", "1", "Playback speed (0.5, 0.75, 1, 1.25, 1.5, 2)")
	generateCmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format (text, json, yaml)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input := flagTickers
	if len(args) > 0 {
		input = args[0]
	}
	speed, err := audio.ParseSpeed(flagSpeed)
	if err != nil {
		return err
	}
	voice := flagVoice
	if voice == "" {
		voice = cfg.Voice
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := artifact.NewStore("")
	e, err := newEngine(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	p := &progress{w: out}
	unsubscribe := e.Subscribe(p.update)
	st, err := e.Generate(ctx, input, tts.Voice(voice))
	unsubscribe()
	if err != nil {
		return err
	}

	path := flagOutput
	if path == "" {
		path = st.Artifact.Filename
	}
	if err := os.WriteFile(path, st.Artifact.Blob, 0o644); err != nil {
		return fmt.Errorf("failed to write briefing: %w", err)
	}

	if err := printSummary(cmd, st, path); err != nil {
		return err
	}

	if flagPlay {
		w, err := wav.Decode(st.Artifact.Blob)
		if err != nil {
			return err
		}
		return play(ctx, w, speed)
	}
	return nil
}

type summary struct {
	File    string   `json:"file" yaml:"file"`
	Tickers []string `json:"tickers" yaml:"tickers"`
	Sources []source `json:"sources" yaml:"sources"`
	Script  string   `json:"script,omitempty" yaml:"script,omitempty"`
	Bytes   int      `json:"bytes" yaml:"bytes"`
}

type source struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

func printSummary(cmd *cobra.Command, st engine.State, path string) error {
	out := cmd.OutOrStdout()

	s := summary{File: path, Tickers: st.Tickers, Bytes: st.Artifact.Size}
	for _, src := range st.Sources {
		s.Sources = append(s.Sources, source{Title: src.Title, URI: src.URI})
	}
	if flagTranscript {
		s.Script = st.Script
	}

	switch strings.ToLower(flagFormat) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		data, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "text", "":
		fmt.Fprintln(out, renderSources(st.Sources))
		if flagTranscript {
			fmt.Fprintln(out, renderTranscript(st.Script))
		}
		fmt.Fprintf(out, "%s %s %s\n", titleStyle.Render("Saved"), path, dimStyle.Render(fmt.Sprintf("(%d bytes)", st.Artifact.Size)))
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", flagFormat)
}
