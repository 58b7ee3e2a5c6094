package commands

import (
	"context"
	"fmt"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/config"
	"github.com/d1nch8g/briefcast/engine"
	"github.com/d1nch8g/briefcast/gpt"
	"github.com/d1nch8g/briefcast/sources"
	"github.com/d1nch8g/briefcast/tts"
)

// newEngine wires the collaborators selected in c into an engine.
func newEngine(ctx context.Context, c *config.Config, store *artifact.Store) (*engine.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	agg, err := newAggregator(ctx, c)
	if err != nil {
		return nil, err
	}
	writer, err := newScriptWriter(ctx, c)
	if err != nil {
		return nil, err
	}
	synth, err := newSynthesizer(ctx, c)
	if err != nil {
		return nil, err
	}

	return engine.NewEngine(engine.EngineConfig{
		MaxPayloadBytes: c.MaxPayloadBytes,
	}, agg, writer, synth, store), nil
}

func newAggregator(ctx context.Context, c *config.Config) (sources.Aggregator, error) {
	switch c.Sources {
	case config.BackendGemini:
		return sources.NewGemini(ctx, c.GeminiAPIKey, "")
	}
	return nil, fmt.Errorf("unknown sources backend %q", c.Sources)
}

func newScriptWriter(ctx context.Context, c *config.Config) (gpt.ScriptWriter, error) {
	switch c.Script {
	case config.BackendGemini:
		return gpt.NewGemini(ctx, c.GeminiAPIKey, "")
	case config.BackendOpenAI:
		return gpt.NewOpenAI(c.OpenAIAPIKey, c.OpenAIBaseURL, ""), nil
	case config.BackendYandex:
		y := gpt.NewYandex(c.FolderID, c.IamToken)
		y.APIKey = c.YandexAPIKey
		return y, nil
	}
	return nil, fmt.Errorf("unknown script backend %q", c.Script)
}

func newSynthesizer(ctx context.Context, c *config.Config) (tts.Synthesizer, error) {
	switch c.Speech {
	case config.BackendGemini:
		return tts.NewGemini(ctx, c.GeminiAPIKey, "")
	case config.BackendOpenAI:
		return tts.NewOpenAI(c.OpenAIAPIKey, c.OpenAIBaseURL, ""), nil
	case config.BackendYandex:
		return tts.NewYandexTTSClient(tts.YandexConfig{
			ApiKey:   c.YandexAPIKey,
			IamToken: c.IamToken,
			FolderID: c.FolderID,
		})
	}
	return nil, fmt.Errorf("unknown speech backend %q", c.Speech)
}

// voicesFor lists the voices of a speech backend without connecting to it.
func voicesFor(backend string) ([]tts.Voice, error) {
	switch backend {
	case config.BackendGemini:
		return tts.GeminiVoices, nil
	case config.BackendOpenAI:
		return tts.OpenAIVoices, nil
	case config.BackendYandex:
		return tts.YandexVoices, nil
	}
	return nil, fmt.Errorf("unknown speech backend %q", backend)
}
