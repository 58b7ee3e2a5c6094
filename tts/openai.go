package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/d1nch8g/briefcast/audio"
)

// OpenAIVoices are the built-in OpenAI speech voices.
var OpenAIVoices = []Voice{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}

var _ Synthesizer = (*OpenAI)(nil)

// OpenAI synthesizes speech with the OpenAI audio API. The pcm response
// format is 24000 Hz mono 16-bit little-endian.
type OpenAI struct {
	Client *openai.Client
	Model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	return &OpenAI{Client: &client, Model: model}
}

func (o *OpenAI) Voices() []Voice { return OpenAIVoices }

func (o *OpenAI) Synthesize(ctx context.Context, script string, voice Voice) (*Speech, error) {
	resp, err := o.Client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          script,
		Model:          openai.SpeechModel(o.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai speech: failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai speech: no audio data received")
	}
	return &Speech{
		Audio: base64.StdEncoding.EncodeToString(data),
		Codec: audio.PCM24K,
	}, nil
}

func (o *OpenAI) Close() error { return nil }
