package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/d1nch8g/briefcast/audio"
)

// DefaultGeminiModel is the Gemini speech model.
const DefaultGeminiModel = "gemini-2.5-flash-preview-tts"

// GeminiVoices are the prebuilt Gemini voices. Kore is the default.
var GeminiVoices = []Voice{"Kore", "Puck", "Charon", "Fenrir", "Zephyr", "Leda", "Orus", "Aoede"}

var _ Synthesizer = (*Gemini)(nil)

// Gemini synthesizes speech with a Gemini TTS model. The model answers with
// inline PCM at 24000 Hz.
type Gemini struct {
	Client *genai.Client

	// Model should not start with "models/"
	Model string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{Client: client, Model: model}, nil
}

func (g *Gemini) Voices() []Voice { return GeminiVoices }

func (g *Gemini) Synthesize(ctx context.Context, script string, voice Voice) (*Speech, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: string(voice)},
			},
		},
	}
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, genai.Text(script), cfg)
	if err != nil {
		return nil, apiMessage(err)
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData == nil || len(p.InlineData.Data) == 0 {
				continue
			}
			codec, err := geminiCodec(p.InlineData.MIMEType)
			if err != nil {
				return nil, err
			}
			return &Speech{
				Audio: base64.StdEncoding.EncodeToString(p.InlineData.Data),
				Codec: codec,
			}, nil
		}
	}
	return nil, errors.New("no audio data received")
}

func (g *Gemini) Close() error { return nil }

// apiMessage reduces a Gemini API error to the message the server sent.
func apiMessage(err error) error {
	var e genai.APIError
	if errors.As(err, &e) && e.Message != "" {
		return errors.New(e.Message)
	}
	return err
}

func geminiCodec(mimeType string) (audio.Codec, error) {
	mt := strings.ToLower(strings.ReplaceAll(mimeType, " ", ""))
	switch {
	case strings.HasPrefix(mt, "audio/l16"), strings.HasPrefix(mt, "audio/pcm"):
		if strings.Contains(mt, "rate=") && !strings.Contains(mt, "rate=24000") {
			return 0, fmt.Errorf("unsupported sample rate in %q", mimeType)
		}
		return audio.PCM24K, nil
	case strings.HasPrefix(mt, "audio/mpeg"), strings.HasPrefix(mt, "audio/mp3"):
		return audio.MP3, nil
	}
	return 0, fmt.Errorf("unsupported audio type %q", mimeType)
}
