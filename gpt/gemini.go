package gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used for scripts.
const DefaultGeminiModel = "gemini-2.5-flash"

var _ ScriptWriter = (*Gemini)(nil)

// Gemini writes scripts with a Gemini model.
type Gemini struct {
	Client *genai.Client

	// Model should not start with "models/"
	Model string
}

// NewGemini creates a Gemini script writer authenticated with apiKey.
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

func (g *Gemini) WriteScript(ctx context.Context, content string, tickers []string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemPrompt}}},
	}
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, genai.Text(Prompt(content, tickers)), cfg)
	if err != nil {
		return "", apiMessage(err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates")
	}
	c := resp.Candidates[0]
	if c.FinishReason != genai.FinishReasonStop && c.FinishReason != genai.FinishReasonUnspecified {
		return "", fmt.Errorf("unexpected finish reason: %s", c.FinishReason)
	}

	var sb strings.Builder
	if c.Content != nil {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
	}
	return checkScript(sb.String())
}

// apiMessage reduces a Gemini API error to the message the server sent.
func apiMessage(err error) error {
	var e genai.APIError
	if errors.As(err, &e) && e.Message != "" {
		return errors.New(e.Message)
	}
	return err
}
