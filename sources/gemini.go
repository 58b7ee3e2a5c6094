package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is a Gemini model with Google Search grounding.
const DefaultGeminiModel = "gemini-2.5-flash"

var _ Aggregator = (*Gemini)(nil)

// Gemini gathers intelligence with a search-grounded Gemini model. Sources
// are taken from the grounding metadata of the first candidate.
type Gemini struct {
	Client *genai.Client

	// Model should not start with "models/"
	Model string
}

// NewGemini creates a Gemini aggregator authenticated with apiKey.
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

func (g *Gemini) Aggregate(ctx context.Context, tickers []string) (*Result, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, genai.Text(Prompt(tickers)), cfg)
	if err != nil {
		return nil, apiMessage(err)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("no candidates")
	}

	c := resp.Candidates[0]
	var sb strings.Builder
	if c.Content != nil {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, fmt.Errorf("no intelligence found for %s", strings.Join(tickers, ", "))
	}

	var found []Source
	if c.GroundingMetadata != nil {
		for _, chunk := range c.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			found = append(found, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return &Result{Content: content, Sources: Dedupe(found)}, nil
}

// apiMessage reduces a Gemini API error to the message the server sent.
func apiMessage(err error) error {
	var e genai.APIError
	if errors.As(err, &e) && e.Message != "" {
		return errors.New(e.Message)
	}
	return err
}
