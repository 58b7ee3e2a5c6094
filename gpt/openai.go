package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the chat model used for scripts.
const DefaultOpenAIModel = "gpt-4o-mini"

var _ ScriptWriter = (*OpenAI)(nil)

// OpenAI writes scripts with an OpenAI-compatible chat completion API.
type OpenAI struct {
	Client *openai.Client
	Model  string
}

// NewOpenAI creates a script writer. baseURL may be empty.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{Client: &client, Model: model}
}

func (o *OpenAI) WriteScript(ctx context.Context, content string, tickers []string) (string, error) {
	resp, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(Prompt(content, tickers)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices")
	}
	return checkScript(resp.Choices[0].Message.Content)
}
