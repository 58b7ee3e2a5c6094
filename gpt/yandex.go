package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	YandexGPTEndpoint = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"
)

// Message represents a message in the conversation
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// CompletionOptions represents the options for the completion
type CompletionOptions struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// Request represents the request to the Yandex GPT API
type Request struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions CompletionOptions `json:"completionOptions"`
	Messages          []Message         `json:"messages"`
}

// Alternative represents an alternative response
type Alternative struct {
	Message Message `json:"message"`
	Status  string  `json:"status"`
}

// Response represents the response from the Yandex GPT API
type Response struct {
	Result struct {
		Alternatives []Alternative `json:"alternatives"`
		Usage        struct {
			InputTextTokens  string `json:"inputTextTokens"`
			CompletionTokens string `json:"completionTokens"`
			TotalTokens      string `json:"totalTokens"`
		} `json:"usage"`
		ModelVersion string `json:"modelVersion"`
	} `json:"result"`
}

var _ ScriptWriter = (*Yandex)(nil)

// Yandex is a client for the Yandex GPT completion API
type Yandex struct {
	FolderID   string
	IAMToken   string
	// APIKey takes precedence over IAMToken when both are set.
	APIKey     string
	Endpoint   string
	Model      string
	HTTPClient *http.Client
}

// NewYandex creates a new Yandex GPT client
func NewYandex(folderID, iamToken string) *Yandex {
	return &Yandex{
		FolderID:   folderID,
		IAMToken:   iamToken,
		Endpoint:   YandexGPTEndpoint,
		Model:      "yandexgpt/latest",
		HTTPClient: &http.Client{},
	}
}

// WriteScript asks Yandex GPT for a podcast script
func (c *Yandex) WriteScript(ctx context.Context, content string, tickers []string) (string, error) {
	resp, err := c.Complete(ctx, Request{
		ModelURI: fmt.Sprintf("gpt://%s/%s", c.FolderID, c.Model),
		CompletionOptions: CompletionOptions{
			MaxTokens:   2000,
			Temperature: 0.6,
		},
		Messages: []Message{
			{Role: "system", Text: SystemPrompt},
			{Role: "user", Text: Prompt(content, tickers)},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Result.Alternatives) == 0 {
		return "", fmt.Errorf("no alternatives in response")
	}
	return checkScript(resp.Result.Alternatives[0].Message.Text)
}

// Complete sends a completion request to the Yandex GPT API
func (c *Yandex) Complete(ctx context.Context, req Request) (*Response, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Api-Key "+c.APIKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.IAMToken)
	}
	httpReq.Header.Set("x-folder-id", c.FolderID)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}
