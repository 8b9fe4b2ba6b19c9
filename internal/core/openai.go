package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates the client. baseURL may be empty for the
// official endpoint; httpClient may be nil for the library default.
func NewOpenAIGenerator(apiKey, baseURL string, httpClient *http.Client) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(clientConfig)}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Params.Model,
		Messages:    messages,
		Temperature: req.Params.Temperature,
		MaxTokens:   req.Params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response had no choices: %w", ErrEmptyCompletion)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
