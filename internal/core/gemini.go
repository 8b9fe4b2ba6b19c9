package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"emotionix.ai/emotionix/internal/store"
)

// GeminiGenerator sends conversations to Google's Gemini models.
type GeminiGenerator struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, logger: logger}, nil
}

func (g *GeminiGenerator) Close() {
	if g.client != nil {
		if err := g.client.Close(); err != nil {
			g.logger.Warn("Error closing GenAI client", zap.Error(err))
		} else {
			g.logger.Info("GenAI client closed")
		}
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	system, history, last, err := toGeminiContents(req.Messages)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(req.Params.Model)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	temp := req.Params.Temperature
	maxTokens := int32(req.Params.MaxTokens)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	chatSession := model.StartChat()
	chatSession.History = history

	resp, err := chatSession.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response had no candidates: %w", ErrEmptyCompletion)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			g.logger.Debug("Gemini response part was not text", zap.String("type", fmt.Sprintf("%T", part)))
		}
	}

	text := strings.TrimSpace(responseText.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// toGeminiContents splits an assembled conversation into Gemini's shape:
// system entries become the system instruction, assistant turns use the
// "model" role and the final user entry is returned separately for SendMessage.
func toGeminiContents(messages []ChatMessage) (string, []*genai.Content, *genai.Content, error) {
	if len(messages) == 0 {
		return "", nil, nil, fmt.Errorf("prompt history is empty for chat completion")
	}
	lastMsg := messages[len(messages)-1]
	if lastMsg.Role != store.RoleUser {
		return "", nil, nil, fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	var system []string
	var history []*genai.Content
	for _, m := range messages[:len(messages)-1] {
		switch m.Role {
		case store.RoleSystem:
			system = append(system, m.Content)
		case store.RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}

	last := &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(lastMsg.Content)}}
	return strings.Join(system, "\n"), history, last, nil
}
