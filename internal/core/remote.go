package core

import (
	"context"

	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/config"
)

// NewRemoteGenerator returns the remote generator selected by cfg, or nil
// when no credential is configured. The returned close function is never nil.
func NewRemoteGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, func(), error) {
	noop := func() {}

	switch cfg.Provider() {
	case config.ProviderOpenAI:
		logger.Info("OpenAI generator enabled", zap.String("model", cfg.Model()), zap.String("base_url", cfg.OpenAIBaseURL))
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, nil), noop, nil
	case config.ProviderGemini:
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Gemini generator enabled", zap.String("model", cfg.Model()))
		return g, g.Close, nil
	}

	logger.Info("No LLM credential configured, replies use the local fallback")
	return nil, noop, nil
}
