package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "LLM_PROVIDER", "LLM_MODEL"} {
		t.Setenv(key, "")
	}
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	clearLLMEnv(t)
	for _, key := range []string{"PORT", "DATABASE_URL", "LLM_TIMEOUT", "ANONYMOUS_TOOLS", "SECRET_KEY"} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "emotionix.db", cfg.DatabaseURL)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.AnonymousTools)
	assert.Equal(t, "", cfg.Provider())
	assert.Equal(t, DefaultOpenAIModel, cfg.Model())
}

func TestLoad_Overrides(t *testing.T) {
	clearLLMEnv(t)
	unsetEnv(t, "SECRET_KEY")
	t.Setenv("PORT", "8081")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("ANONYMOUS_TOOLS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.AnonymousTools)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")

	_, err := Load()
	assert.Error(t, err)
}

func TestProvider(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, "", cfg.Provider())
	})

	t.Run("openai wins when both keys are set", func(t *testing.T) {
		cfg := &Config{OpenAIAPIKey: "oa", GeminiAPIKey: "gm"}
		assert.Equal(t, ProviderOpenAI, cfg.Provider())
		assert.Equal(t, DefaultOpenAIModel, cfg.Model())
	})

	t.Run("gemini only", func(t *testing.T) {
		cfg := &Config{GeminiAPIKey: "gm"}
		assert.Equal(t, ProviderGemini, cfg.Provider())
		assert.Equal(t, DefaultGeminiModel, cfg.Model())
	})

	t.Run("explicit provider without its key", func(t *testing.T) {
		cfg := &Config{LLMProvider: ProviderGemini, OpenAIAPIKey: "oa"}
		assert.Equal(t, "", cfg.Provider())
	})

	t.Run("explicit model", func(t *testing.T) {
		cfg := &Config{OpenAIAPIKey: "oa", LLMModel: "gpt-4o-mini"}
		assert.Equal(t, "gpt-4o-mini", cfg.Model())
	})
}
