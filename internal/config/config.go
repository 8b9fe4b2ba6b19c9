package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-1.5-flash-latest"

	DefaultSecretKey = "dev-secret-key-change-this"
)

type Config struct {
	SecretKey   string `env:"SECRET_KEY" envDefault:"dev-secret-key-change-this"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"emotionix.db"`

	// LLM
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	LLMProvider   string        `env:"LLM_PROVIDER"`
	LLMModel      string        `env:"LLM_MODEL"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// Server
	Port           string        `env:"PORT" envDefault:"5000"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	AnonymousTools bool          `env:"ANONYMOUS_TOOLS" envDefault:"false"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool `env:"-"`
}

func Load() (*Config, error) {
	loaded := godotenv.Load() == nil // .env is optional

	cfg := &Config{EnvFileLoaded: loaded}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch cfg.LLMProvider {
	case "", ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY must not be empty")
	}
	return cfg, nil
}

// Provider returns the remote LLM provider to use, or "" when no credential
// is configured for it.
func (c *Config) Provider() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey != "" {
			return ProviderOpenAI
		}
		return ""
	case ProviderGemini:
		if c.GeminiAPIKey != "" {
			return ProviderGemini
		}
		return ""
	}
	if c.OpenAIAPIKey != "" {
		return ProviderOpenAI
	}
	if c.GeminiAPIKey != "" {
		return ProviderGemini
	}
	return ""
}

// Model returns LLM_MODEL or the default model of the active provider.
func (c *Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	if c.Provider() == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
