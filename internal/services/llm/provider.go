package llm

import (
	"context"
	"fmt"

	"ifyoulike/internal/config"
)

// Provider is the completion surface shared by every configured backend.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

var (
	_ Provider = (*Client)(nil)
	_ Provider = (*GeminiClient)(nil)
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
			TimeoutSeconds: cfg.TimeoutSeconds,
			RetryAttempts:  cfg.RetryAttempts,
		})
	case config.ProviderOpenAI, config.ProviderOpenRouter, "":
		opts := []Option{}
		if cfg.RetryAttempts > 0 {
			opts = append(opts, WithRetryMaxAttempts(cfg.RetryAttempts))
		}
		return NewClient(Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}, opts...), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
}
