package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig captures the settings required to call the Gemini API.
type GeminiConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
	RetryAttempts  int
	HTTPClient     *http.Client
}

// GeminiClient completes prompts through the Google Gen AI SDK.
type GeminiClient struct {
	retryPolicy

	model  string
	models *genai.Models
}

// NewGeminiClient constructs a Gemini completer. The SDK validates the key
// lazily, so construction only fails on malformed configuration.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	policy := defaultRetryPolicy()
	if cfg.RetryAttempts > 0 {
		policy.retryMaxAttempts = cfg.RetryAttempts
	}
	return &GeminiClient{retryPolicy: policy, model: model, models: client.Models}, nil
}

// Model reports the model name requests are sent to.
func (g *GeminiClient) Model() string {
	return g.model
}

// Complete sends the prompts as a JSON-mode generation request and returns the text of the first candidate.
func (g *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("gemini complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("gemini complete: user prompt required")
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
	}

	attempts := g.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(userPrompt), genCfg)
		if err == nil {
			if text := strings.TrimSpace(resp.Text()); text != "" {
				return text, nil
			}
			err = &emptyContentError{Op: "gemini complete", FinishReason: geminiFinishReason(resp)}
		} else {
			err = normalizeGeminiError(err)
		}

		delay, retry := g.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		if err := g.sleep(ctx, delay); err != nil {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("gemini complete: failed after %d attempts: %w", attempts, lastErr)
}

// HealthCheck issues a fast ping to verify the API key and model are usable.
func (g *GeminiClient) HealthCheck(ctx context.Context) error {
	content, err := g.Complete(ctx, healthSystemPrompt, healthUserPrompt)
	if err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	return checkHealthPayload(content)
}

func geminiFinishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	return string(resp.Candidates[0].FinishReason)
}

// normalizeGeminiError maps SDK API errors onto httpStatusError so the shared
// retry policy treats both providers alike.
func normalizeGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini request: %w", &httpStatusError{StatusCode: apiErr.Code, Body: apiErr.Message})
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return fmt.Errorf("gemini request: %w", &httpStatusError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message})
	}
	return fmt.Errorf("gemini request: %w", err)
}
