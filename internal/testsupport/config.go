package testsupport

import (
	"path/filepath"
	"testing"

	"ifyoulike/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Credentials are filled with placeholders so Require checks pass.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SubmissionsArchive = filepath.Join(base, "archives", "submissions.zst")
	cfgVal.Paths.CommentsArchive = filepath.Join(base, "archives", "comments.zst")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.EnvFile = filepath.Join(base, "missing.env")
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:0/v1/chat/completions"
	cfgVal.LLM.Model = "test-model"
	cfgVal.Spotify.ClientID = "client"
	cfgVal.Spotify.ClientSecret = "secret"
	cfgVal.Spotify.RefreshToken = "refresh"
	cfgVal.Links.Enabled = false
	cfgVal.Cache.Path = filepath.Join(base, "cache", "completions.db")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// BaseDir returns the temp root the config paths live under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

// WithLLMEndpoint points the OpenAI-compatible client at url.
func WithLLMEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithSpotifyAPI points the Spotify client at url.
func WithSpotifyAPI(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spotify.APIBaseURL = url
	}
}

// WithoutCredentials clears every API credential.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = ""
		b.cfg.Spotify.ClientID = ""
		b.cfg.Spotify.ClientSecret = ""
		b.cfg.Spotify.RefreshToken = ""
	}
}

// WithCache enables the completion cache under the test directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithArchives writes the submission and comment dumps the config points at.
func WithArchives(submissions, comments []string) ConfigOption {
	return func(b *configBuilder) {
		WriteArchive(b.t, b.cfg.Paths.SubmissionsArchive, submissions...)
		WriteArchive(b.t, b.cfg.Paths.CommentsArchive, comments...)
	}
}
