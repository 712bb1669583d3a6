package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeSpotify()
	c.normalizeLinks()
	c.normalizePlaylist()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SubmissionsArchive, err = expandPath(strings.TrimSpace(c.Paths.SubmissionsArchive)); err != nil {
		return fmt.Errorf("paths.submissions_archive: %w", err)
	}
	if c.Paths.CommentsArchive, err = expandPath(strings.TrimSpace(c.Paths.CommentsArchive)); err != nil {
		return fmt.Errorf("paths.comments_archive: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = lookupFirstEnv(providerKeyEnv(c.LLM.Provider)...)
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.BaseURL = defaultOpenAIBaseURL
		case ProviderOpenRouter:
			c.LLM.BaseURL = defaultOpenRouterBaseURL
		}
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		if c.LLM.Provider == ProviderGemini {
			c.LLM.Model = defaultGeminiModel
		} else {
			c.LLM.Model = defaultOpenAIModel
		}
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
}

func providerKeyEnv(provider string) []string {
	switch provider {
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_API_KEY"}
	default:
		return []string{"OPENAI_API_KEY"}
	}
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	if c.Spotify.ClientID == "" {
		c.Spotify.ClientID = lookupFirstEnv("SPOTIFY_CLIENT_ID")
	}
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.ClientSecret == "" {
		c.Spotify.ClientSecret = lookupFirstEnv("SPOTIFY_CLIENT_SECRET")
	}
	c.Spotify.RefreshToken = strings.TrimSpace(c.Spotify.RefreshToken)
	if c.Spotify.RefreshToken == "" {
		c.Spotify.RefreshToken = lookupFirstEnv("SPOTIFY_REFRESH_TOKEN")
	}
	c.Spotify.RedirectURI = strings.TrimSpace(c.Spotify.RedirectURI)
	if value := lookupFirstEnv("SPOTIFY_REDIRECT_URI"); value != "" && c.Spotify.RedirectURI == defaultSpotifyRedirectURI {
		c.Spotify.RedirectURI = value
	}
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = defaultSpotifyRedirectURI
	}
	c.Spotify.Market = strings.ToUpper(strings.TrimSpace(c.Spotify.Market))
	c.Spotify.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Spotify.APIBaseURL), "/")
	if c.Spotify.APIBaseURL == "" {
		c.Spotify.APIBaseURL = defaultSpotifyAPIBaseURL
	}
	if c.Spotify.TimeoutSeconds <= 0 {
		c.Spotify.TimeoutSeconds = defaultSpotifyTimeout
	}
}

func (c *Config) normalizeLinks() {
	if c.Links.TimeoutSeconds <= 0 {
		c.Links.TimeoutSeconds = defaultLinksTimeout
	}
}

func (c *Config) normalizePlaylist() {
	if c.Playlist.TracksPerArtist < 0 {
		c.Playlist.TracksPerArtist = 0
	}
	if c.Playlist.TracksPerAlbum < 0 {
		c.Playlist.TracksPerAlbum = 0
	}
	c.Playlist.NamePrefix = strings.TrimLeft(c.Playlist.NamePrefix, " \t")
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReport() {
	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))
	switch c.Report.Format {
	case "", "json":
		c.Report.Format = "json"
	case "yml":
		c.Report.Format = "yaml"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupFirstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
