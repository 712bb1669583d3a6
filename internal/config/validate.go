package config

import (
	"errors"
	"fmt"
	"strings"

	"ifyoulike/internal/services"
)

// Validate ensures the configuration is structurally usable. Credentials are
// checked separately by the Require helpers so commands that do not talk to a
// given service can run without its keys.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validatePlaylist(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be one of %q, %q, %q (got %q)", ProviderOpenAI, ProviderOpenRouter, ProviderGemini, c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderGemini && strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set")
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.MaxComments < 0 {
		return errors.New("selection.max_comments must be >= 0")
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	if c.Playlist.MaxArtists < 0 {
		return errors.New("playlist.max_artists must be >= 0")
	}
	if c.Playlist.MaxAlbums < 0 {
		return errors.New("playlist.max_albums must be >= 0")
	}
	return nil
}

func (c *Config) validateReport() error {
	switch c.Report.Format {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("report.format must be json or yaml (got %q)", c.Report.Format)
	}
}

// RequireLLM reports a configuration error when no model credentials are available.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "setup", "llm",
			fmt.Sprintf("llm.api_key is required; set %s or edit %s", strings.Join(providerKeyEnv(c.LLM.Provider), " or "), c.configHint()), nil)
	}
	return nil
}

// RequireSpotify reports a configuration error when playlist credentials are missing.
func (c *Config) RequireSpotify() error {
	missing := make([]string, 0, 3)
	if c.Spotify.ClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_SECRET")
	}
	if c.Spotify.RefreshToken == "" {
		missing = append(missing, "SPOTIFY_REFRESH_TOKEN (run 'ifyoulike login')")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "setup", "spotify",
			"missing credentials: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// RequireSpotifyApp reports a configuration error when the app credentials used
// by the login flow are missing.
func (c *Config) RequireSpotifyApp() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return services.Wrap(services.ErrConfiguration, "setup", "spotify",
			"SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required", nil)
	}
	return nil
}

// RequireArchives reports a configuration error when archive paths are unset.
func (c *Config) RequireArchives() error {
	if strings.TrimSpace(c.Paths.SubmissionsArchive) == "" {
		return services.Wrap(services.ErrConfiguration, "setup", "archive",
			"paths.submissions_archive is required (or pass --submissions)", nil)
	}
	if strings.TrimSpace(c.Paths.CommentsArchive) == "" {
		return services.Wrap(services.ErrConfiguration, "setup", "archive",
			"paths.comments_archive is required (or pass --comments)", nil)
	}
	return nil
}

func (c *Config) configHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "~/.config/ifyoulike/config.toml"
	}
	return path
}
