package config

const (
	defaultLogDir             = "~/.local/share/ifyoulike/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLLMProvider        = ProviderOpenAI
	defaultOpenAIBaseURL      = "https://api.openai.com/v1/chat/completions"
	defaultOpenRouterBaseURL  = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenAIModel        = "gpt-4o-mini"
	defaultGeminiModel        = "gemini-2.5-flash"
	defaultLLMReferer         = "https://github.com/coltonflowers/ifyoulike"
	defaultLLMTitle           = "ifyoulike playlist generator"
	defaultLLMTimeoutSeconds  = 60
	defaultLLMRetryAttempts   = 5
	defaultSpotifyRedirectURI = "http://127.0.0.1:8888/callback"
	defaultSpotifyAPIBaseURL  = "https://api.spotify.com/v1"
	defaultSpotifyTimeout     = 15
	defaultLinksTimeout       = 10
	defaultMaxArtists         = 25
	defaultMaxAlbums          = 25
	defaultTracksPerArtist    = 3
	defaultTracksPerAlbum     = 2
	defaultPlaylistNamePrefix = "Reddit: "
	defaultReportFormat       = "json"
)

// Provider names accepted by llm.provider.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			EnvFile: ".env",
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Spotify: Spotify{
			RedirectURI:    defaultSpotifyRedirectURI,
			APIBaseURL:     defaultSpotifyAPIBaseURL,
			TimeoutSeconds: defaultSpotifyTimeout,
		},
		Selection: Selection{
			IncludeSubmission: true,
			MinCommentScore:   0,
		},
		Links: Links{
			Enabled:        true,
			ResolveTitles:  true,
			TimeoutSeconds: defaultLinksTimeout,
		},
		Playlist: Playlist{
			MaxArtists:      defaultMaxArtists,
			MaxAlbums:       defaultMaxAlbums,
			TracksPerArtist: defaultTracksPerArtist,
			TracksPerAlbum:  defaultTracksPerAlbum,
			Public:          true,
			DedupeTracks:    true,
			NamePrefix:      defaultPlaylistNamePrefix,
			SwapOnMiss:      true,
		},
		Cache: Cache{
			Path: defaultCachePath(),
		},
		Report: Report{
			Format: defaultReportFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
