package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ifyoulike/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set the archive paths, then export an LLM key and SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET.")
			fmt.Fprintln(out, "Run `ifyoulike login` to obtain SPOTIFY_REFRESH_TOKEN.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			for _, check := range []struct {
				label string
				err   error
			}{
				{"Archives", cfg.RequireArchives()},
				{"LLM", cfg.RequireLLM()},
				{"Spotify", cfg.RequireSpotify()},
			} {
				if check.err != nil {
					fmt.Fprintf(out, "%-9s %v\n", check.label+":", check.err)
					continue
				}
				fmt.Fprintf(out, "%-9s ready\n", check.label+":")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"paths.submissions_archive", orDash(cfg.Paths.SubmissionsArchive)},
				{"paths.comments_archive", orDash(cfg.Paths.CommentsArchive)},
				{"paths.output_dir", orDash(cfg.Paths.OutputDir)},
				{"paths.log_dir", orDash(cfg.Paths.LogDir)},
				{"llm.provider", cfg.LLM.Provider},
				{"llm.model", cfg.LLM.Model},
				{"llm.api_key", maskSecret(cfg.LLM.APIKey)},
				{"spotify.client_id", maskSecret(cfg.Spotify.ClientID)},
				{"spotify.client_secret", maskSecret(cfg.Spotify.ClientSecret)},
				{"spotify.refresh_token", maskSecret(cfg.Spotify.RefreshToken)},
				{"spotify.redirect_uri", cfg.Spotify.RedirectURI},
				{"spotify.market", orDash(cfg.Spotify.Market)},
				{"selection.include_submission", yesNo(cfg.Selection.IncludeSubmission)},
				{"selection.min_comment_score", strconv.Itoa(cfg.Selection.MinCommentScore)},
				{"selection.max_comments", strconv.Itoa(cfg.Selection.MaxComments)},
				{"links.enabled", yesNo(cfg.Links.Enabled)},
				{"playlist.max_artists", strconv.Itoa(cfg.Playlist.MaxArtists)},
				{"playlist.max_albums", strconv.Itoa(cfg.Playlist.MaxAlbums)},
				{"playlist.tracks_per_artist", strconv.Itoa(cfg.Playlist.TracksPerArtist)},
				{"playlist.tracks_per_album", strconv.Itoa(cfg.Playlist.TracksPerAlbum)},
				{"playlist.public", yesNo(cfg.Playlist.Public)},
				{"playlist.shuffle", yesNo(cfg.Playlist.Shuffle)},
				{"cache.enabled", yesNo(cfg.Cache.Enabled)},
				{"cache.path", orDash(cfg.Cache.Path)},
				{"report.format", cfg.Report.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}
}
