package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ifyoulike/internal/spotify"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize Spotify and print a refresh token",
		Long: "Run the Spotify authorization-code flow against spotify.redirect_uri. Register that URI\n" +
			"for your app in the Spotify developer dashboard first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSpotifyApp(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			token, err := spotify.Login(cmd.Context(), spotify.OAuthConfig(cfg.Spotify), func(authURL string) {
				fmt.Fprintln(out, "Open this URL in a browser to authorize ifyoulike:")
				fmt.Fprintln(out)
				fmt.Fprintf(out, "  %s\n\n", authURL)
				fmt.Fprintf(out, "Waiting for the callback on %s ...\n", cfg.Spotify.RedirectURI)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Authorized.")
			fmt.Fprintln(out, "Add this to your environment or .env file:")
			fmt.Fprintf(out, "  SPOTIFY_REFRESH_TOKEN=%s\n", token.RefreshToken)
			return nil
		},
	}
}
