package spotify

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"ifyoulike/internal/config"
	"ifyoulike/internal/services"
)

// Endpoint is the Spotify accounts service.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.spotify.com/authorize",
	TokenURL:  "https://accounts.spotify.com/api/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// Scopes are the user permissions playlist creation needs.
var Scopes = []string{"playlist-modify-public", "playlist-modify-private"}

// OAuthConfig builds the oauth2 configuration for the configured app.
func OAuthConfig(cfg config.Spotify) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint:     Endpoint,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Login runs the authorization-code flow. It listens on the redirect URL's
// host, hands the consent URL to prompt, and exchanges the returned code for
// a token. The call blocks until the callback arrives or ctx is done.
func Login(ctx context.Context, oc *oauth2.Config, prompt func(authURL string)) (*oauth2.Token, error) {
	redirect, err := url.Parse(oc.RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "login", "redirect uri",
			fmt.Sprintf("invalid redirect uri %q", oc.RedirectURL), err)
	}
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("login listen: %w", err)
	}

	results := make(chan callbackResult, 1)
	path := redirect.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var res callbackResult
		switch {
		case query.Get("state") != state:
			res.err = errors.New("state mismatch in callback")
		case query.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
		case query.Get("code") == "":
			res.err = errors.New("callback missing code")
		default:
			res.code = query.Get("code")
		}
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprintln(w, "Spotify authorization complete. You can close this window.")
		}
		select {
		case results <- res:
		default:
		}
	})
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if prompt != nil {
		prompt(oc.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true")))
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, services.Wrap(services.ErrExternal, "login", "callback", "authorization failed", res.err)
	}
	token, err := oc.Exchange(ctx, res.code)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "login", "exchange", "token exchange failed", err)
	}
	if strings.TrimSpace(token.RefreshToken) == "" {
		return nil, services.Wrap(services.ErrExternal, "login", "exchange", "token response carried no refresh token", nil)
	}
	return token, nil
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
