// Package spotify is a small Spotify Web API client covering catalog search
// and playlist creation.
//
// Requests go through resty with an oauth2 refresh-token transport. Rate
// limited (429) and server error (5xx) responses are retried with the
// Retry-After header honoured. Non-2xx responses surface as *APIError, which
// matches services.ErrExternal.
//
// Login runs the authorization-code flow against a local callback listener
// and returns a token whose refresh token is stored as SPOTIFY_REFRESH_TOKEN.
package spotify
