package spotify

import (
	"context"
	"fmt"

	"ifyoulike/internal/services"
)

// CurrentUser returns the authenticated account, cached for the client's lifetime.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	c.userOnce.Do(func() {
		var resp struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		}
		c.userErr = c.get(ctx, "current user", "/me", nil, &resp)
		c.user = User{ID: resp.ID, DisplayName: resp.DisplayName}
	})
	return c.user, c.userErr
}

// CreatePlaylist creates a playlist owned by the authenticated user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (Playlist, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return Playlist{}, err
	}
	var resp struct {
		ID           string            `json:"id"`
		Name         string            `json:"name"`
		ExternalURLs map[string]string `json:"external_urls"`
	}
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}
	if err := c.post(ctx, "create playlist", "/users/"+user.ID+"/playlists", body, &resp); err != nil {
		return Playlist{}, err
	}
	return Playlist{ID: resp.ID, Name: resp.Name, URL: resp.ExternalURLs["spotify"]}, nil
}

// AddTracks appends up to MaxTracksPerAdd track URIs to a playlist.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > MaxTracksPerAdd {
		return services.Wrap(services.ErrValidation, "spotify", "add tracks",
			fmt.Sprintf("%d uris exceeds the limit of %d per call", len(uris), MaxTracksPerAdd), nil)
	}
	return c.post(ctx, "add tracks", "/playlists/"+playlistID+"/tracks", map[string]any{"uris": uris}, nil)
}
