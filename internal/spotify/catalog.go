package spotify

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// SearchArtist returns the best artist match for name.
func (c *Client) SearchArtist(ctx context.Context, name string) (Match, bool, error) {
	var resp searchResponse
	if err := c.search(ctx, "search artist", "artist", fieldQuery("artist", name), &resp); err != nil {
		return Match{}, false, err
	}
	if len(resp.Artists.Items) == 0 {
		return Match{}, false, nil
	}
	a := resp.Artists.Items[0]
	return Match{ID: a.ID, Name: a.Name, URI: a.URI, Popularity: a.Popularity}, true, nil
}

// SearchAlbum returns the best album match for title, narrowed by artist when given.
func (c *Client) SearchAlbum(ctx context.Context, title, artist string) (Match, bool, error) {
	var resp searchResponse
	q := joinQuery(fieldQuery("album", title), fieldQuery("artist", artist))
	if err := c.search(ctx, "search album", "album", q, &resp); err != nil {
		return Match{}, false, err
	}
	if len(resp.Albums.Items) == 0 {
		return Match{}, false, nil
	}
	a := resp.Albums.Items[0]
	return Match{ID: a.ID, Name: a.Name, Artist: firstArtist(a.Artists), URI: a.URI}, true, nil
}

// SearchTrack returns the best track match for title, narrowed by artist when given.
func (c *Client) SearchTrack(ctx context.Context, title, artist string) (Match, bool, error) {
	var resp searchResponse
	q := joinQuery(fieldQuery("track", title), fieldQuery("artist", artist))
	if err := c.search(ctx, "search track", "track", q, &resp); err != nil {
		return Match{}, false, err
	}
	if len(resp.Tracks.Items) == 0 {
		return Match{}, false, nil
	}
	t := resp.Tracks.Items[0].track()
	return Match{ID: t.ID, Name: t.Name, Artist: t.PrimaryArtist(), URI: t.URI, Popularity: t.Popularity}, true, nil
}

func (c *Client) search(ctx context.Context, op, kind, q string, out *searchResponse) error {
	return c.get(ctx, op, "/search", map[string]string{
		"q":     q,
		"type":  kind,
		"limit": "1",
	}, out)
}

func fieldQuery(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return field + ":" + value
}

func joinQuery(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(s string) bool { return s == "" }), " ")
}

// ArtistTopTracks returns up to n of the artist's top tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID string, n int) ([]Track, error) {
	if n <= 0 {
		return nil, nil
	}
	var resp struct {
		Tracks []trackObject `json:"tracks"`
	}
	if err := c.get(ctx, "artist top tracks", "/artists/"+artistID+"/top-tracks", map[string]string{"market": c.market}, &resp); err != nil {
		return nil, err
	}
	out := make([]Track, 0, min(n, len(resp.Tracks)))
	for _, t := range resp.Tracks[:min(n, len(resp.Tracks))] {
		out = append(out, t.track())
	}
	return out, nil
}

// AlbumTopTracks returns up to n album tracks ordered by popularity. Album
// track listings omit popularity, so the tracks are looked up again.
func (c *Client) AlbumTopTracks(ctx context.Context, albumID string, n int) ([]Track, error) {
	if n <= 0 {
		return nil, nil
	}
	var listing pagingObject[trackObject]
	if err := c.get(ctx, "album tracks", "/albums/"+albumID+"/tracks", map[string]string{
		"limit":  "50",
		"market": c.market,
	}, &listing); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(listing.Items))
	for _, t := range listing.Items {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	tracks, err := c.Tracks(ctx, ids)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})
	return tracks[:min(n, len(tracks))], nil
}

// Tracks looks up full track objects, in batches of 50 ids.
func (c *Client) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	out := make([]Track, 0, len(ids))
	for batch := range slices.Chunk(ids, maxTrackIDsPerLookup) {
		var resp struct {
			Tracks []*trackObject `json:"tracks"`
		}
		if err := c.get(ctx, "tracks", "/tracks", map[string]string{
			"ids":    strings.Join(batch, ","),
			"market": c.market,
		}, &resp); err != nil {
			return nil, err
		}
		for _, t := range resp.Tracks {
			if t != nil {
				out = append(out, t.track())
			}
		}
	}
	return out, nil
}
