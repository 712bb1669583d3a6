package spotify

import "strings"

// Match is the best search hit for an artist, album or track query.
type Match struct {
	ID         string
	Name       string
	Artist     string
	URI        string
	Popularity int
}

// Track is a playable track with the fields needed for deduplication.
type Track struct {
	ID         string
	Name       string
	URI        string
	Artists    []string
	Popularity int
}

// PrimaryArtist returns the first credited artist.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Playlist identifies a created playlist.
type Playlist struct {
	ID   string
	Name string
	URL  string
}

// User is the authenticated account.
type User struct {
	ID          string
	DisplayName string
}

// TrackURI converts a bare track id to a spotify:track URI.
func TrackURI(id string) string {
	if strings.HasPrefix(id, "spotify:track:") {
		return id
	}
	return "spotify:track:" + id
}

type artistObject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
	Popularity int    `json:"popularity"`
}

type albumObject struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	URI     string         `json:"uri"`
	Artists []artistObject `json:"artists"`
}

type trackObject struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	URI        string         `json:"uri"`
	Popularity int            `json:"popularity"`
	Artists    []artistObject `json:"artists"`
}

func (t trackObject) track() Track {
	out := Track{ID: t.ID, Name: t.Name, URI: t.URI, Popularity: t.Popularity}
	if out.URI == "" && out.ID != "" {
		out.URI = TrackURI(out.ID)
	}
	for _, a := range t.Artists {
		out.Artists = append(out.Artists, a.Name)
	}
	return out
}

func firstArtist(artists []artistObject) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

type pagingObject[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next"`
	Total int    `json:"total"`
}

type searchResponse struct {
	Artists pagingObject[artistObject] `json:"artists"`
	Albums  pagingObject[albumObject]  `json:"albums"`
	Tracks  pagingObject[trackObject]  `json:"tracks"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
