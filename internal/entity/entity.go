package entity

import (
	"fmt"
	"strings"

	"ifyoulike/internal/textutil"
)

// Kind identifies what an entity names.
type Kind int

const (
	Artist Kind = iota + 1
	Album
	Song
)

// Kinds lists every kind in playlist order.
var Kinds = []Kind{Artist, Album, Song}

func (k Kind) String() string {
	switch k {
	case Artist:
		return "artist"
	case Album:
		return "album"
	case Song:
		return "song"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Artist || k == Album || k == Song
}

// ParseKind maps a label such as "Artist", "albums" or "track" onto a Kind.
func ParseKind(label string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "artist", "artists", "band", "bands":
		return Artist, true
	case "album", "albums", "record", "records", "ep", "eps":
		return Album, true
	case "song", "songs", "track", "tracks":
		return Song, true
	default:
		return 0, false
	}
}

// MarshalText renders the kind label for JSON and YAML reports.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("entity: invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind label written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("entity: unknown kind %q", text)
	}
	*k = parsed
	return nil
}

// Entity is a single music mention. Values are never mutated after creation.
type Entity struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// Name is the display name as written (artist name, album or song title).
	Name string `json:"name" yaml:"name"`
	// Artist credits an album or song; always empty for artists.
	Artist string `json:"artist,omitempty" yaml:"artist,omitempty"`
	// Source is the id of the comment the entity came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// New builds an entity with whitespace-collapsed fields. The credited artist
// is dropped for Artist entities.
func New(kind Kind, name, artist, source string) Entity {
	e := Entity{
		Kind:   kind,
		Name:   textutil.CollapseSpace(name),
		Artist: textutil.CollapseSpace(artist),
		Source: strings.TrimSpace(source),
	}
	if kind == Artist {
		e.Artist = ""
	}
	return e
}

// Key identifies an entity within a Set.
type Key struct {
	Kind Kind
	Name string
}

// Key returns the reconciliation key: kind plus case-insensitive normalized name.
func (e Entity) Key() Key {
	return Key{Kind: e.Kind, Name: textutil.NormalizeName(e.Name)}
}

// Valid reports whether the entity has a known kind and a non-blank name.
func (e Entity) Valid() bool {
	return e.Kind.Valid() && textutil.NormalizeName(e.Name) != ""
}

// String renders the entity for logs and tables, e.g. `album "Kid A" by Radiohead`.
func (e Entity) String() string {
	if e.Artist == "" {
		return fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q by %s", e.Kind, e.Name, e.Artist)
}
