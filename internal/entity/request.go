package entity

import (
	"iter"
	"slices"
)

// PlaylistRequest is the frozen result of reconciliation. Entries are
// ordered artists first, then albums, then songs, each in acceptance order.
type PlaylistRequest struct {
	Artists []Entity `json:"artists" yaml:"artists"`
	Albums  []Entity `json:"albums" yaml:"albums"`
	Songs   []Entity `json:"songs" yaml:"songs"`
}

// All yields every entry in playlist order.
func (r PlaylistRequest) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, group := range [][]Entity{r.Artists, r.Albums, r.Songs} {
			for _, e := range group {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Entries returns every entry in playlist order.
func (r PlaylistRequest) Entries() []Entity {
	return slices.Collect(r.All())
}

// Names returns the display names of every entry in playlist order.
func (r PlaylistRequest) Names() []string {
	names := make([]string, 0, r.Len())
	for e := range r.All() {
		names = append(names, e.Name)
	}
	return names
}

// Len returns the number of entries.
func (r PlaylistRequest) Len() int {
	return len(r.Artists) + len(r.Albums) + len(r.Songs)
}

// Empty reports whether the request has no entries.
func (r PlaylistRequest) Empty() bool {
	return r.Len() == 0
}

// Counts returns the number of entries per kind.
func (r PlaylistRequest) Counts() Counts {
	return Counts{Artists: len(r.Artists), Albums: len(r.Albums), Songs: len(r.Songs)}
}
