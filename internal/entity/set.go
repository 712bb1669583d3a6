package entity

import (
	"iter"
	"slices"
)

// Limits caps how many artists and albums survive reconciliation. Zero means
// none of that kind; negative values are treated as zero.
type Limits struct {
	Artists int `json:"artists" yaml:"artists"`
	Albums  int `json:"albums" yaml:"albums"`
}

func (l Limits) capFor(kind Kind) (int, bool) {
	switch kind {
	case Artist:
		return max(l.Artists, 0), true
	case Album:
		return max(l.Albums, 0), true
	default:
		return 0, false
	}
}

// Outcome reports what Set.Add did with an entity.
type Outcome int

const (
	Accepted Outcome = iota
	Duplicate
	Capped
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case Capped:
		return "capped"
	default:
		return "invalid"
	}
}

// Counts tallies accepted entities per kind.
type Counts struct {
	Artists int `json:"artists" yaml:"artists"`
	Albums  int `json:"albums" yaml:"albums"`
	Songs   int `json:"songs" yaml:"songs"`
}

// Total returns the number of accepted entities.
func (c Counts) Total() int {
	return c.Artists + c.Albums + c.Songs
}

// Tally counts Add outcomes over a batch.
type Tally struct {
	Accepted   int `json:"accepted" yaml:"accepted"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Capped     int `json:"capped" yaml:"capped"`
	Invalid    int `json:"invalid" yaml:"invalid"`
}

// Merge adds o's counts to t.
func (t *Tally) Merge(o Tally) {
	t.Accepted += o.Accepted
	t.Duplicates += o.Duplicates
	t.Capped += o.Capped
	t.Invalid += o.Invalid
}

// Set is the reconciliation state: accepted entities in acceptance order,
// keyed by kind and normalized name. A Set is not safe for concurrent use.
type Set struct {
	limits Limits
	seen   map[Key]struct{}
	byKind map[Kind][]Entity
}

// NewSet creates an empty set enforcing limits.
func NewSet(limits Limits) *Set {
	return &Set{
		limits: limits,
		seen:   make(map[Key]struct{}),
		byKind: make(map[Kind][]Entity, len(Kinds)),
	}
}

// Add offers e to the set. The first entity with a given key wins; later
// ones are duplicates. Once a kind's cap is reached further entities of that
// kind are dropped.
func (s *Set) Add(e Entity) Outcome {
	if !e.Valid() {
		return Invalid
	}
	key := e.Key()
	if _, ok := s.seen[key]; ok {
		return Duplicate
	}
	if limit, capped := s.limits.capFor(e.Kind); capped && len(s.byKind[e.Kind]) >= limit {
		return Capped
	}
	s.seen[key] = struct{}{}
	s.byKind[e.Kind] = append(s.byKind[e.Kind], e)
	return Accepted
}

// AddAll drains seq into the set and reports how each entity was handled.
func (s *Set) AddAll(seq iter.Seq[Entity]) Tally {
	var tally Tally
	if seq == nil {
		return tally
	}
	for e := range seq {
		switch s.Add(e) {
		case Accepted:
			tally.Accepted++
		case Duplicate:
			tally.Duplicates++
		case Capped:
			tally.Capped++
		default:
			tally.Invalid++
		}
	}
	return tally
}

// Full reports whether both capped kinds have reached their limits.
func (s *Set) Full() bool {
	return len(s.byKind[Artist]) >= max(s.limits.Artists, 0) &&
		len(s.byKind[Album]) >= max(s.limits.Albums, 0)
}

// Counts returns the number of accepted entities per kind.
func (s *Set) Counts() Counts {
	return Counts{
		Artists: len(s.byKind[Artist]),
		Albums:  len(s.byKind[Album]),
		Songs:   len(s.byKind[Song]),
	}
}

// Freeze snapshots the set into a PlaylistRequest. The set may keep
// accepting entities afterwards without affecting the returned request.
func (s *Set) Freeze() PlaylistRequest {
	return PlaylistRequest{
		Artists: slices.Clone(s.byKind[Artist]),
		Albums:  slices.Clone(s.byKind[Album]),
		Songs:   slices.Clone(s.byKind[Song]),
	}
}

// Reconcile folds every sequence, in order, into a new set and freezes it.
func Reconcile(limits Limits, seqs ...iter.Seq[Entity]) PlaylistRequest {
	set := NewSet(limits)
	for _, seq := range seqs {
		set.AddAll(seq)
	}
	return set.Freeze()
}
