package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"ifyoulike/internal/config"
	"ifyoulike/internal/entity"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/services"
	"ifyoulike/internal/spotify"
	"ifyoulike/internal/textutil"
)

// Catalog is the search side of the streaming service.
type Catalog interface {
	SearchArtist(ctx context.Context, name string) (spotify.Match, bool, error)
	SearchAlbum(ctx context.Context, title, artist string) (spotify.Match, bool, error)
	SearchTrack(ctx context.Context, title, artist string) (spotify.Match, bool, error)
	ArtistTopTracks(ctx context.Context, artistID string, n int) ([]spotify.Track, error)
	AlbumTopTracks(ctx context.Context, albumID string, n int) ([]spotify.Track, error)
	Tracks(ctx context.Context, ids []string) ([]spotify.Track, error)
}

// Publisher creates and fills playlists.
type Publisher interface {
	CreatePlaylist(ctx context.Context, name, description string, public bool) (spotify.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

var (
	_ Catalog   = (*spotify.Client)(nil)
	_ Publisher = (*spotify.Client)(nil)
)

// Options shapes one build.
type Options struct {
	Name            string
	Description     string
	TracksPerArtist int
	TracksPerAlbum  int
	// DirectTrackIDs are tracks linked verbatim in comments.
	DirectTrackIDs []string
	SwapOnMiss     bool
	Dedupe         bool
	Shuffle        bool
	Public         bool
	DryRun         bool
	// Rand drives Shuffle; nil uses a randomly seeded source.
	Rand *rand.Rand
}

// OptionsFromConfig maps playlist configuration onto build options.
func OptionsFromConfig(cfg config.Playlist) Options {
	return Options{
		TracksPerArtist: cfg.TracksPerArtist,
		TracksPerAlbum:  cfg.TracksPerAlbum,
		SwapOnMiss:      cfg.SwapOnMiss,
		Dedupe:          cfg.DedupeTracks,
		Shuffle:         cfg.Shuffle,
		Public:          cfg.Public,
	}
}

// Status is the outcome of resolving one entry.
type Status string

const (
	StatusMatched Status = "matched"
	StatusMissed  Status = "missed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Resolution records how one request entry was resolved.
type Resolution struct {
	Entity  entity.Entity
	Status  Status
	Match   spotify.Match
	Swapped bool
	Tracks  []spotify.Track
	Err     error
}

// Result summarizes a build.
type Result struct {
	Playlist    spotify.Playlist
	Resolutions []Resolution
	Tracks      []spotify.Track
	Duplicates  int
	DryRun      bool
}

// Count returns how many resolutions ended with status.
func (r Result) Count(status Status) int {
	n := 0
	for _, res := range r.Resolutions {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Published reports whether a playlist was created.
func (r Result) Published() bool {
	return r.Playlist.ID != ""
}

// Builder turns requests into playlists.
type Builder struct {
	catalog   Catalog
	publisher Publisher
	logger    *slog.Logger
}

// NewBuilder wires a builder. publisher may be nil for dry runs.
func NewBuilder(catalog Catalog, publisher Publisher, logger *slog.Logger) *Builder {
	return &Builder{
		catalog:   catalog,
		publisher: publisher,
		logger:    logging.NewComponentLogger(logger, "playlist"),
	}
}

// Build resolves every entry of req and publishes the collected tracks.
// Misses and lookup errors are recorded per entry and never abort the build.
// A dry run resolves and publishes nothing.
func (b *Builder) Build(ctx context.Context, req entity.PlaylistRequest, opts Options) (Result, error) {
	logger := logging.WithContext(ctx, b.logger)
	result := Result{DryRun: opts.DryRun}

	if opts.DryRun {
		for e := range req.All() {
			result.Resolutions = append(result.Resolutions, Resolution{Entity: e, Status: StatusSkipped})
		}
		logger.Info("dry run: playlist not built",
			logging.Int("entries", req.Len()),
			logging.Int("direct_tracks", len(opts.DirectTrackIDs)),
		)
		return result, nil
	}

	var collected []spotify.Track
	for e := range req.All() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		res := b.resolve(ctx, e, opts)
		switch res.Status {
		case StatusMissed:
			logger.Info("no catalog match",
				logging.String("kind", e.Kind.String()),
				logging.String("name", e.Name),
				logging.String("source", e.Source),
			)
		case StatusFailed:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logging.WarnWithContext(logger, "catalog lookup failed; entry skipped", "lookup_failed",
				logging.String("entity", e.String()),
				logging.Error(res.Err),
			)
		}
		result.Resolutions = append(result.Resolutions, res)
		collected = append(collected, res.Tracks...)
	}

	if len(opts.DirectTrackIDs) > 0 {
		direct, err := b.catalog.Tracks(ctx, opts.DirectTrackIDs)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logging.WarnWithContext(logger, "linked track lookup failed; links skipped", "lookup_failed",
				logging.Int("links", len(opts.DirectTrackIDs)),
				logging.Error(err),
			)
		} else {
			collected = append(collected, direct...)
		}
	}

	tracks, dupes := dedupeTracks(collected, opts.Dedupe)
	result.Duplicates = dupes
	if opts.Shuffle {
		r := opts.Rand
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		r.Shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
	}
	result.Tracks = tracks

	logger.Info("catalog resolution complete",
		logging.Int("matched", result.Count(StatusMatched)),
		logging.Int("missed", result.Count(StatusMissed)),
		logging.Int("failed", result.Count(StatusFailed)),
		logging.Int("tracks", len(tracks)),
		logging.Int("duplicates", dupes),
	)

	if len(tracks) == 0 {
		logging.WarnWithContext(logger, "no tracks resolved; playlist not created", "empty_playlist")
		return result, nil
	}
	if b.publisher == nil {
		return result, services.Wrap(services.ErrConfiguration, "playlist", "publish", "no publisher configured", nil)
	}

	playlist, err := b.publisher.CreatePlaylist(ctx, opts.Name, opts.Description, opts.Public)
	if err != nil {
		return result, fmt.Errorf("create playlist: %w", err)
	}
	result.Playlist = playlist

	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		uris = append(uris, t.URI)
	}
	for batch := range slices.Chunk(uris, spotify.MaxTracksPerAdd) {
		if err := b.publisher.AddTracks(ctx, playlist.ID, batch); err != nil {
			return result, fmt.Errorf("add tracks to %s: %w", playlist.ID, err)
		}
	}
	logger.Info("playlist published",
		logging.String("playlist_id", playlist.ID),
		logging.String("url", playlist.URL),
		logging.Int("tracks", len(uris)),
	)
	return result, nil
}

func (b *Builder) resolve(ctx context.Context, e entity.Entity, opts Options) Resolution {
	res := Resolution{Entity: e}
	var (
		match spotify.Match
		found bool
		err   error
	)
	switch e.Kind {
	case entity.Artist:
		match, found, err = b.catalog.SearchArtist(ctx, e.Name)
	case entity.Album:
		match, found, res.Swapped, err = searchWithSwap(ctx, b.catalog.SearchAlbum, e, opts.SwapOnMiss)
	case entity.Song:
		match, found, res.Swapped, err = searchWithSwap(ctx, b.catalog.SearchTrack, e, opts.SwapOnMiss)
	default:
		err = services.Wrap(services.ErrValidation, "playlist", "resolve", "unknown entity kind", nil)
	}
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	if !found {
		res.Status = StatusMissed
		res.Err = services.Wrap(services.ErrLookupMiss, "playlist", "search", e.String(), nil)
		return res
	}
	res.Status = StatusMatched
	res.Match = match

	switch e.Kind {
	case entity.Artist:
		res.Tracks, err = b.catalog.ArtistTopTracks(ctx, match.ID, opts.TracksPerArtist)
	case entity.Album:
		res.Tracks, err = b.catalog.AlbumTopTracks(ctx, match.ID, opts.TracksPerAlbum)
	case entity.Song:
		res.Tracks = []spotify.Track{{
			ID:         match.ID,
			Name:       match.Name,
			URI:        match.URI,
			Artists:    []string{match.Artist},
			Popularity: match.Popularity,
		}}
	}
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}

type searchFunc func(ctx context.Context, title, artist string) (spotify.Match, bool, error)

// searchWithSwap retries a credited search with title and artist exchanged,
// since extracted pairs are sometimes reversed.
func searchWithSwap(ctx context.Context, search searchFunc, e entity.Entity, swap bool) (spotify.Match, bool, bool, error) {
	match, found, err := search(ctx, e.Name, e.Artist)
	if err != nil || found || !swap || e.Artist == "" {
		return match, found, false, err
	}
	match, found, err = search(ctx, e.Artist, e.Name)
	return match, found, found, err
}

type trackKey struct {
	title  string
	artist string
}

// dedupeTracks drops repeated track ids and, when byName is set, tracks
// sharing a normalized title and primary artist. The more popular copy wins
// and keeps the position of the first occurrence.
func dedupeTracks(tracks []spotify.Track, byName bool) ([]spotify.Track, int) {
	out := make([]spotify.Track, 0, len(tracks))
	seenIDs := make(map[string]struct{}, len(tracks))
	seenKeys := make(map[trackKey]int, len(tracks))
	dupes := 0
	for _, t := range tracks {
		if t.URI == "" && t.ID != "" {
			t.URI = spotify.TrackURI(t.ID)
		}
		if t.URI == "" {
			continue
		}
		if _, ok := seenIDs[t.URI]; ok {
			dupes++
			continue
		}
		seenIDs[t.URI] = struct{}{}
		if byName {
			key := trackKey{textutil.NormalizeName(t.Name), textutil.NormalizeName(t.PrimaryArtist())}
			if idx, ok := seenKeys[key]; ok {
				dupes++
				if t.Popularity > out[idx].Popularity {
					out[idx] = t
				}
				continue
			}
			seenKeys[key] = len(out)
		}
		out = append(out, t)
	}
	return out, dupes
}

// IsMiss reports whether err marks a catalog miss.
func IsMiss(err error) bool {
	return errors.Is(err, services.ErrLookupMiss)
}
