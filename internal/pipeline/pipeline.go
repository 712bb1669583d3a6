package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/extract"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/playlist"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/report"
	"ifyoulike/internal/selection"
	"ifyoulike/internal/services"
	"ifyoulike/internal/spotifylinks"
)

// Stage names used in logs and error context.
const (
	StageSelect   = "select"
	StageExtract  = "extract"
	StagePlaylist = "playlist"
	StageReport   = "report"
)

// ThreadLoader returns the selected thread for a submission id.
type ThreadLoader func(ctx context.Context, submissionID string) (reddit.Thread, selection.Report, error)

// Extractor turns one comment into entities.
type Extractor interface {
	Extract(ctx context.Context, c reddit.Comment) (iter.Seq[entity.Entity], error)
}

// LinkRewriter replaces Spotify links in comment text.
type LinkRewriter interface {
	Rewrite(ctx context.Context, text string) (string, []spotifylinks.TrackLink)
}

// PlaylistBuilder resolves and publishes a request.
type PlaylistBuilder interface {
	Build(ctx context.Context, req entity.PlaylistRequest, opts playlist.Options) (playlist.Result, error)
}

// Options shapes a single run.
type Options struct {
	SubmissionID string
	Limits       entity.Limits
	Playlist     playlist.Options
	NamePrefix   string
	// ReportDir enables the run report when set.
	ReportDir    string
	ReportFormat string
	// Model is recorded in the report.
	Model string
}

// Result summarizes a run.
type Result struct {
	RunID       string
	Thread      reddit.Thread
	Selection   selection.Report
	Request     entity.PlaylistRequest
	Tally       entity.Tally
	Extracted   int
	Failed      int
	Empty       int
	Links       []spotifylinks.TrackLink
	Playlist    playlist.Result
	ReportPaths *report.Paths
}

// Pipeline wires the stages together.
type Pipeline struct {
	loader    ThreadLoader
	links     LinkRewriter
	extractor Extractor
	builder   PlaylistBuilder
	logger    *slog.Logger
	progress  io.Writer
	newRunID  func() string
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLinkRewriter enables Spotify link rewriting.
func WithLinkRewriter(r LinkRewriter) Option {
	return func(p *Pipeline) {
		p.links = r
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress renders an extraction progress bar to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithRunID fixes the run id generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newRunID = fn
		}
	}
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a pipeline.
func New(loader ThreadLoader, extractor Extractor, builder PlaylistBuilder, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:    loader,
		extractor: extractor,
		builder:   builder,
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Run processes one submission.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{RunID: p.newRunID()}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithSubmissionID(ctx, reddit.TrimFullname(opts.SubmissionID))
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started",
		logging.Int("max_artists", opts.Limits.Artists),
		logging.Int("max_albums", opts.Limits.Albums),
		logging.Bool("dry_run", opts.Playlist.DryRun),
	)

	selectCtx := services.WithStage(ctx, StageSelect)
	thread, selReport, err := p.loader(selectCtx, opts.SubmissionID)
	if err != nil {
		return result, fmt.Errorf("select thread: %w", err)
	}
	result.Thread = thread
	result.Selection = selReport

	rows, err := p.extract(services.WithStage(ctx, StageExtract), thread, opts.Limits, &result)
	if err != nil {
		return result, err
	}

	buildOpts := opts.Playlist
	buildOpts.Name = playlist.Name(opts.NamePrefix, thread.Submission.Title)
	buildOpts.Description = playlist.Description(thread.Submission)
	buildOpts.DirectTrackIDs = append(buildOpts.DirectTrackIDs, spotifylinks.TrackIDs(result.Links)...)

	playlistCtx := services.WithStage(ctx, StagePlaylist)
	built, buildErr := p.builder.Build(playlistCtx, result.Request, buildOpts)
	result.Playlist = built
	if buildErr != nil && errors.Is(buildErr, context.Canceled) {
		return result, buildErr
	}

	if opts.ReportDir != "" {
		p.writeReport(services.WithStage(ctx, StageReport), opts, rows, &result)
	}

	if buildErr != nil {
		return result, fmt.Errorf("build playlist: %w", buildErr)
	}
	logger.Info("run complete",
		logging.Int("comments", len(thread.Comments)),
		logging.Int("failed_comments", result.Failed),
		logging.Int("entities", result.Request.Len()),
		logging.Int("tracks", len(built.Tracks)),
		logging.String("playlist_url", built.Playlist.URL),
	)
	return result, nil
}

// extract runs every comment through the extractor, in thread order, into a
// single reconciliation set.
func (p *Pipeline) extract(ctx context.Context, thread reddit.Thread, limits entity.Limits, result *Result) ([]report.Comment, error) {
	logger := logging.WithContext(ctx, p.logger)
	set := entity.NewSet(limits)
	rows := make([]report.Comment, 0, len(thread.Comments))
	seenLinks := make(map[string]struct{})

	bar := p.newBar(len(thread.Comments))
	defer func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}()

	for _, c := range thread.Comments {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		commentCtx := services.WithCommentID(ctx, c.ID)
		row := report.Comment{
			ID:        c.ID,
			Kind:      string(c.Kind),
			Author:    c.Author,
			Score:     c.Score,
			Created:   c.Created,
			Permalink: c.Permalink,
			Text:      c.Text,
		}

		if p.links != nil {
			text, links := p.links.Rewrite(commentCtx, c.Text)
			c.Text = text
			for _, l := range links {
				if _, ok := seenLinks[l.TrackID]; ok {
					continue
				}
				seenLinks[l.TrackID] = struct{}{}
				result.Links = append(result.Links, l)
			}
		}

		seq, err := p.extractor.Extract(commentCtx, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rows, ctxErr
			}
			result.Failed++
			row.Status = report.CommentFailed
			row.Error = err.Error()
			logging.WarnWithContext(logging.WithContext(commentCtx, p.logger), "extraction failed; comment skipped", "extraction_failed",
				logging.Error(err),
			)
		} else {
			tally := set.AddAll(seq)
			result.Tally.Merge(tally)
			row.Entities = tally.Accepted + tally.Duplicates + tally.Capped + tally.Invalid
			if row.Entities == 0 {
				result.Empty++
				row.Status = report.CommentEmpty
			} else {
				result.Extracted++
				row.Status = report.CommentExtracted
			}
		}
		rows = append(rows, row)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	result.Request = set.Freeze()
	counts := result.Request.Counts()
	logger.Info("entities reconciled",
		logging.Int("artists", counts.Artists),
		logging.Int("albums", counts.Albums),
		logging.Int("songs", counts.Songs),
		logging.Int("duplicates", result.Tally.Duplicates),
		logging.Int("capped", result.Tally.Capped),
		logging.Int("failed_comments", result.Failed),
		logging.Int("linked_tracks", len(result.Links)),
	)
	return rows, nil
}

func (p *Pipeline) newBar(total int) *progressbar.ProgressBar {
	if p.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *Pipeline) writeReport(ctx context.Context, opts Options, rows []report.Comment, result *Result) {
	logger := logging.WithContext(ctx, p.logger)
	doc := report.Report{
		RunID:        result.RunID,
		SubmissionID: result.Thread.Submission.ID,
		Title:        result.Thread.Submission.Title,
		ThreadURL:    result.Thread.Submission.ThreadURL(),
		GeneratedAt:  p.now().UTC(),
		Model:        opts.Model,
		DryRun:       result.Playlist.DryRun,
		Limits:       opts.Limits,
		Selection:    result.Selection,
		Reconcile:    result.Tally,
		Request:      result.Request,
		Links:        result.Links,
		Comments:     rows,
	}
	if doc.SubmissionID == "" {
		doc.SubmissionID = reddit.TrimFullname(opts.SubmissionID)
	}
	for _, res := range result.Playlist.Resolutions {
		rec := report.Resolution{
			Kind:    res.Entity.Kind,
			Name:    res.Entity.Name,
			Artist:  res.Entity.Artist,
			Status:  string(res.Status),
			MatchID: res.Match.ID,
			Match:   res.Match.Name,
			Swapped: res.Swapped,
			Tracks:  len(res.Tracks),
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		doc.Resolutions = append(doc.Resolutions, rec)
	}
	if pl := result.Playlist.Playlist; pl.ID != "" {
		doc.Playlist = &report.Playlist{ID: pl.ID, Name: pl.Name, URL: pl.URL, Tracks: len(result.Playlist.Tracks)}
	}

	paths, err := report.Write(opts.ReportDir, opts.ReportFormat, doc)
	if err != nil {
		logging.WarnWithContext(logger, "run report not written", "report_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "playlist unaffected; report files missing"),
		)
		return
	}
	result.ReportPaths = &paths
	logger.Info("run report written",
		logging.String("comments", paths.Comments),
		logging.String("entities", paths.Entities),
	)
}

var _ Extractor = (*extract.Extractor)(nil)
