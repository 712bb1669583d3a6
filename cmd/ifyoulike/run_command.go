package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ifyoulike/internal/config"
	"ifyoulike/internal/entity"
	"ifyoulike/internal/pipeline"
	"ifyoulike/internal/playlist"
	"ifyoulike/internal/selection"
	"ifyoulike/internal/services"
	"ifyoulike/internal/spotify"
	"ifyoulike/internal/spotifylinks"
)

type runFlags struct {
	submissions string
	comments    string
	maxArtists  int
	maxAlbums   int
	dryRun      bool
	outputDir   string
	shuffle     bool
	private     bool
	jsonOutput  bool
}

// apply folds explicitly set flags over the loaded configuration.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("submissions") {
		path, err := config.ExpandPath(f.submissions)
		if err != nil {
			return fmt.Errorf("resolve --submissions: %w", err)
		}
		cfg.Paths.SubmissionsArchive = path
	}
	if changed("comments") {
		path, err := config.ExpandPath(f.comments)
		if err != nil {
			return fmt.Errorf("resolve --comments: %w", err)
		}
		cfg.Paths.CommentsArchive = path
	}
	if changed("output-dir") {
		path, err := config.ExpandPath(f.outputDir)
		if err != nil {
			return fmt.Errorf("resolve --output-dir: %w", err)
		}
		cfg.Paths.OutputDir = path
	}
	if changed("max-artists") {
		if f.maxArtists < 0 {
			return services.Wrap(services.ErrValidation, "setup", "flags", "--max-artists must be >= 0", nil)
		}
		cfg.Playlist.MaxArtists = f.maxArtists
	}
	if changed("max-albums") {
		if f.maxAlbums < 0 {
			return services.Wrap(services.ErrValidation, "setup", "flags", "--max-albums must be >= 0", nil)
		}
		cfg.Playlist.MaxAlbums = f.maxAlbums
	}
	if changed("shuffle") {
		cfg.Playlist.Shuffle = f.shuffle
	}
	if changed("private") {
		cfg.Playlist.Public = !f.private
	}
	return cfg.EnsureDirectories()
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <submission-id>",
		Short: "Build a playlist from one thread",
		Long: "Read the submission and its comments from the archives, extract the music they recommend,\n" +
			"reconcile it under the configured caps and publish a Spotify playlist.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			submissionID := strings.TrimSpace(args[0])
			if submissionID == "" {
				return services.Wrap(services.ErrValidation, "setup", "flags", "submission id is required", nil)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.RequireArchives(); err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			if !flags.dryRun {
				if err := cfg.RequireSpotify(); err != nil {
					return err
				}
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()

			extractor, closeExtractor, err := ctx.newExtractor(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeExtractor()

			var (
				catalog   playlist.Catalog
				publisher playlist.Publisher
			)
			if !flags.dryRun {
				client, err := spotify.New(runCtx, cfg.Spotify, spotify.WithLogger(logger))
				if err != nil {
					return err
				}
				catalog, publisher = client, client
			}

			opts := []pipeline.Option{pipeline.WithLogger(logger)}
			if cfg.Links.Enabled {
				opts = append(opts, pipeline.WithLinkRewriter(spotifylinks.NewResolver(cfg.Links, spotifylinks.WithLogger(logger))))
			}
			if w := terminalWriter(cmd.ErrOrStderr()); w != nil && !flags.jsonOutput {
				opts = append(opts, pipeline.WithProgress(w))
			}

			loader := pipeline.ArchiveLoader(cfg.Paths.SubmissionsArchive, cfg.Paths.CommentsArchive,
				selection.OptionsFromConfig(cfg.Selection), logger)
			p := pipeline.New(loader, extractor, playlist.NewBuilder(catalog, publisher, logger), opts...)

			buildOpts := playlist.OptionsFromConfig(cfg.Playlist)
			buildOpts.DryRun = flags.dryRun
			result, runErr := p.Run(runCtx, pipeline.Options{
				SubmissionID: submissionID,
				Limits:       entity.Limits{Artists: cfg.Playlist.MaxArtists, Albums: cfg.Playlist.MaxAlbums},
				Playlist:     buildOpts,
				NamePrefix:   cfg.Playlist.NamePrefix,
				ReportDir:    cfg.Paths.OutputDir,
				ReportFormat: cfg.Report.Format,
				Model:        cfg.GetLLM().Model,
			})
			if result.Thread.Submission.ID == "" {
				return runErr
			}
			if flags.jsonOutput {
				if err := writeJSON(cmd, runSummaryFor(result)); err != nil {
					return err
				}
				return runErr
			}
			renderRunResult(cmd.OutOrStdout(), result)
			return runErr
		},
	}

	cmd.Flags().StringVar(&flags.submissions, "submissions", "", "Submissions archive (overrides paths.submissions_archive)")
	cmd.Flags().StringVar(&flags.comments, "comments", "", "Comments archive (overrides paths.comments_archive)")
	defaults := config.Default().Playlist
	cmd.Flags().IntVar(&flags.maxArtists, "max-artists", defaults.MaxArtists, "Maximum artists kept after reconciliation (overrides playlist.max_artists)")
	cmd.Flags().IntVar(&flags.maxAlbums, "max-albums", defaults.MaxAlbums, "Maximum albums kept after reconciliation (overrides playlist.max_albums)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Extract and reconcile only; do not touch Spotify")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Write the run report to this directory")
	cmd.Flags().BoolVar(&flags.shuffle, "shuffle", false, "Shuffle tracks before publishing")
	cmd.Flags().BoolVar(&flags.private, "private", false, "Create a private playlist")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

type runSummary struct {
	RunID       string                   `json:"run_id"`
	Submission  string                   `json:"submission"`
	Title       string                   `json:"title"`
	Comments    int                      `json:"comments"`
	Extracted   int                      `json:"extracted"`
	Failed      int                      `json:"failed"`
	Empty       int                      `json:"empty"`
	Tally       entity.Tally             `json:"reconcile"`
	Request     []entity.Entity          `json:"request"`
	Links       []spotifylinks.TrackLink `json:"links,omitempty"`
	DryRun      bool                     `json:"dry_run"`
	PlaylistURL string                   `json:"playlist_url,omitempty"`
	Tracks      int                      `json:"tracks"`
	Matched     int                      `json:"matched"`
	Missed      int                      `json:"missed"`
	LookupFails int                      `json:"lookup_failed"`
}

func runSummaryFor(r pipeline.Result) runSummary {
	return runSummary{
		RunID:       r.RunID,
		Submission:  r.Thread.Submission.ID,
		Title:       r.Thread.Submission.Title,
		Comments:    len(r.Thread.Comments),
		Extracted:   r.Extracted,
		Failed:      r.Failed,
		Empty:       r.Empty,
		Tally:       r.Tally,
		Request:     r.Request.Entries(),
		Links:       r.Links,
		DryRun:      r.Playlist.DryRun,
		PlaylistURL: r.Playlist.Playlist.URL,
		Tracks:      len(r.Playlist.Tracks),
		Matched:     r.Playlist.Count(playlist.StatusMatched),
		Missed:      r.Playlist.Count(playlist.StatusMissed),
		LookupFails: r.Playlist.Count(playlist.StatusFailed),
	}
}

func renderRunResult(out io.Writer, r pipeline.Result) {
	sub := r.Thread.Submission
	fmt.Fprintf(out, "Thread:    %s\n", orDash(sub.Title))
	fmt.Fprintf(out, "URL:       %s\n", orDash(sub.ThreadURL()))
	fmt.Fprintf(out, "Comments:  %d read, %d extracted, %d empty, %d failed\n",
		len(r.Thread.Comments), r.Extracted, r.Empty, r.Failed)
	counts := r.Request.Counts()
	fmt.Fprintf(out, "Entities:  %d artists, %d albums, %d songs (%d duplicates, %d over cap)\n",
		counts.Artists, counts.Albums, counts.Songs, r.Tally.Duplicates, r.Tally.Capped)
	if len(r.Links) > 0 {
		fmt.Fprintf(out, "Links:     %d Spotify tracks linked in comments\n", len(r.Links))
	}
	fmt.Fprintln(out)

	switch {
	case r.Request.Empty() && len(r.Links) == 0:
		fmt.Fprintln(out, "No entities extracted.")
	case r.Playlist.DryRun || len(r.Playlist.Resolutions) == 0:
		fmt.Fprintln(out, renderRequestTable(r.Request))
		if r.Playlist.DryRun {
			fmt.Fprintln(out, "Dry run: no playlist created.")
		}
	default:
		fmt.Fprintln(out, renderResolutionTable(r.Playlist.Resolutions))
		fmt.Fprintf(out, "Matched %d, missed %d, failed %d; %d tracks (%d duplicates dropped)\n",
			r.Playlist.Count(playlist.StatusMatched),
			r.Playlist.Count(playlist.StatusMissed),
			r.Playlist.Count(playlist.StatusFailed),
			len(r.Playlist.Tracks), r.Playlist.Duplicates)
	}

	if r.Playlist.Published() {
		fmt.Fprintf(out, "Playlist:  %s\n", r.Playlist.Playlist.Name)
		fmt.Fprintf(out, "           %s\n", r.Playlist.Playlist.URL)
	} else if !r.Playlist.DryRun {
		fmt.Fprintln(out, "No playlist created.")
	}
	if r.ReportPaths != nil {
		fmt.Fprintf(out, "Report:    %s\n           %s\n", r.ReportPaths.Comments, r.ReportPaths.Entities)
	}
}

func renderRequestTable(req entity.PlaylistRequest) string {
	rows := make([][]string, 0, req.Len())
	i := 0
	for e := range req.All() {
		i++
		rows = append(rows, []string{strconv.Itoa(i), e.Kind.String(), e.Name, orDash(e.Artist), orDash(e.Source)})
	}
	return renderTable(
		[]string{"#", "Kind", "Name", "Artist", "Comment"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func renderResolutionTable(resolutions []playlist.Resolution) string {
	rows := make([][]string, 0, len(resolutions))
	for i, res := range resolutions {
		match := res.Match.Name
		if res.Swapped {
			match += " (swapped)"
		}
		if res.Err != nil {
			match = res.Err.Error()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			res.Entity.Kind.String(),
			res.Entity.Name,
			orDash(res.Entity.Artist),
			string(res.Status),
			orDash(match),
			strconv.Itoa(len(res.Tracks)),
		})
	}
	return renderTable(
		[]string{"#", "Kind", "Name", "Artist", "Status", "Match", "Tracks"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
