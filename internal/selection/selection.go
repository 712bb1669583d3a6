// Package selection narrows archive rows down to the thread that feeds extraction.
package selection

import (
	"context"
	"fmt"
	"log/slog"

	"ifyoulike/internal/archive"
	"ifyoulike/internal/config"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
)

// Options controls which comments survive selection.
type Options struct {
	// IncludeSubmission presents the post itself as the first comment.
	IncludeSubmission bool
	// MinScore drops comments scoring below it. Zero keeps everything,
	// including negatively scored comments.
	MinScore int
	// MaxComments caps replies after filtering; zero means unlimited.
	MaxComments int
}

// OptionsFromConfig maps the selection config section onto Options.
func OptionsFromConfig(cfg config.Selection) Options {
	return Options{
		IncludeSubmission: cfg.IncludeSubmission,
		MinScore:          cfg.MinCommentScore,
		MaxComments:       cfg.MaxComments,
	}
}

// Report describes what selection kept and dropped.
type Report struct {
	Scanned   int `json:"scanned" yaml:"scanned"`
	Malformed int `json:"malformed" yaml:"malformed"`
	Matched   int `json:"matched" yaml:"matched"`
	Removed   int `json:"removed" yaml:"removed"`
	LowScore  int `json:"low_score" yaml:"low_score"`
	Duplicate int `json:"duplicate" yaml:"duplicate"`
	Truncated int `json:"truncated" yaml:"truncated"`
	Kept      int `json:"kept" yaml:"kept"`
}

// Select filters raw thread comments. The submission, when included, comes
// first; replies keep their archive order. Comments with deleted, removed
// or empty bodies are dropped, as are repeated comment ids.
func Select(sub reddit.Submission, comments []reddit.Comment, opts Options) (reddit.Thread, Report) {
	thread := reddit.Thread{Submission: sub}
	report := Report{Matched: len(comments)}

	if opts.IncludeSubmission {
		if first := sub.AsComment(); !reddit.Removed(first.Text) {
			thread.Comments = append(thread.Comments, first)
		}
	}

	seen := make(map[string]struct{}, len(comments))
	replies := 0
	for _, c := range comments {
		if c.SubmissionID != "" && c.SubmissionID != sub.ID {
			continue
		}
		if reddit.Removed(c.Text) {
			report.Removed++
			continue
		}
		if opts.MinScore != 0 && c.Score < opts.MinScore {
			report.LowScore++
			continue
		}
		if _, dup := seen[c.ID]; dup && c.ID != "" {
			report.Duplicate++
			continue
		}
		seen[c.ID] = struct{}{}
		if opts.MaxComments > 0 && replies >= opts.MaxComments {
			report.Truncated++
			continue
		}
		replies++
		thread.Comments = append(thread.Comments, c)
	}
	report.Kept = len(thread.Comments)
	return thread, report
}

// Load reads the submission and its comments from the two archives and
// applies Select. A submission missing from the archive is reported as
// services.ErrNotFound.
func Load(ctx context.Context, logger *slog.Logger, submissionsPath, commentsPath, submissionID string, opts Options) (reddit.Thread, Report, error) {
	logger = logging.NewComponentLogger(logger, "selection")
	id := reddit.TrimFullname(submissionID)
	if id == "" {
		return reddit.Thread{}, Report{}, services.Wrap(services.ErrValidation, "select", "load thread", "submission id required", nil)
	}

	sub, subStats, err := archive.FindSubmission(ctx, submissionsPath, id)
	if err != nil {
		return reddit.Thread{}, Report{}, err
	}
	logger.Debug("submission located",
		logging.String("title", sub.Title),
		logging.Int("lines_scanned", subStats.Lines),
	)

	comments, stats, err := archive.CommentsFor(ctx, commentsPath, id)
	if err != nil {
		return reddit.Thread{}, Report{}, fmt.Errorf("read comments: %w", err)
	}
	thread, report := Select(sub, comments, opts)
	report.Scanned = stats.Lines
	report.Malformed = stats.Malformed + subStats.Malformed

	if report.Malformed > 0 {
		logging.WarnWithContext(logger, "skipped malformed archive rows", "archive_malformed",
			logging.Int("malformed", report.Malformed),
			logging.String(logging.FieldImpact, "rows ignored"),
		)
	}
	logger.Info("thread selected",
		logging.Int("matched", report.Matched),
		logging.Int("kept", report.Kept),
		logging.Int("removed", report.Removed),
		logging.Int("low_score", report.LowScore),
	)
	return thread, report, nil
}
