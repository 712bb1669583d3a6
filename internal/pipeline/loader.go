package pipeline

import (
	"context"
	"log/slog"

	"ifyoulike/internal/reddit"
	"ifyoulike/internal/selection"
)

// ArchiveLoader reads threads from the submissions and comments dumps.
func ArchiveLoader(submissionsPath, commentsPath string, opts selection.Options, logger *slog.Logger) ThreadLoader {
	return func(ctx context.Context, submissionID string) (reddit.Thread, selection.Report, error) {
		return selection.Load(ctx, logger, submissionsPath, commentsPath, submissionID, opts)
	}
}

// StaticLoader serves a thread already in memory, applying selection.
func StaticLoader(sub reddit.Submission, comments []reddit.Comment, opts selection.Options) ThreadLoader {
	return func(context.Context, string) (reddit.Thread, selection.Report, error) {
		thread, rep := selection.Select(sub, comments, opts)
		return thread, rep, nil
	}
}
