package services

import "context"

type contextKey string

const (
	runIDKey        contextKey = "run_id"
	stageKey        contextKey = "stage"
	submissionIDKey contextKey = "submission_id"
	commentIDKey    contextKey = "comment_id"
)

// WithRunID annotates context with the correlation identifier for one CLI run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, runIDKey)
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, stageKey)
}

// WithSubmissionID annotates context with the Reddit submission being processed.
func WithSubmissionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, submissionIDKey, id)
}

// SubmissionIDFromContext returns the submission identifier if present.
func SubmissionIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, submissionIDKey)
}

// WithCommentID annotates context with the comment currently being extracted.
func WithCommentID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, commentIDKey, id)
}

// CommentIDFromContext returns the comment identifier if present.
func CommentIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, commentIDKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
