package extract

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
)

// Completer is the completion capability the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ExtractionFailure reports a completion call that failed for one comment.
// It matches services.ErrExtraction and the underlying cause with errors.Is.
type ExtractionFailure struct {
	CommentID string
	Err       error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: comment %s: %v", services.ErrExtraction, e.CommentID, e.Err)
}

func (e *ExtractionFailure) Unwrap() []error {
	return []error{services.ErrExtraction, e.Err}
}

// Extractor maps comments to entities.
type Extractor struct {
	completer Completer
	parser    Parser
	logger    *slog.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithParser replaces DefaultParser.
func WithParser(p Parser) Option {
	return func(x *Extractor) {
		if p != nil {
			x.parser = p
		}
	}
}

// WithLogger sets the logger used for per-comment diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// New constructs an Extractor around completer.
func New(completer Completer, opts ...Option) *Extractor {
	x := &Extractor{completer: completer, parser: DefaultParser{}}
	for _, opt := range opts {
		opt(x)
	}
	x.logger = logging.NewComponentLogger(x.logger, "extractor")
	return x
}

// Extract asks the model for the entities in c and returns them as a lazy,
// single-pass sequence in the order the model listed them (artists, albums,
// songs). Blank text yields an empty sequence without a completion call. A
// failed call returns *ExtractionFailure; unparseable output is not an error.
func (x *Extractor) Extract(ctx context.Context, c reddit.Comment) (iter.Seq[entity.Entity], error) {
	if strings.TrimSpace(c.Text) == "" {
		return empty, nil
	}
	raw, err := x.completer.Complete(ctx, SystemPrompt, UserPrompt(c.Text))
	if err != nil {
		return nil, &ExtractionFailure{CommentID: c.ID, Err: err}
	}

	logger := logging.WithContext(ctx, x.logger)
	consumed := false
	return func(yield func(entity.Entity) bool) {
		if consumed {
			return
		}
		consumed = true
		mentions := x.parser.Parse(raw)
		if len(mentions) == 0 {
			logger.Debug("no entities in completion", logging.Int("response_bytes", len(raw)))
			return
		}
		logger.Debug("entities parsed", logging.Int("count", len(mentions)))
		for _, m := range mentions {
			if !yield(entity.New(m.Kind, m.Name, m.Artist, c.ID)) {
				return
			}
		}
	}, nil
}

// ExtractText runs the extractor on ad-hoc text attributed to id.
func (x *Extractor) ExtractText(ctx context.Context, id, text string) (iter.Seq[entity.Entity], error) {
	return x.Extract(ctx, reddit.Comment{ID: id, Kind: reddit.KindComment, Text: text})
}

func empty(func(entity.Entity) bool) {}
