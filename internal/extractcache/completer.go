package extractcache

import (
	"context"
	"log/slog"

	"ifyoulike/internal/logging"
)

// Backend is the completion capability being cached.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Completer serves completions from the store, falling back to the backend.
// Failed backend calls are never cached.
type Completer struct {
	backend Backend
	store   *Store
	logger  *slog.Logger

	hits   int
	misses int
}

// Wrap layers the cache over backend.
func Wrap(backend Backend, store *Store, logger *slog.Logger) *Completer {
	return &Completer{
		backend: backend,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "extractcache"),
	}
}

// Complete implements the extractor's completion capability.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.backend.Model()
	logger := logging.WithContext(ctx, c.logger)

	cached, ok, err := c.store.Get(ctx, model, systemPrompt, userPrompt)
	if err != nil {
		logging.WarnWithContext(logger, "completion cache read failed", "cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "completion requested from model"),
		)
	}
	if ok {
		c.hits++
		logger.Debug("completion cache hit", logging.String("model", model))
		return cached, nil
	}

	c.misses++
	response, err := c.backend.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	if putErr := c.store.Put(ctx, model, systemPrompt, userPrompt, response); putErr != nil {
		logging.WarnWithContext(logger, "completion cache write failed", "cache_write_failed",
			logging.Error(putErr),
			logging.String(logging.FieldImpact, "next run will call the model again"),
		)
	}
	return response, nil
}

// Model reports the backend model.
func (c *Completer) Model() string {
	return c.backend.Model()
}

// Stats returns hit and miss counts for this process.
func (c *Completer) Stats() (hits, misses int) {
	return c.hits, c.misses
}
