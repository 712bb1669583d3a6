package extractcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"ifyoulike/internal/services"
)

const (
	tableName = "completions"

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `CREATE TABLE IF NOT EXISTS completions (
	model       TEXT NOT NULL,
	prompt_hash TEXT NOT NULL,
	response    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (model, prompt_hash)
)`

// Store is an exclusive handle on the completion cache database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
	now  func() time.Time
}

// Open creates or opens the cache at path and takes its lock.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open", "cache.path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open",
			fmt.Sprintf("completion cache %s is in use by another run", path), nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, path: path, lock: lock, now: time.Now}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database and the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = fmt.Errorf("release cache lock: %w", unlockErr)
	}
	return err
}

// PromptHash is the cache key digest for a prompt pair.
func PromptHash(systemPrompt, userPrompt string) string {
	sum := sha256.Sum256([]byte(systemPrompt + "\x00" + userPrompt))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for a prompt pair.
func (s *Store) Get(ctx context.Context, model, systemPrompt, userPrompt string) (string, bool, error) {
	query, args, err := sq.Select("response").
		From(tableName).
		Where(sq.Eq{"model": model, "prompt_hash": PromptHash(systemPrompt, userPrompt)}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build cache query: %w", err)
	}
	var response string
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&response)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache: %w", err)
	}
	return response, true, nil
}

// Put stores or replaces the response for a prompt pair.
func (s *Store) Put(ctx context.Context, model, systemPrompt, userPrompt, response string) error {
	query, args, err := sq.Insert(tableName).
		Columns("model", "prompt_hash", "response", "created_at").
		Values(model, PromptHash(systemPrompt, userPrompt), response, s.now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(model, prompt_hash) DO UPDATE SET response = excluded.response, created_at = excluded.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cache insert: %w", err)
	}
	if err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Len returns the number of cached responses for model, or for every model
// when model is empty.
func (s *Store) Len(ctx context.Context, model string) (int, error) {
	builder := sq.Select("COUNT(*)").From(tableName)
	if model != "" {
		builder = builder.Where(sq.Eq{"model": model})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cache count: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

// Purge deletes entries for model, or every entry when model is empty.
func (s *Store) Purge(ctx context.Context, model string) (int64, error) {
	builder := sq.Delete(tableName)
	if model != "" {
		builder = builder.Where(sq.Eq{"model": model})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cache purge: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
