package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks setup failures: missing credentials, unreadable archives.
	ErrConfiguration = errors.New("configuration error")
	// ErrExtraction marks a completion call that failed for a single comment.
	ErrExtraction = errors.New("extraction failure")
	// ErrLookupMiss marks a catalog search that found nothing for an entity.
	ErrLookupMiss = errors.New("lookup miss")
	ErrExternal   = errors.New("external service error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrTransient  = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsSetup reports whether err should abort a run before any processing.
func IsSetup(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// ExitCode maps a command error to the process exit status. Setup failures use a
// distinct status so scripts can tell them apart from runtime failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsSetup(err):
		return 2
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
