// Package services defines shared utilities consumed by the pipeline stages and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, submission and comment
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     setup errors (abort), extraction failures (skip the comment), or lookup
//     misses (skip the entity).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
