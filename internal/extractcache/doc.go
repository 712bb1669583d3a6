// Package extractcache memoizes completion responses in SQLite so reruns over
// the same thread do not pay for the same model calls twice.
//
// Entries are keyed by model name and a SHA-256 digest of the prompts. The
// database is held under an exclusive file lock for the lifetime of a Store;
// a second process opening the same cache fails fast instead of contending
// for writes.
package extractcache
