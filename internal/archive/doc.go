// Package archive streams rows out of Pushshift-style Reddit dumps.
//
// Dumps are line-delimited JSON, usually zstd compressed with long
// windows. Reader decodes lazily and yields one Record per line; callers peek
// at single fields (id, link_id) before paying for a full decode. Malformed
// lines are counted and skipped rather than failing the scan.
package archive
