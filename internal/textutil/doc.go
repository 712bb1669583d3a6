// Package textutil provides text helpers shared by extraction, reconciliation
// and the playlist builder.
//
// NormalizeName produces the comparison key for music names: Unicode NFKC,
// case folded, whitespace collapsed. SanitizeFileName makes
// submission ids safe for use in report file names.
package textutil
