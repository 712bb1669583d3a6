package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the case-insensitive comparison key for a music name.
// Compatibility forms are unified (NFKC) so full-width letters and ligatures
// compare equal to their plain spelling; inner whitespace runs become a
// single space.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	folded := cases.Fold().String(norm.NFKC.String(name))
	return strings.Join(strings.FieldsFunc(folded, unicode.IsSpace), " ")
}

// CollapseSpace trims s and replaces inner whitespace runs with a single space
// without changing case.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most limit runes, appending suffix when anything
// was cut.
func Truncate(s string, limit int, suffix string) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + suffix
}
