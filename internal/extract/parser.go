package extract

import (
	"regexp"
	"strings"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/services/llm"
	"ifyoulike/internal/textutil"
)

// Mention is one parsed entity before it is attributed to a comment.
type Mention struct {
	Kind   entity.Kind
	Name   string
	Artist string
}

// Parser turns raw completion text into mentions. Implementations must not
// fail: unusable input yields an empty slice.
type Parser interface {
	Parse(text string) []Mention
}

// DefaultParser accepts the JSON object requested by UserPrompt and falls
// back to tagged lines.
type DefaultParser struct{}

// Parse implements Parser.
func (DefaultParser) Parse(text string) []Mention {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if mentions, ok := parseJSON(text); ok {
		return mentions
	}
	return parseTaggedLines(text)
}

// searchPayload mirrors the JSON shape the prompt requests. Entries are kept
// loose because models alternate between strings and objects.
type searchPayload struct {
	Artists []any `json:"artist_searches"`
	Albums  []any `json:"album_searches"`
	Songs   []any `json:"song_searches"`
}

func parseJSON(text string) ([]Mention, bool) {
	var payload searchPayload
	if err := llm.DecodeLLMJSON(text, &payload); err != nil {
		return nil, false
	}
	if payload.Artists == nil && payload.Albums == nil && payload.Songs == nil {
		return nil, false
	}

	var out []Mention
	for _, item := range payload.Artists {
		if name := entryField(item, "artist_name", "name", "artist"); name != "" {
			out = append(out, Mention{Kind: entity.Artist, Name: name})
		}
	}
	for _, item := range payload.Albums {
		if name := entryField(item, "album_title", "title", "name", "album"); name != "" {
			out = append(out, Mention{Kind: entity.Album, Name: name, Artist: entryArtist(item)})
		}
	}
	for _, item := range payload.Songs {
		if name := entryField(item, "song_title", "title", "name", "song", "track"); name != "" {
			out = append(out, Mention{Kind: entity.Song, Name: name, Artist: entryArtist(item)})
		}
	}
	return out, true
}

// entryField reads a name from a bare string entry or from the first
// non-empty key of an object entry.
func entryField(item any, keys ...string) string {
	switch v := item.(type) {
	case string:
		return cleanName(v)
	case map[string]any:
		for _, key := range keys {
			if s, ok := v[key].(string); ok {
				if name := cleanName(s); name != "" {
					return name
				}
			}
		}
	}
	return ""
}

func entryArtist(item any) string {
	if _, ok := item.(map[string]any); !ok {
		return ""
	}
	return entryField(item, "artist_name", "artist")
}

var (
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s*`)
	tagPattern    = regexp.MustCompile(`^(?i)(artists?|bands?|albums?|records?|eps?|songs?|tracks?)\s*[:=]\s*(.+)$`)
	bySeparator   = regexp.MustCompile(`(?i)\s+by\s+`)
	dashSeparator = regexp.MustCompile(`\s+[-–—]\s+`)
)

func parseTaggedLines(text string) []Mention {
	var out []Mention
	for line := range strings.Lines(text) {
		line = bulletPattern.ReplaceAllString(strings.TrimSpace(line), "")
		match := tagPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		kind, ok := entity.ParseKind(match[1])
		if !ok {
			continue
		}
		for _, part := range splitValues(kind, match[2]) {
			name, artist := splitCredit(kind, part)
			if name == "" {
				continue
			}
			out = append(out, Mention{Kind: kind, Name: name, Artist: artist})
		}
	}
	return out
}

// splitValues breaks a tag value into entries on commas. Credited values
// split only when every entry carries its own credit, which keeps names such
// as "Tyler, the Creator - Igor" whole. Artist names are split on every
// comma, so "Crosby, Stills, Nash & Young" yields three artists.
func splitValues(kind entity.Kind, value string) []string {
	parts := strings.Split(value, ",")
	if kind == entity.Artist || len(parts) == 1 || !hasCredit(value) {
		return parts
	}
	for _, part := range parts {
		if !hasCredit(part) {
			return []string{value}
		}
	}
	return parts
}

func hasCredit(s string) bool {
	return bySeparator.MatchString(s) || dashSeparator.MatchString(s)
}

// splitCredit separates "Title by Artist" or "Title - Artist" for albums and
// songs. Artists are taken verbatim.
func splitCredit(kind entity.Kind, part string) (string, string) {
	part = cleanName(part)
	if kind == entity.Artist || part == "" {
		return part, ""
	}
	for _, sep := range []*regexp.Regexp{bySeparator, dashSeparator} {
		if loc := sep.FindStringIndex(part); loc != nil {
			return cleanName(part[:loc[0]]), cleanName(part[loc[1]:])
		}
	}
	return part, ""
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`*_")
	s = textutil.CollapseSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "n/a", "unknown", "null":
		return ""
	}
	return s
}
