// Package spotifylinks rewrites Spotify track links found in comment text.
//
// Commenters often answer with markdown links such as
// "[New Flesh](https://open.spotify.com/track/<id>)". The link target is
// recorded so the track can be added to the playlist directly, and the link
// is replaced by the track page title (or its label when the page cannot be
// fetched) so the model sees a readable name instead of a URL.
package spotifylinks

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"ifyoulike/internal/config"
	"ifyoulike/internal/logging"
)

const (
	defaultPageBaseURL = "https://open.spotify.com/track/"
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	titleSuffix        = " | Spotify"
)

var (
	// Labels never span brackets, so earlier tags and links on the line stay put.
	markdownLink = regexp.MustCompile(`\[([^\[\]]*)\]\((https://open\.spotify\.com/track/([a-zA-Z0-9]{22}))[^)\s]*\)`)
	bareLink     = regexp.MustCompile(`https://open\.spotify\.com/track/([a-zA-Z0-9]{22})`)
)

// TrackLink describes one Spotify track referenced by a comment.
type TrackLink struct {
	TrackID string `json:"track_id" yaml:"track_id"`
	URL     string `json:"url" yaml:"url"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

// URI returns the spotify:track URI used by playlist mutation calls.
func (l TrackLink) URI() string {
	return "spotify:track:" + l.TrackID
}

// Resolver finds and rewrites track links.
type Resolver struct {
	rest          *resty.Client
	resolveTitles bool
	pageBaseURL   string
	logger        *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithHTTPClient routes page fetches through client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.rest = resty.NewWithClient(client)
		}
	}
}

// WithPageBaseURL overrides the track page location; the track id is appended.
func WithPageBaseURL(base string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(base) != "" {
			r.pageBaseURL = base
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a resolver from the links configuration.
func NewResolver(cfg config.Links, opts ...Option) *Resolver {
	r := &Resolver{
		rest:          resty.New(),
		resolveTitles: cfg.ResolveTitles,
		pageBaseURL:   defaultPageBaseURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r.rest.SetTimeout(timeout).SetHeader("User-Agent", userAgent)
	r.logger = logging.NewComponentLogger(r.logger, "spotifylinks")
	return r
}

// Rewrite replaces markdown track links in text with readable titles and
// returns every referenced track once, in order of appearance. Bare track
// URLs are recorded but left in place.
func (r *Resolver) Rewrite(ctx context.Context, text string) (string, []TrackLink) {
	if !strings.Contains(text, "open.spotify.com/track/") {
		return text, nil
	}

	var (
		links []TrackLink
		seen  = make(map[string]struct{})
		out   strings.Builder
		last  int
	)
	record := func(link TrackLink) {
		if _, ok := seen[link.TrackID]; ok {
			return
		}
		seen[link.TrackID] = struct{}{}
		links = append(links, link)
	}

	for _, m := range markdownLink.FindAllStringSubmatchIndex(text, -1) {
		label := strings.TrimSpace(text[m[2]:m[3]])
		link := TrackLink{
			TrackID: text[m[6]:m[7]],
			URL:     text[m[4]:m[5]],
			Label:   label,
		}
		link.Title = r.title(ctx, link.TrackID)
		replacement := link.Title
		if replacement == "" {
			replacement = label
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(replacement)
		last = m[1]
		record(link)
	}
	out.WriteString(text[last:])
	rewritten := out.String()

	for _, m := range bareLink.FindAllStringSubmatch(rewritten, -1) {
		record(TrackLink{TrackID: m[1], URL: m[0]})
	}
	return rewritten, links
}

// title fetches the track page title, returning "" when disabled or on any
// failure.
func (r *Resolver) title(ctx context.Context, trackID string) string {
	if !r.resolveTitles {
		return ""
	}
	title, err := r.fetchTitle(ctx, r.pageBaseURL+trackID)
	if err != nil {
		logging.WithContext(ctx, r.logger).Debug("track title unavailable",
			logging.String("track_id", trackID),
			logging.Error(err),
		)
		return ""
	}
	return title
}

func (r *Resolver) fetchTitle(ctx context.Context, pageURL string) (string, error) {
	resp, err := r.rest.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("request track page: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("track page returned %s", resp.Status())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("parse track page: %w", err)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}
	title = strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
	if title == "" {
		return "", fmt.Errorf("track page has no title")
	}
	return title, nil
}

// TrackIDs returns the ids of links in order.
func TrackIDs(links []TrackLink) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TrackID)
	}
	return ids
}
