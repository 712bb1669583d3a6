package spotifylinks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"ifyoulike/internal/config"
)

const (
	idJoy    = "3jfZ9M23l0L7RxzYMTgBTv"
	idStroke = "78Gzxi27GuNHTfkn2BylG4"
	idFlesh  = "6HJxxqHWMdidwTVZmZWeHU"
)

func pageServer(t *testing.T, titles map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/track/")
		title, ok := titles[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>" + title + "</title></head><body></body></html>"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRewriteReplacesLinksWithPageTitles(t *testing.T) {
	server := pageServer(t, map[string]string{
		idJoy: "Looking Out For You - song and lyrics by Joy Again | Spotify",
	})
	resolver := NewResolver(
		config.Links{Enabled: true, ResolveTitles: true, TimeoutSeconds: 5},
		WithHTTPClient(server.Client()),
		WithPageBaseURL(server.URL+"/track/"),
	)

	text := "Try [Joy Again](https://open.spotify.com/track/" + idJoy + ") and [New Flesh](https://open.spotify.com/track/" + idFlesh + "?si=abc)"
	got, links := resolver.Rewrite(context.Background(), text)

	want := "Try Looking Out For You - song and lyrics by Joy Again and New Flesh"
	if got != want {
		t.Fatalf("unexpected rewrite\n got: %q\nwant: %q", got, want)
	}
	if ids := TrackIDs(links); !slices.Equal(ids, []string{idJoy, idFlesh}) {
		t.Fatalf("unexpected track ids %v", ids)
	}
	if links[0].Title == "" || links[1].Title != "" || links[1].Label != "New Flesh" {
		t.Fatalf("unexpected link details %+v", links)
	}
	if links[0].URI() != "spotify:track:"+idJoy {
		t.Fatalf("unexpected uri %q", links[0].URI())
	}
}

func TestRewriteWithoutTitleResolutionUsesLabels(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	resolver := NewResolver(config.Links{ResolveTitles: false},
		WithHTTPClient(server.Client()),
		WithPageBaseURL(server.URL+"/track/"),
	)
	text := "[What Ever Happened - The Strokes](https://open.spotify.com/track/" + idStroke + ")"
	got, links := resolver.Rewrite(context.Background(), text)
	if got != "What Ever Happened - The Strokes" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if len(links) != 1 || links[0].TrackID != idStroke {
		t.Fatalf("unexpected links %+v", links)
	}
	if calls != 0 {
		t.Fatalf("expected no page fetches, got %d", calls)
	}
}

func TestRewriteRecordsBareLinksOnce(t *testing.T) {
	resolver := NewResolver(config.Links{})
	text := "https://open.spotify.com/track/" + idJoy + " again https://open.spotify.com/track/" + idJoy
	got, links := resolver.Rewrite(context.Background(), text)
	if got != text {
		t.Fatalf("bare links should be left in place, got %q", got)
	}
	if len(links) != 1 || links[0].Label != "" {
		t.Fatalf("expected a single bare link, got %+v", links)
	}
}

func TestRewriteLeavesPlainTextAlone(t *testing.T) {
	got, links := NewResolver(config.Links{}).Rewrite(context.Background(), "IIL Radiohead")
	if got != "IIL Radiohead" || links != nil {
		t.Fatalf("unexpected result %q %+v", got, links)
	}
}

func TestRewriteKeepsEarlierBracketsOnTheLine(t *testing.T) {
	server := pageServer(t, map[string]string{idFlesh: "Idioteque | Spotify"})
	resolver := NewResolver(
		config.Links{Enabled: true, ResolveTitles: true, TimeoutSeconds: 5},
		WithHTTPClient(server.Client()),
		WithPageBaseURL(server.URL+"/track/"),
	)

	text := "[IIL] Boards of Canada, try [this](https://open.spotify.com/track/" + idFlesh + ")"
	got, links := resolver.Rewrite(context.Background(), text)
	if got != "[IIL] Boards of Canada, try Idioteque" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if len(links) != 1 || links[0].Label != "this" {
		t.Fatalf("unexpected links %+v", links)
	}

	plain := NewResolver(config.Links{})
	text = "[YouTube](https://youtu.be/x) Radiohead rules, also [Idioteque](https://open.spotify.com/track/" + idStroke + ")"
	got, links = plain.Rewrite(context.Background(), text)
	if got != "[YouTube](https://youtu.be/x) Radiohead rules, also Idioteque" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if len(links) != 1 || links[0].Label != "Idioteque" || links[0].TrackID != idStroke {
		t.Fatalf("unexpected links %+v", links)
	}
}
