package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/pipeline"
	"ifyoulike/internal/playlist"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
	"ifyoulike/internal/spotify"
	"ifyoulike/internal/testsupport"
)

func TestRunDryRunReconcilesThread(t *testing.T) {
	env := setupCLITestEnv(t)
	outDir := filepath.Join(env.baseDir, "out")

	out, _, err := runCLI(t, []string{"run", "t3_abc", "--dry-run", "--output-dir", outDir}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "IIL Aphex Twin, what else?")
	requireContains(t, out, "Boards of Canada")
	requireContains(t, out, "Music Has the Right to Children")
	requireContains(t, out, "1 duplicates")
	requireContains(t, out, "Dry run: no playlist created.")
	if got := env.llm.calls.Load(); got != 3 {
		t.Fatalf("expected 3 completion calls (deleted comment skipped), got %d", got)
	}

	for _, name := range []string{"abc_comments.csv", "abc_entities.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected report file %s: %v", name, err)
		}
	}
}

func TestRunJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "abc", "--dry-run", "--json", "--max-albums", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary struct {
		Submission string `json:"submission"`
		DryRun     bool   `json:"dry_run"`
		Request    []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"request"`
		Reconcile struct {
			Capped int `json:"capped"`
		} `json:"reconcile"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	names := make([]string, 0, len(summary.Request))
	for _, e := range summary.Request {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"Boards of Canada"}) || summary.Reconcile.Capped != 1 || !summary.DryRun {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunCapsFallBackToConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Playlist.MaxAlbums = 0
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"run", "abc", "--dry-run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, `"capped": 1`)

	help, _, err := runCLI(t, []string{"run", "--help"}, "")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, help, "overrides playlist.max_artists) (default 25)")
	requireContains(t, help, "overrides playlist.max_albums) (default 25)")
}

func TestRunWithoutLLMKeyIsSetupError(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutCredentials())

	_, _, err := runCLI(t, []string{"run", "abc", "--dry-run"}, env.configPath)
	if err == nil {
		t.Fatal("expected setup error")
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", code, err)
	}
	if env.llm.calls.Load() != 0 {
		t.Fatal("no completion should be attempted before setup succeeds")
	}
}

func TestRunWithoutSpotifyCredentialsIsSetupError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Spotify.RefreshToken = ""
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"run", "abc"}, env.configPath)
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", code, err)
	}
	if !strings.Contains(err.Error(), "SPOTIFY_REFRESH_TOKEN") {
		t.Fatalf("expected missing refresh token in %v", err)
	}
}

func TestRunUnreadableArchiveIsSetupError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "abc", "--dry-run", "--comments", filepath.Join(env.baseDir, "nope.zst")}, env.configPath)
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", code, err)
	}
}

func TestRunRejectsNegativeCaps(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "abc", "--dry-run", "--max-artists", "-1"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--max-artists") {
		t.Fatalf("expected cap validation error, got %v", err)
	}
}

func TestRenderRunResultPublished(t *testing.T) {
	req := entity.Reconcile(entity.Limits{Artists: 5, Albums: 5}, slices.Values([]entity.Entity{
		entity.New(entity.Artist, "Tycho", "", "c1"),
		entity.New(entity.Album, "Geogaddi", "Boards of Canada", "c2"),
	}))
	result := pipeline.Result{
		Thread:  reddit.Thread{Submission: reddit.Submission{ID: "abc", Title: "IIL chill electronica"}},
		Request: req,
		Playlist: playlist.Result{
			Playlist: spotify.Playlist{ID: "pl1", Name: "Reddit: IIL chill electronica", URL: "https://open.spotify.com/playlist/pl1"},
			Resolutions: []playlist.Resolution{
				{Entity: req.Entries()[0], Status: playlist.StatusMatched, Match: spotify.Match{Name: "Tycho"}, Tracks: make([]spotify.Track, 3)},
				{Entity: req.Entries()[1], Status: playlist.StatusMissed},
			},
			Tracks: make([]spotify.Track, 3),
		},
	}

	var out strings.Builder
	renderRunResult(&out, result)
	text := out.String()
	requireContains(t, text, "matched")
	requireContains(t, text, "missed")
	requireContains(t, text, "Matched 1, missed 1, failed 0; 3 tracks")
	requireContains(t, text, "https://open.spotify.com/playlist/pl1")
}
