package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ifyoulike/internal/config"
	"ifyoulike/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	configPath string
	llm        *fakeLLM
}

// fakeLLM answers OpenAI-style chat completions by matching the comment text.
type fakeLLM struct {
	server  *httptest.Server
	calls   atomic.Int32
	replies map[string]string
}

func newFakeLLM(t *testing.T, replies map[string]string) *fakeLLM {
	t.Helper()
	f := &fakeLLM{replies: replies}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		user := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				user = m.Content
			}
		}
		content := `{"artist_searches":[],"album_searches":[],"song_searches":[]}`
		if strings.Contains(user, `{"ok":true}`) {
			content = `{"ok":true}`
		}
		_, text, _ := strings.Cut(user, "Text: ")
		if reply, ok := f.replies[strings.TrimSpace(text)]; ok {
			content = reply
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{
		"OPENAI_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REFRESH_TOKEN", "SPOTIFY_REDIRECT_URI",
	} {
		t.Setenv(key, "")
	}

	llm := newFakeLLM(t, map[string]string{
		"Boards of Canada for sure":                      `{"artist_searches":["Boards of Canada"]}`,
		"Music Has the Right to Children is the classic": `{"album_searches":[{"album_title":"Music Has the Right to Children","artist_name":"Boards of Canada"}]}`,
		"seconding boards of canada":                     `{"artist_searches":["Boards of Canada"]}`,
	})

	opts = append([]testsupport.ConfigOption{
		testsupport.WithLLMEndpoint(llm.server.URL),
		testsupport.WithArchives(
			[]string{`{"id":"abc","title":"IIL Aphex Twin, what else?","selftext":"","permalink":"/r/ifyoulikeblank/comments/abc/iil/"}`},
			[]string{
				`{"id":"c1","link_id":"t3_abc","body":"Boards of Canada for sure","score":10}`,
				`{"id":"c2","link_id":"t3_abc","body":"Music Has the Right to Children is the classic","score":8}`,
				`{"id":"c3","link_id":"t3_abc","body":"[deleted]","score":1}`,
				`{"id":"c4","link_id":"t3_abc","body":"seconding boards of canada","score":3}`,
				`{"id":"x1","link_id":"t3_zzz","body":"Other thread","score":3}`,
			},
		),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Selection.IncludeSubmission = false
	cfg.LLM.RetryAttempts = 1

	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, baseDir: base, configPath: configPath, llm: llm}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	raw, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	writeFile(t, path, string(raw))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}
