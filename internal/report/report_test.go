package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"ifyoulike/internal/entity"
)

func sampleReport() Report {
	req := entity.Reconcile(entity.Limits{Artists: 5, Albums: 5},
		func(yield func(entity.Entity) bool) {
			_ = yield(entity.New(entity.Artist, "Boards of Canada", "", "c1")) &&
				yield(entity.New(entity.Album, "Music Has the Right to Children", "Boards of Canada", "c2"))
		},
	)
	return Report{
		RunID:        "run-1",
		SubmissionID: "abc123",
		Title:        "IIL Boards of Canada",
		GeneratedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Limits:       entity.Limits{Artists: 5, Albums: 5},
		Request:      req,
		Resolutions: []Resolution{
			{Kind: entity.Artist, Name: "Boards of Canada", Status: "matched", MatchID: "boc", Tracks: 3},
		},
		Comments: []Comment{
			{ID: "c1", Kind: "comment", Author: "u1", Score: 4, Created: time.Unix(1700000000, 0), Status: CommentExtracted, Entities: 1, Text: "Boards of Canada, obviously"},
			{ID: "c2", Kind: "comment", Author: "u2", Score: 1, Status: CommentFailed, Error: "http 503", Text: "line one\nline two"},
		},
	}
}

func TestWriteProducesCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(dir, FormatJSON, sampleReport())
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !strings.HasSuffix(paths.Comments, "abc123_comments.csv") || !strings.HasSuffix(paths.Entities, "abc123_entities.json") {
		t.Fatalf("unexpected paths %+v", paths)
	}

	raw, err := os.ReadFile(paths.Comments)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "id" {
		t.Fatalf("unexpected csv rows %v", rows)
	}
	if rows[1][4] != "1700000000" || rows[2][4] != "" {
		t.Fatalf("unexpected created column %q %q", rows[1][4], rows[2][4])
	}
	if rows[2][9] != "line one\nline two" || rows[2][8] != "http 503" {
		t.Fatalf("multi-line text not preserved: %q", rows[2])
	}

	raw, err = os.ReadFile(paths.Entities)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if _, ok := doc["comments"]; ok {
		t.Fatal("comments must not be embedded in the entities document")
	}
	request := doc["request"].(map[string]any)
	artists := request["artists"].([]any)
	if artists[0].(map[string]any)["kind"] != "artist" {
		t.Fatalf("expected kind label, got %v", artists[0])
	}
}

func TestWriteYAML(t *testing.T) {
	paths, err := Write(t.TempDir(), FormatYAML, sampleReport())
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	raw, err := os.ReadFile(paths.Entities)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		SubmissionID string `yaml:"submission_id"`
		Request      struct {
			Albums []struct {
				Kind   string `yaml:"kind"`
				Name   string `yaml:"name"`
				Artist string `yaml:"artist"`
			} `yaml:"albums"`
		} `yaml:"request"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if doc.SubmissionID != "abc123" || len(doc.Request.Albums) != 1 || doc.Request.Albums[0].Kind != "album" {
		t.Fatalf("unexpected yaml document %+v", doc)
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if _, err := Write(t.TempDir(), "xml", sampleReport()); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
