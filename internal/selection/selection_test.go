package selection

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"ifyoulike/internal/logging"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
	"ifyoulike/internal/testsupport"
)

func comment(id, text string, score int) reddit.Comment {
	return reddit.Comment{ID: id, Kind: reddit.KindComment, Text: text, Score: score, SubmissionID: "abc"}
}

func ids(thread reddit.Thread) string {
	out := make([]string, 0, len(thread.Comments))
	for _, c := range thread.Comments {
		out = append(out, c.ID)
	}
	return strings.Join(out, ",")
}

func TestSelectDropsRemovedAndKeepsOrder(t *testing.T) {
	sub := reddit.Submission{ID: "abc", Title: "IIL Boards of Canada"}
	thread, report := Select(sub, []reddit.Comment{
		comment("c1", "Tycho", 5),
		comment("c2", "[deleted]", 1),
		comment("c3", "  ", 1),
		comment("c4", "[removed]", 1),
		comment("c5", "Helios", -2),
		comment("c1", "Tycho again", 5),
	}, Options{IncludeSubmission: true})

	if got := ids(thread); got != "abc,c1,c5" {
		t.Fatalf("unexpected selection %q", got)
	}
	if thread.Comments[0].Kind != reddit.KindSubmission {
		t.Fatal("submission should be first")
	}
	if report.Removed != 3 || report.Duplicate != 1 || report.Kept != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSelectMinScoreAndMaxComments(t *testing.T) {
	sub := reddit.Submission{ID: "abc", Title: "IIL Air"}
	thread, report := Select(sub, []reddit.Comment{
		comment("c1", "Moby", 1),
		comment("c2", "Zero 7", 10),
		comment("c3", "Bonobo", 7),
		comment("c4", "Lemon Jelly", 3),
	}, Options{MinScore: 3, MaxComments: 2})

	if got := ids(thread); got != "c2,c3" {
		t.Fatalf("unexpected selection %q", got)
	}
	if report.LowScore != 1 || report.Truncated != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSelectSkipsEmptySubmission(t *testing.T) {
	thread, _ := Select(reddit.Submission{ID: "abc", Title: "[deleted]"}, nil, Options{IncludeSubmission: true})
	if len(thread.Comments) != 0 {
		t.Fatalf("expected no comments, got %+v", thread.Comments)
	}
}

func TestLoadReadsBothArchives(t *testing.T) {
	dir := t.TempDir()
	subs := filepath.Join(dir, "subs.ndjson")
	comments := filepath.Join(dir, "comments.ndjson")
	testsupport.WriteArchive(t, subs, `{"id":"abc","title":"IIL Boards of Canada","selftext":""}`)
	testsupport.WriteArchive(t, comments,
		`{"id":"c1","link_id":"t3_abc","body":"Tycho","score":4}`,
		`{"id":"c2","link_id":"t3_zzz","body":"Other thread"}`,
		`{broken`,
	)

	thread, report, err := Load(context.Background(), logging.NewNop(), subs, comments, "t3_abc", Options{IncludeSubmission: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(thread); got != "abc,c1" {
		t.Fatalf("unexpected selection %q", got)
	}
	if report.Scanned != 3 || report.Malformed != 1 || report.Matched != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	_, _, err = Load(context.Background(), logging.NewNop(), subs, comments, "nope", Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, _, err = Load(context.Background(), logging.NewNop(), subs, comments, " ", Options{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
