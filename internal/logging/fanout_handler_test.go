package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerNilHandlers(t *testing.T) {
	h := newFanoutHandler(nil, nil)
	if _, ok := h.(NoopHandler); !ok {
		t.Fatalf("expected NoopHandler for all nil handlers, got %T", h)
	}
}

func TestNewFanoutHandlerSingleHandlerUnwrapped(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsPerHandlerLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout to be enabled when any handler accepts debug")
	}

	logger := slog.New(h).With("component", "pipeline")
	logger.Debug("detail")
	logger.Info("summary")

	if strings.Contains(info.String(), "detail") {
		t.Fatalf("info handler received debug record: %q", info.String())
	}
	if !strings.Contains(info.String(), "summary") || !strings.Contains(debug.String(), "detail") {
		t.Fatalf("unexpected fanout output: info=%q debug=%q", info.String(), debug.String())
	}
	if !strings.Contains(debug.String(), "component=pipeline") {
		t.Fatalf("expected attrs propagated to every handler: %q", debug.String())
	}
}

func TestDedupeKVsByKeyKeepsLastValue(t *testing.T) {
	kvs := []kv{
		{key: "stage", value: slog.StringValue("select")},
		{key: "count", value: slog.IntValue(1)},
		{key: "stage", value: slog.StringValue("extract")},
	}
	got := dedupeKVsByKey(kvs)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].key != "stage" || got[0].value.String() != "extract" {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
}

func TestFormatSubject(t *testing.T) {
	cases := []struct {
		submission, comment, stage, want string
	}{
		{"abc", "c1", "extract", "t3_abc/c1 · extract"},
		{"abc", "", "", "t3_abc"},
		{"", "c1", "", "c1"},
		{"", "", "playlist", "playlist"},
		{"", "", "", ""},
	}
	for _, tc := range cases {
		if got := FormatSubject(tc.submission, tc.comment, tc.stage); got != tc.want {
			t.Errorf("FormatSubject(%q,%q,%q) = %q, want %q", tc.submission, tc.comment, tc.stage, got, tc.want)
		}
	}
}
