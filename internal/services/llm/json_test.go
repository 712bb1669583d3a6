package llm

import (
	"strings"
	"testing"
)

func TestDecodeLLMJSON(t *testing.T) {
	type payload struct {
		Artists []string `json:"artist_searches"`
	}
	cases := map[string]string{
		"plain":        `{"artist_searches":["Beck"]}`,
		"fenced":       "```json\n{\"artist_searches\":[\"Beck\"]}\n```",
		"fenced bare":  "```\n{\"artist_searches\":[\"Beck\"]}\n```",
		"prose around": "Sure! Here you go: {\"artist_searches\":[\"Beck\"]} Let me know.",
		"prose fence":  "Here is the JSON:\n```json\n{\"artist_searches\":[\"Beck\"]}\n```\nDone.",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			var got payload
			if err := DecodeLLMJSON(content, &got); err != nil {
				t.Fatalf("DecodeLLMJSON returned error: %v", err)
			}
			if len(got.Artists) != 1 || got.Artists[0] != "Beck" {
				t.Fatalf("unexpected payload %+v", got)
			}
		})
	}
}

func TestDecodeLLMJSONErrors(t *testing.T) {
	var target map[string]any
	if err := DecodeLLMJSON("   ", &target); err == nil {
		t.Fatal("expected empty payload error")
	}
	err := DecodeLLMJSON("no json here at all", &target)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "payload snippet") {
		t.Fatalf("expected snippet in error, got %v", err)
	}
}

func TestSummarizePayloadSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a ", 200)
	got := summarizePayloadSnippet(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	if summarizePayloadSnippet("") != "<empty>" {
		t.Fatal("expected empty marker")
	}
}
