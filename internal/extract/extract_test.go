package extract

import (
	"context"
	"errors"
	"slices"
	"testing"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
)

type stubCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, system, user)
	return s.reply, s.err
}

func TestExtractParsesJSONPayload(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"artist_searches": ["Radiohead", "  Portishead "],
		"album_searches": [{"album_title": "Kid A", "artist_name": "Radiohead"}],
		"song_searches": [{"song_title": "Roads", "artist_name": "Portishead"}, "Teardrop"]
	}`}
	x := New(stub)

	seq, err := x.Extract(context.Background(), reddit.Comment{ID: "c1", Text: "IIL Radiohead and Portishead"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	got := slices.Collect(seq)
	want := []entity.Entity{
		{Kind: entity.Artist, Name: "Radiohead", Source: "c1"},
		{Kind: entity.Artist, Name: "Portishead", Source: "c1"},
		{Kind: entity.Album, Name: "Kid A", Artist: "Radiohead", Source: "c1"},
		{Kind: entity.Song, Name: "Roads", Artist: "Portishead", Source: "c1"},
		{Kind: entity.Song, Name: "Teardrop", Source: "c1"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected entities\n got: %+v\nwant: %+v", got, want)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one completion call, got %d", stub.calls)
	}
	if stub.prompts[0] != SystemPrompt {
		t.Fatalf("unexpected system prompt %q", stub.prompts[0])
	}
	if stub.prompts[1] != UserPrompt("IIL Radiohead and Portishead") {
		t.Fatalf("unexpected user prompt %q", stub.prompts[1])
	}
}

func TestExtractBlankTextSkipsCompletion(t *testing.T) {
	stub := &stubCompleter{reply: `{"artist_searches":["Beck"]}`}
	seq, err := New(stub).Extract(context.Background(), reddit.Comment{ID: "c1", Text: "  \n\t"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Fatalf("expected no entities, got %+v", got)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no completion call, got %d", stub.calls)
	}
}

func TestExtractFailureWrapsCause(t *testing.T) {
	cause := errors.New("http 503")
	_, err := New(&stubCompleter{err: cause}).Extract(context.Background(), reddit.Comment{ID: "c9", Text: "IIL Beck"})
	if err == nil {
		t.Fatal("expected extraction failure")
	}
	if !errors.Is(err, services.ErrExtraction) || !errors.Is(err, cause) {
		t.Fatalf("expected error to match ErrExtraction and cause, got %v", err)
	}
	var failure *ExtractionFailure
	if !errors.As(err, &failure) || failure.CommentID != "c9" {
		t.Fatalf("expected ExtractionFailure for c9, got %#v", err)
	}
}

func TestExtractUnparseableOutputYieldsNothing(t *testing.T) {
	seq, err := New(&stubCompleter{reply: "I'm sorry, I can't help with that."}).
		Extract(context.Background(), reddit.Comment{ID: "c1", Text: "IIL Beck"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Fatalf("expected no entities, got %+v", got)
	}
}

func TestExtractSequenceIsSinglePass(t *testing.T) {
	seq, err := New(&stubCompleter{reply: `{"artist_searches":["Beck","Air"]}`}).
		Extract(context.Background(), reddit.Comment{ID: "c1", Text: "IIL Beck"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got := slices.Collect(seq); len(got) != 2 {
		t.Fatalf("expected 2 entities on first pass, got %d", len(got))
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Fatalf("expected exhausted sequence, got %+v", got)
	}
}

func TestExtractStopsWhenConsumerBreaks(t *testing.T) {
	seq, err := New(&stubCompleter{reply: `{"artist_searches":["Beck","Air","Low"]}`}).
		Extract(context.Background(), reddit.Comment{ID: "c1", Text: "IIL Beck"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	var seen []string
	for e := range seq {
		seen = append(seen, e.Name)
		break
	}
	if !slices.Equal(seen, []string{"Beck"}) {
		t.Fatalf("unexpected entities %v", seen)
	}
}

type fixedParser []Mention

func (p fixedParser) Parse(string) []Mention { return p }

func TestWithParserOverridesDefault(t *testing.T) {
	x := New(&stubCompleter{reply: "anything"}, WithParser(fixedParser{{Kind: entity.Album, Name: "OK Computer", Artist: "Radiohead"}}))
	seq, err := x.ExtractText(context.Background(), "t3_abc", "IIL Radiohead")
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	got := slices.Collect(seq)
	if len(got) != 1 || got[0].Name != "OK Computer" || got[0].Source != "t3_abc" {
		t.Fatalf("unexpected entities %+v", got)
	}
}

func TestDefaultParserTaggedLines(t *testing.T) {
	text := `Here is what I found:
- Artist: Boards of Canada, Tycho
* Album: Music Has the Right to Children - Boards of Canada
1. Song: Dive by Tycho
Genre: ambient`
	got := DefaultParser{}.Parse(text)
	want := []Mention{
		{Kind: entity.Artist, Name: "Boards of Canada"},
		{Kind: entity.Artist, Name: "Tycho"},
		{Kind: entity.Album, Name: "Music Has the Right to Children", Artist: "Boards of Canada"},
		{Kind: entity.Song, Name: "Dive", Artist: "Tycho"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected mentions\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDefaultParserTaggedCommaNames(t *testing.T) {
	text := `Album: Tyler, the Creator - Igor
Songs: Dive by Tycho, Roygbiv - Boards of Canada
Albums: Odelay, Geogaddi
Artist: Crosby, Stills, Nash & Young`
	got := DefaultParser{}.Parse(text)
	want := []Mention{
		{Kind: entity.Album, Name: "Tyler, the Creator", Artist: "Igor"},
		{Kind: entity.Song, Name: "Dive", Artist: "Tycho"},
		{Kind: entity.Song, Name: "Roygbiv", Artist: "Boards of Canada"},
		{Kind: entity.Album, Name: "Odelay"},
		{Kind: entity.Album, Name: "Geogaddi"},
		// Uncredited artist lists are ambiguous; commas always separate them.
		{Kind: entity.Artist, Name: "Crosby"},
		{Kind: entity.Artist, Name: "Stills"},
		{Kind: entity.Artist, Name: "Nash & Young"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected mentions\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDefaultParserFencedJSONAndPlaceholders(t *testing.T) {
	text := "```json\n{\"artist_searches\":[\"Beck\",\"N/A\",\"\"],\"album_searches\":[{\"title\":\"Odelay\"}]}\n```"
	got := DefaultParser{}.Parse(text)
	want := []Mention{
		{Kind: entity.Artist, Name: "Beck"},
		{Kind: entity.Album, Name: "Odelay"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected mentions\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDefaultParserEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "{}", "no entities here"} {
		if got := (DefaultParser{}).Parse(text); len(got) != 0 {
			t.Fatalf("Parse(%q) = %+v, want none", text, got)
		}
	}
}
