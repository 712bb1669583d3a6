package entity

import (
	"encoding/json"
	"iter"
	"slices"
	"testing"
)

func seq(entities ...Entity) iter.Seq[Entity] {
	return slices.Values(entities)
}

func artist(name string) Entity { return New(Artist, name, "", "") }

func album(name, by string) Entity { return New(Album, name, by, "") }

func song(name, by string) Entity { return New(Song, name, by, "") }

func TestSetCaseInsensitiveDedupe(t *testing.T) {
	set := NewSet(Limits{Artists: 5, Albums: 5})
	if got := set.Add(artist("Radiohead")); got != Accepted {
		t.Fatalf("expected first Radiohead accepted, got %s", got)
	}
	if got := set.Add(artist("radiohead")); got != Duplicate {
		t.Fatalf("expected lowercase Radiohead duplicate, got %s", got)
	}
	if got := set.Add(artist("  RADIOHEAD ")); got != Duplicate {
		t.Fatalf("expected padded Radiohead duplicate, got %s", got)
	}
	req := set.Freeze()
	if names := req.Names(); !slices.Equal(names, []string{"Radiohead"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestSetFirstSeenWinsUnderCap(t *testing.T) {
	req := Reconcile(Limits{Artists: 1, Albums: 5}, seq(artist("Beck"), artist("Radiohead")))
	if names := req.Names(); !slices.Equal(names, []string{"Beck"}) {
		t.Fatalf("expected only Beck, got %v", names)
	}
}

func TestReconcileBoardsOfCanada(t *testing.T) {
	req := Reconcile(Limits{Artists: 5, Albums: 5}, seq(
		artist("Boards of Canada"),
		album("Music Has the Right to Children", ""),
		artist("Boards of Canada"),
	))
	want := []string{"Boards of Canada", "Music Has the Right to Children"}
	if names := req.Names(); !slices.Equal(names, want) {
		t.Fatalf("got %v want %v", names, want)
	}
}

func TestSetCapsHoldForAnyOrder(t *testing.T) {
	input := []Entity{
		artist("A"), album("X", "A"), artist("B"), artist("a"), album("Y", ""),
		artist("C"), album("Z", ""), album("x", ""), artist("D"), song("S1", "A"),
		song("S2", ""), album("W", ""), artist("E"),
	}
	limits := Limits{Artists: 2, Albums: 3}
	for shift := range input {
		rotated := append(slices.Clone(input[shift:]), input[:shift]...)
		set := NewSet(limits)
		set.AddAll(seq(rotated...))
		counts := set.Counts()
		if counts.Artists > limits.Artists || counts.Albums > limits.Albums {
			t.Fatalf("rotation %d exceeded caps: %+v", shift, counts)
		}
		if counts.Songs != 2 {
			t.Fatalf("rotation %d: songs must be uncapped, got %d", shift, counts.Songs)
		}
	}
}

func TestSetZeroCapAcceptsNone(t *testing.T) {
	set := NewSet(Limits{Artists: 0, Albums: -3})
	if got := set.Add(artist("Beck")); got != Capped {
		t.Fatalf("expected capped, got %s", got)
	}
	if got := set.Add(album("Odelay", "Beck")); got != Capped {
		t.Fatalf("expected capped for negative limit, got %s", got)
	}
	if got := set.Add(song("Loser", "Beck")); got != Accepted {
		t.Fatalf("expected song accepted, got %s", got)
	}
	if !set.Full() {
		t.Fatal("expected set to report full when both caps are zero")
	}
}

func TestSetAddAllTally(t *testing.T) {
	set := NewSet(Limits{Artists: 1, Albums: 1})
	tally := set.AddAll(seq(
		artist("Beck"), artist("beck"), artist("Radiohead"),
		New(Artist, "   ", "", ""), Entity{Kind: 99, Name: "??"},
	))
	want := Tally{Accepted: 1, Duplicates: 1, Capped: 1, Invalid: 2}
	if tally != want {
		t.Fatalf("got %+v want %+v", tally, want)
	}
	if got := set.AddAll(nil); got != (Tally{}) {
		t.Fatalf("expected empty tally for nil sequence, got %+v", got)
	}
}

func TestSameNameDifferentKindsBothSurvive(t *testing.T) {
	req := Reconcile(Limits{Artists: 5, Albums: 5}, seq(artist("Weezer"), album("Weezer", "Weezer")))
	if req.Len() != 2 {
		t.Fatalf("expected artist and album to coexist, got %v", req.Names())
	}
}

func TestFreezeOrdersByKindAndIsSnapshot(t *testing.T) {
	set := NewSet(Limits{Artists: 5, Albums: 5})
	set.AddAll(seq(song("Creep", "Radiohead"), album("Kid A", "Radiohead"), artist("Beck"), artist("Bjork")))
	req := set.Freeze()
	set.Add(artist("Portishead"))

	want := []string{"Beck", "Bjork", "Kid A", "Creep"}
	if names := req.Names(); !slices.Equal(names, want) {
		t.Fatalf("got %v want %v", names, want)
	}
	if req.Counts() != (Counts{Artists: 2, Albums: 1, Songs: 1}) {
		t.Fatalf("unexpected counts %+v", req.Counts())
	}
	if set.Counts().Artists != 3 {
		t.Fatalf("set should keep accepting after freeze, got %+v", set.Counts())
	}
}

func TestReconcileAcrossSequences(t *testing.T) {
	req := Reconcile(Limits{Artists: 2, Albums: 2},
		seq(artist("Beck")),
		nil,
		seq(artist("beck"), artist("Air"), artist("Moby")),
	)
	if names := req.Names(); !slices.Equal(names, []string{"Beck", "Air"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestNewDropsArtistCreditOnArtists(t *testing.T) {
	e := New(Artist, "  Sigur   Rós ", "ignored", " c1 ")
	if e.Name != "Sigur Rós" || e.Artist != "" || e.Source != "c1" {
		t.Fatalf("unexpected entity %+v", e)
	}
	if got := album("Kid A", "Radiohead").String(); got != `album "Kid A" by Radiohead` {
		t.Fatalf("unexpected String() %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for label, want := range map[string]Kind{"Artist": Artist, "albums": Album, "Track": Song, " song ": Song} {
		got, ok := ParseKind(label)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %v,%v want %v", label, got, ok, want)
		}
	}
	if _, ok := ParseKind("genre"); ok {
		t.Fatal("expected genre to be rejected")
	}
}

func TestEntityJSONUsesKindLabels(t *testing.T) {
	data, err := json.Marshal(album("Kid A", "Radiohead"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"kind":"album","name":"Kid A","artist":"Radiohead"}` {
		t.Fatalf("unexpected json %s", data)
	}
	var decoded Entity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != album("Kid A", "Radiohead") {
		t.Fatalf("unexpected decoded entity %+v", decoded)
	}
}
