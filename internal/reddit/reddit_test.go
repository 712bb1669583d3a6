package reddit

import "testing"

func TestSubmissionAsComment(t *testing.T) {
	sub := Submission{ID: "abc", Title: " IIL Boards of Canada ", SelfText: "what else?", Author: "op"}
	c := sub.AsComment()
	if c.Kind != KindSubmission || c.ID != "abc" || c.SubmissionID != "abc" {
		t.Fatalf("unexpected comment %+v", c)
	}
	if c.Text != "IIL Boards of Canada\n\nwhat else?" {
		t.Fatalf("unexpected text %q", c.Text)
	}

	sub.SelfText = "[removed]"
	if got := sub.AsComment().Text; got != "IIL Boards of Canada" {
		t.Fatalf("removed self text should be dropped, got %q", got)
	}
}

func TestFullnameHelpers(t *testing.T) {
	if Fullname("abc") != "t3_abc" || Fullname("t3_abc") != "t3_abc" || Fullname("") != "" {
		t.Fatal("unexpected Fullname behaviour")
	}
	if TrimFullname(" t3_abc ") != "abc" {
		t.Fatal("unexpected TrimFullname behaviour")
	}
}

func TestRemoved(t *testing.T) {
	for _, text := range []string{"", "  ", "[deleted]", " [removed] "} {
		if !Removed(text) {
			t.Errorf("expected %q to count as removed", text)
		}
	}
	if Removed("Radiohead") {
		t.Fatal("regular text is not removed")
	}
}

func TestThreadURL(t *testing.T) {
	sub := Submission{ID: "abc", Permalink: "/r/ifyoulikeblank/comments/abc/iil_x/"}
	if got := sub.ThreadURL(); got != "https://www.reddit.com/r/ifyoulikeblank/comments/abc/iil_x/" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := (Submission{ID: "xyz"}).ThreadURL(); got != "https://www.reddit.com/comments/xyz" {
		t.Fatalf("unexpected fallback url %q", got)
	}
}
