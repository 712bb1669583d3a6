// Package reddit defines the thread data model read from archive dumps.
package reddit

import (
	"strings"
	"time"
)

// Placeholder bodies Reddit leaves behind when content is gone.
const (
	BodyDeleted = "[deleted]"
	BodyRemoved = "[removed]"
)

// Kind distinguishes the opening post of a thread from its replies.
type Kind string

const (
	KindSubmission Kind = "submission"
	KindComment    Kind = "comment"
)

// Submission is a Reddit post.
type Submission struct {
	ID          string
	Title       string
	SelfText    string
	Author      string
	Subreddit   string
	Score       int
	NumComments int
	Created     time.Time
	Permalink   string
	URL         string
}

// Fullname returns the "t3_" prefixed id comments use to reference the post.
func (s Submission) Fullname() string {
	return Fullname(s.ID)
}

// ThreadURL returns the absolute URL of the submission.
func (s Submission) ThreadURL() string {
	if s.Permalink != "" {
		return absoluteURL(s.Permalink)
	}
	if s.ID == "" {
		return ""
	}
	return "https://www.reddit.com/comments/" + s.ID
}

// Comment is a unit of extraction input: a reply, or the submission itself
// presented as the first comment of its thread. Comments are immutable once read.
type Comment struct {
	ID           string
	Kind         Kind
	Text         string
	Author       string
	Score        int
	Created      time.Time
	Permalink    string
	SubmissionID string
	ParentID     string
}

// AsComment presents the submission as the thread's first comment: title and
// self text joined by a blank line.
func (s Submission) AsComment() Comment {
	text := strings.TrimSpace(s.Title)
	if body := strings.TrimSpace(s.SelfText); body != "" && !Removed(body) {
		text += "\n\n" + body
	}
	return Comment{
		ID:           s.ID,
		Kind:         KindSubmission,
		Text:         text,
		Author:       s.Author,
		Score:        s.Score,
		Created:      s.Created,
		Permalink:    s.Permalink,
		SubmissionID: s.ID,
	}
}

// Thread is a submission plus its surviving comments in selection order.
type Thread struct {
	Submission Submission
	Comments   []Comment
}

// Fullname prefixes a submission id with "t3_" unless it already has it.
func Fullname(submissionID string) string {
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" || strings.HasPrefix(submissionID, "t3_") {
		return submissionID
	}
	return "t3_" + submissionID
}

// TrimFullname strips a "t3_" prefix from a submission id.
func TrimFullname(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "t3_")
}

// Removed reports whether text is empty or a deletion placeholder.
func Removed(text string) bool {
	switch strings.TrimSpace(text) {
	case "", BodyDeleted, BodyRemoved:
		return true
	default:
		return false
	}
}

func absoluteURL(permalink string) string {
	if strings.HasPrefix(permalink, "http://") || strings.HasPrefix(permalink, "https://") {
		return permalink
	}
	return "https://www.reddit.com/" + strings.TrimPrefix(permalink, "/")
}
