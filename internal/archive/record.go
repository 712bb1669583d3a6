package archive

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ifyoulike/internal/reddit"
)

// Record is one raw JSON row.
type Record struct {
	Line int
	raw  []byte
}

// NewRecord wraps raw JSON, mainly for tests.
func NewRecord(raw []byte) Record {
	return Record{raw: raw}
}

// Raw returns the row bytes.
func (r Record) Raw() []byte {
	return r.raw
}

// Get extracts a single field without decoding the whole row.
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// ID returns the row's id field.
func (r Record) ID() string {
	return strings.TrimSpace(r.Get("id").String())
}

// LinkID returns the "t3_" fullname of the submission a comment belongs to.
func (r Record) LinkID() string {
	return strings.TrimSpace(r.Get("link_id").String())
}

// Submission decodes the row as a submission.
func (r Record) Submission() reddit.Submission {
	row := gjson.ParseBytes(r.raw)
	return reddit.Submission{
		ID:          strings.TrimSpace(row.Get("id").String()),
		Title:       row.Get("title").String(),
		SelfText:    row.Get("selftext").String(),
		Author:      row.Get("author").String(),
		Subreddit:   row.Get("subreddit").String(),
		Score:       int(row.Get("score").Int()),
		NumComments: int(row.Get("num_comments").Int()),
		Created:     unixTime(row.Get("created_utc")),
		Permalink:   row.Get("permalink").String(),
		URL:         row.Get("url").String(),
	}
}

// Comment decodes the row as a comment.
func (r Record) Comment() reddit.Comment {
	row := gjson.ParseBytes(r.raw)
	return reddit.Comment{
		ID:           strings.TrimSpace(row.Get("id").String()),
		Kind:         reddit.KindComment,
		Text:         row.Get("body").String(),
		Author:       row.Get("author").String(),
		Score:        int(row.Get("score").Int()),
		Created:      unixTime(row.Get("created_utc")),
		Permalink:    row.Get("permalink").String(),
		SubmissionID: reddit.TrimFullname(row.Get("link_id").String()),
		ParentID:     row.Get("parent_id").String(),
	}
}

// unixTime accepts created_utc as an integer, float or numeric string; dumps
// from different years use all three.
func unixTime(value gjson.Result) time.Time {
	if !value.Exists() {
		return time.Time{}
	}
	seconds := value.Float()
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}
