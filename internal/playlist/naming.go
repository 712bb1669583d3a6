package playlist

import (
	"strings"

	"ifyoulike/internal/reddit"
	"ifyoulike/internal/textutil"
)

const maxTitleRunes = 50

// Name builds the playlist name from the thread title.
func Name(prefix, title string) string {
	title = textutil.CollapseSpace(title)
	if title == "" {
		title = "untitled thread"
	}
	return prefix + textutil.Truncate(title, maxTitleRunes, "...")
}

// Description links the playlist back to its thread.
func Description(sub reddit.Submission) string {
	url := sub.ThreadURL()
	if strings.TrimSpace(url) == "" {
		return "Generated from Reddit recommendations"
	}
	return "Generated from Reddit submission: " + url
}
