package logging

import "strings"

// FormatSubject builds the submission/comment/stage subject string used in console output.
func FormatSubject(submissionID, commentID, stage string) string {
	submissionID = strings.TrimSpace(submissionID)
	commentID = strings.TrimSpace(commentID)
	stage = strings.TrimSpace(stage)

	parts := make([]string, 0, 2)
	switch {
	case submissionID != "" && commentID != "":
		parts = append(parts, "t3_"+submissionID+"/"+commentID)
	case submissionID != "":
		parts = append(parts, "t3_"+submissionID)
	case commentID != "":
		parts = append(parts, commentID)
	}
	if stage != "" {
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
