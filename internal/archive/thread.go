package archive

import (
	"context"
	"fmt"

	"ifyoulike/internal/reddit"
	"ifyoulike/internal/services"
)

// FindSubmission scans a submissions dump for id (with or without the "t3_"
// prefix) and returns the first matching row.
func FindSubmission(ctx context.Context, path, id string) (reddit.Submission, Stats, error) {
	want := reddit.TrimFullname(id)
	r, err := Open(path)
	if err != nil {
		return reddit.Submission{}, Stats{}, err
	}
	defer r.Close()

	for rec, err := range r.Records() {
		if err != nil {
			return reddit.Submission{}, r.Stats(), err
		}
		if err := ctx.Err(); err != nil {
			return reddit.Submission{}, r.Stats(), err
		}
		if rec.ID() != want {
			continue
		}
		return rec.Submission(), r.Stats(), nil
	}
	return reddit.Submission{}, r.Stats(), services.Wrap(
		services.ErrNotFound,
		"archive",
		"find submission",
		fmt.Sprintf("submission %s not in %s", want, path),
		nil,
	)
}

// CommentsFor scans a comments dump and returns every row whose link_id
// references the submission, in file order. Rows for other threads are
// rejected on a link_id peek without a full decode.
func CommentsFor(ctx context.Context, path, submissionID string) ([]reddit.Comment, Stats, error) {
	link := reddit.Fullname(submissionID)
	r, err := Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer r.Close()

	var comments []reddit.Comment
	for rec, err := range r.Records() {
		if err != nil {
			return comments, r.Stats(), err
		}
		if err := ctx.Err(); err != nil {
			return comments, r.Stats(), err
		}
		if rec.LinkID() != link {
			continue
		}
		comments = append(comments, rec.Comment())
	}
	return comments, r.Stats(), nil
}
