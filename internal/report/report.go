// Package report writes per-run artifacts: a CSV of the comments that fed
// extraction and a JSON or YAML document describing the reconciled entities
// and how each was resolved.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/fileutil"
	"ifyoulike/internal/selection"
	"ifyoulike/internal/spotifylinks"
	"ifyoulike/internal/textutil"
)

// Formats accepted for the entities document.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Comment statuses.
const (
	CommentExtracted = "extracted"
	CommentFailed    = "failed"
	CommentEmpty     = "empty"
)

// Comment is one CSV row.
type Comment struct {
	ID        string
	Kind      string
	Author    string
	Score     int
	Created   time.Time
	Permalink string
	Status    string
	Entities  int
	Error     string
	Text      string
}

// Resolution summarizes how one request entry resolved against the catalog.
type Resolution struct {
	Kind    entity.Kind `json:"kind" yaml:"kind"`
	Name    string      `json:"name" yaml:"name"`
	Artist  string      `json:"artist,omitempty" yaml:"artist,omitempty"`
	Status  string      `json:"status" yaml:"status"`
	MatchID string      `json:"match_id,omitempty" yaml:"match_id,omitempty"`
	Match   string      `json:"match,omitempty" yaml:"match,omitempty"`
	Swapped bool        `json:"swapped,omitempty" yaml:"swapped,omitempty"`
	Tracks  int         `json:"tracks" yaml:"tracks"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Playlist describes the published playlist.
type Playlist struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	URL    string `json:"url" yaml:"url"`
	Tracks int    `json:"tracks" yaml:"tracks"`
}

// Report is the entities document.
type Report struct {
	RunID        string                   `json:"run_id" yaml:"run_id"`
	SubmissionID string                   `json:"submission_id" yaml:"submission_id"`
	Title        string                   `json:"title" yaml:"title"`
	ThreadURL    string                   `json:"thread_url" yaml:"thread_url"`
	GeneratedAt  time.Time                `json:"generated_at" yaml:"generated_at"`
	Model        string                   `json:"model,omitempty" yaml:"model,omitempty"`
	DryRun       bool                     `json:"dry_run" yaml:"dry_run"`
	Limits       entity.Limits            `json:"limits" yaml:"limits"`
	Selection    selection.Report         `json:"selection" yaml:"selection"`
	Reconcile    entity.Tally             `json:"reconcile" yaml:"reconcile"`
	Request      entity.PlaylistRequest   `json:"request" yaml:"request"`
	Links        []spotifylinks.TrackLink `json:"links,omitempty" yaml:"links,omitempty"`
	Resolutions  []Resolution             `json:"resolutions,omitempty" yaml:"resolutions,omitempty"`
	Playlist     *Playlist                `json:"playlist,omitempty" yaml:"playlist,omitempty"`

	Comments []Comment `json:"-" yaml:"-"`
}

// Paths lists the files a Write produced.
type Paths struct {
	Comments string
	Entities string
}

var csvHeader = []string{"id", "kind", "author", "score", "created_utc", "permalink", "status", "entities", "error", "text"}

// Write stores the comments CSV and the entities document in dir, named
// after the submission id. Existing files are replaced atomically.
func Write(dir, format string, r Report) (Paths, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return Paths{}, fmt.Errorf("unsupported report format %q", format)
	}
	base := textutil.SanitizeFileName(r.SubmissionID)
	if base == "" {
		base = "submission"
	}
	paths := Paths{
		Comments: filepath.Join(dir, base+"_comments.csv"),
		Entities: filepath.Join(dir, base+"_entities."+format),
	}

	if err := fileutil.WriteFileAtomic(paths.Comments, 0o644, func(w io.Writer) error {
		return WriteComments(w, r.Comments)
	}); err != nil {
		return Paths{}, fmt.Errorf("write comments report: %w", err)
	}
	if err := fileutil.WriteFileAtomic(paths.Entities, 0o644, func(w io.Writer) error {
		return WriteEntities(w, format, r)
	}); err != nil {
		return Paths{}, fmt.Errorf("write entities report: %w", err)
	}
	return paths, nil
}

// WriteComments renders comments as CSV with a header row.
func WriteComments(w io.Writer, comments []Comment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range comments {
		created := ""
		if !c.Created.IsZero() {
			created = strconv.FormatInt(c.Created.UTC().Unix(), 10)
		}
		if err := cw.Write([]string{
			c.ID,
			c.Kind,
			c.Author,
			strconv.Itoa(c.Score),
			created,
			c.Permalink,
			c.Status,
			strconv.Itoa(c.Entities),
			c.Error,
			c.Text,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEntities renders the report document in format.
func WriteEntities(w io.Writer, format string, r Report) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
}
