// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/TaraZSun/MQA/pkg/types"
)

// ItemStatus classifies the outcome of a single document.
type ItemStatus string

const (
	StatusDownloaded ItemStatus = "downloaded"
	StatusSkipped    ItemStatus = "skipped"
	StatusFailed     ItemStatus = "failed"
)

// ItemResult records the outcome for one SPL document.
type ItemResult struct {
	SetID  string          `yaml:"setid"`
	Title  string          `yaml:"title,omitempty"`
	Status ItemStatus      `yaml:"status"`
	Kind   types.ErrorKind `yaml:"kind,omitempty"`
	Err    string          `yaml:"error,omitempty"`
	Path   string          `yaml:"path,omitempty"`
}

// QueryReport aggregates the outcomes for one drug name. A query that fails
// to resolve carries its own Kind and Err and holds no items.
type QueryReport struct {
	Drug       string          `yaml:"drug"`
	Limit      int             `yaml:"limit"`
	Matches    int             `yaml:"matches"`
	Kind       types.ErrorKind `yaml:"kind,omitempty"`
	Err        string          `yaml:"error,omitempty"`
	Items      []ItemResult    `yaml:"items,omitempty"`
	Downloaded int             `yaml:"downloaded"`
	Skipped    int             `yaml:"skipped"`
	Failed     int             `yaml:"failed"`
}

// add appends item and bumps the counter matching its status.
func (q *QueryReport) add(item ItemResult) {
	q.Items = append(q.Items, item)
	switch item.Status {
	case StatusDownloaded:
		q.Downloaded++
	case StatusSkipped:
		q.Skipped++
	case StatusFailed:
		q.Failed++
	}
}

// Report is the accumulated outcome of one batch run.
type Report struct {
	RunID         string        `yaml:"run_id"`
	Started       time.Time     `yaml:"started"`
	Finished      time.Time     `yaml:"finished"`
	SaveDir       string        `yaml:"save_dir"`
	Queries       []QueryReport `yaml:"queries"`
	Downloaded    int           `yaml:"downloaded"`
	Skipped       int           `yaml:"skipped"`
	Failed        int           `yaml:"failed"`
	FailedQueries int           `yaml:"failed_queries,omitempty"`
}

// NewReport starts an empty report for saveDir.
func NewReport(saveDir string) *Report {
	return &Report{
		RunID:   newRunID(),
		Started: time.Now().UTC(),
		SaveDir: saveDir,
	}
}

// addQuery folds one query's outcome into the batch totals.
func (r *Report) addQuery(q QueryReport) {
	r.Queries = append(r.Queries, q)
	r.Downloaded += q.Downloaded
	r.Skipped += q.Skipped
	r.Failed += q.Failed
	if q.Err != "" {
		r.FailedQueries++
	}
}

// Total returns the total number of documents processed.
func (r *Report) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any document or query failed.
func (r *Report) HasFailures() bool {
	return r.Failed > 0 || r.FailedQueries > 0
}

// Summary prints per-drug outcome lines followed by the batch totals.
func (r *Report) Summary(w io.Writer) {
	fmt.Fprintln(w)
	for _, q := range r.Queries {
		if q.Err != "" {
			fmt.Fprintf(w, "  %s: resolve failed (%s)\n", q.Drug, q.Kind)
			continue
		}
		fmt.Fprintf(w, "  %s: %d downloaded, %d skipped, %d failed (%d matches)\n",
			q.Drug, q.Downloaded, q.Skipped, q.Failed, q.Matches)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		r.Downloaded, r.Skipped, r.Failed, r.Total())
	if r.FailedQueries > 0 {
		fmt.Fprintf(w, "%d of %d queries failed to resolve\n", r.FailedQueries, len(r.Queries))
	}
}

// newRunID returns a sortable unique identifier for one batch run.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return "run-" + id.String()
}
