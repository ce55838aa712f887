// Package acquire downloads SPL label documents and records batch outcomes.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TaraZSun/MQA/internal/httputil"
	"github.com/TaraZSun/MQA/pkg/types"
)

// labelXMLBase is the DailyMed label download endpoint. Declared as a var so
// tests can substitute an httptest server.
var labelXMLBase = "https://dailymed.nlm.nih.gov/dailymed/downloads/labelxml.cfm"

// DefaultLimit caps per-drug downloads when no explicit limit is given.
const DefaultLimit = 3

// DefaultDrugNames seeds a batch run when no drugs are named on the command
// line.
var DefaultDrugNames = []string{
	"ibuprofen", "acetaminophen", "naproxen", "aspirin",
	"amoxicillin", "prednisone", "metformin", "simvastatin",
	"atorvastatin", "levothyroxine", "losartan", "sertraline",
	"omeprazole", "lisinopril", "gabapentin", "hydrochlorothiazide",
}

// DefaultQueries builds the built-in drug list with the given per-drug limit.
func DefaultQueries(limit int) []types.DrugQuery {
	queries := make([]types.DrugQuery, 0, len(DefaultDrugNames))
	for _, name := range DefaultDrugNames {
		queries = append(queries, types.DrugQuery{Name: name, Limit: limit})
	}
	return queries
}

// Label is a fetched SPL document body.
type Label struct {
	SetID string
	Body  []byte
}

// Resolver turns a drug name into SPL records.
type Resolver interface {
	Resolve(ctx context.Context, name string, limit int) ([]types.SPLRecord, error)
}

// Fetcher retrieves the XML body of a single SPL document.
type Fetcher interface {
	FetchLabel(ctx context.Context, setid string) (*Label, error)
}

// Client fetches SPL label documents from DailyMed.
type Client struct {
	HTTP *http.Client
	Cfg  types.DownloadConfig
}

// FetchLabel downloads the full XML body for setid. An empty response body
// is an error so a truncated service answer never lands on disk.
func (c *Client) FetchLabel(ctx context.Context, setid string) (*Label, error) {
	setid = strings.TrimSpace(setid)
	if setid == "" {
		return nil, fmt.Errorf("%w: empty setid", types.ErrFetch)
	}

	reqURL := labelXMLBase + "?setid=" + url.QueryEscape(setid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", types.ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("Accept-Encoding", httputil.AcceptEncoding)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: label request: %w", types.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: label download returned HTTP %d", types.ErrFetch, resp.StatusCode)
	}

	body, err := httputil.DecodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrFetch, err)
	}
	if body != resp.Body {
		defer body.Close()
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading label body: %w", types.ErrFetch, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: setid %s", types.ErrEmptyDocument, setid)
	}
	return &Label{SetID: setid, Body: data}, nil
}

// SaveLabel writes data to dir as <setid>.xml through a temporary file that
// is renamed into place, so an interrupted run never leaves a partial
// document behind. An existing file is replaced.
func SaveLabel(dir, setid string, data []byte) (string, error) {
	destPath := filepath.Join(dir, setid+".xml")

	tmpFile, err := os.CreateTemp(dir, ".acquire-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %w", types.ErrFilesystem, err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: writing label: %w", types.ErrFilesystem, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: closing temp file: %w", types.ErrFilesystem, closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: renaming temp file: %w", types.ErrFilesystem, err)
	}
	return destPath, nil
}

// AcquireLabel downloads one SPL document into cfg.SaveDir, printing per-item
// status to w. If the file already exists and cfg.SkipExisting is set, the
// download is skipped. The skipped return value reports that case.
func AcquireLabel(ctx context.Context, fetcher Fetcher, setid string, cfg types.DownloadConfig, w io.Writer) (path string, skipped bool, err error) {
	destPath := filepath.Join(cfg.SaveDir, setid+".xml")

	if cfg.SkipExisting {
		if _, err := os.Stat(destPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", setid)
			return destPath, true, nil
		}
	}

	fmt.Fprintf(w, "downloading: %s\n", setid)
	label, err := fetcher.FetchLabel(ctx, setid)
	if err != nil {
		return "", false, err
	}
	if label == nil || len(label.Body) == 0 {
		return "", false, fmt.Errorf("%w: setid %s", types.ErrEmptyDocument, setid)
	}

	saved, err := SaveLabel(cfg.SaveDir, setid, label.Body)
	if err != nil {
		return "", false, err
	}
	fmt.Fprintf(w, "saved: %s\n", saved)
	return saved, false, nil
}

// Run resolves each query and downloads every matched document, continuing
// past individual failures. When queries is empty the built-in drug list is
// used. The returned report enumerates per-drug outcomes. An unusable save
// directory aborts the run before any network call.
func Run(ctx context.Context, resolver Resolver, fetcher Fetcher, queries []types.DrugQuery, cfg types.DownloadConfig, w io.Writer) (*Report, error) {
	if err := ensureSaveDir(cfg.SaveDir); err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		queries = DefaultQueries(DefaultLimit)
	}

	report := NewReport(cfg.SaveDir)
	item := 0
	for _, q := range queries {
		name := strings.TrimSpace(q.Name)
		limit := q.Limit
		if limit < 1 {
			limit = DefaultLimit
		}
		qr := QueryReport{Drug: name, Limit: limit}

		fmt.Fprintf(w, "searching: %s\n", name)
		records, err := resolver.Resolve(ctx, name, limit)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			qr.Kind = types.KindOf(err)
			qr.Err = err.Error()
			report.addQuery(qr)
			continue
		}
		// The resolver caps its own result; cap again so a loose
		// implementation cannot push the batch past the limit.
		if len(records) > limit {
			records = records[:limit]
		}
		qr.Matches = len(records)
		if len(records) == 0 {
			fmt.Fprintf(w, "no matches: %s\n", name)
		}

		for _, rec := range records {
			if item > 0 && cfg.DownloadDelay > 0 {
				time.Sleep(cfg.DownloadDelay)
			}
			item++

			res := ItemResult{SetID: rec.SetID, Title: rec.Title}
			saved, wasSkipped, err := AcquireLabel(ctx, fetcher, rec.SetID, cfg, w)
			switch {
			case err != nil:
				fmt.Fprintf(w, "failed:  %s (%v)\n", rec.SetID, err)
				res.Status = StatusFailed
				res.Kind = types.KindOf(err)
				res.Err = err.Error()
			case wasSkipped:
				res.Status = StatusSkipped
				res.Path = saved
			default:
				res.Status = StatusDownloaded
				res.Path = saved
			}
			qr.add(res)
		}
		report.addQuery(qr)
	}

	report.Finished = time.Now().UTC()
	report.Summary(w)
	return report, nil
}

// ensureSaveDir creates dir and verifies it is writable with a probe file.
func ensureSaveDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating save directory %s: %w", types.ErrFilesystem, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: save directory %s is not writable: %w", types.ErrFilesystem, dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
