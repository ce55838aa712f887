// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Integration tests for the resolve and download flow, exercised end to end
// against a mock DailyMed service serving both the SPL index and the label
// download endpoint.

package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/TaraZSun/MQA/pkg/types"
)

// splsIndexResponse mirrors the DailyMed SPL index response for test JSON
// parsing.
type splsIndexResponse struct {
	Data []struct {
		SetID      string `json:"setid"`
		Title      string `json:"title"`
		SPLVersion int    `json:"spl_version"`
	} `json:"data"`
}

const pipelineIndexJSON = `{
  "metadata": {"total_elements": 2, "total_pages": 1, "current_page": 1, "next_page": null},
  "data": [
    {"spl_version": 4, "published_date": "Dec 27, 2023", "title": "IBUPROFEN tablet", "setid": "pipe-a1"},
    {"spl_version": 1, "published_date": "Jun 5, 2024", "title": "IBUPROFEN capsule", "setid": "pipe-a2"}
  ]
}`

func labelBody(setid string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><document><setId root="` + setid + `"/></document>`
}

// indexResolver resolves through the mock index endpoint the way the search
// client does against the live service.
type indexResolver struct {
	client  *http.Client
	baseURL string
}

func (ir *indexResolver) Resolve(ctx context.Context, name string, limit int) ([]types.SPLRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		ir.baseURL+"/spls.json?drug_name="+url.QueryEscape(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := ir.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrLookup, err)
	}
	defer resp.Body.Close()

	var idx splsIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}

	var out []types.SPLRecord
	for _, d := range idx.Data {
		out = append(out, types.SPLRecord{SetID: d.SetID, Title: d.Title, SPLVersion: d.SPLVersion})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// newPipelineTestServer serves the SPL index and the label download endpoint.
func newPipelineTestServer(t *testing.T, indexJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/spls.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, indexJSON)
		case "/labelxml.cfm":
			setid := r.URL.Query().Get("setid")
			if setid == "pipe-empty" {
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, labelBody(setid))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPipelineResolveThenDownload(t *testing.T) {
	ts := newPipelineTestServer(t, pipelineIndexJSON)
	defer ts.Close()

	old := labelXMLBase
	labelXMLBase = ts.URL + "/labelxml.cfm"
	defer func() { labelXMLBase = old }()

	dir := t.TempDir()
	cfg := testConfig(dir)
	resolver := &indexResolver{client: ts.Client(), baseURL: ts.URL}
	fetcher := &Client{HTTP: ts.Client(), Cfg: cfg}

	var buf bytes.Buffer
	queries := []types.DrugQuery{{Name: "ibuprofen", Limit: 5}}
	report, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Downloaded != 2 || report.Failed != 0 {
		t.Errorf("report = %d downloaded, %d failed; want 2, 0", report.Downloaded, report.Failed)
	}
	for _, setid := range []string{"pipe-a1", "pipe-a2"} {
		data, err := os.ReadFile(filepath.Join(dir, setid+".xml"))
		if err != nil {
			t.Fatalf("reading %s.xml: %v", setid, err)
		}
		if string(data) != labelBody(setid) {
			t.Errorf("%s.xml content = %q", setid, string(data))
		}
	}

	q := report.Queries[0]
	if q.Matches != 2 || len(q.Items) != 2 {
		t.Errorf("query report = %+v, want 2 matches and 2 items", q)
	}
	if q.Items[0].Path == "" {
		t.Error("item path should be recorded")
	}
}

func TestPipelineRerunOverwrites(t *testing.T) {
	ts := newPipelineTestServer(t, pipelineIndexJSON)
	defer ts.Close()

	old := labelXMLBase
	labelXMLBase = ts.URL + "/labelxml.cfm"
	defer func() { labelXMLBase = old }()

	dir := t.TempDir()
	cfg := testConfig(dir)
	resolver := &indexResolver{client: ts.Client(), baseURL: ts.URL}
	fetcher := &Client{HTTP: ts.Client(), Cfg: cfg}
	queries := []types.DrugQuery{{Name: "ibuprofen", Limit: 5}}

	var buf bytes.Buffer
	if _, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	path := filepath.Join(dir, "pipe-a1.xml")
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.Downloaded != 2 || report.Skipped != 0 {
		t.Errorf("second run = %d downloaded, %d skipped; want 2, 0", report.Downloaded, report.Skipped)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != labelBody("pipe-a1") {
		t.Errorf("content = %q, want fresh document", string(data))
	}
}

func TestPipelineSkipExistingSecondRun(t *testing.T) {
	ts := newPipelineTestServer(t, pipelineIndexJSON)
	defer ts.Close()

	old := labelXMLBase
	labelXMLBase = ts.URL + "/labelxml.cfm"
	defer func() { labelXMLBase = old }()

	dir := t.TempDir()
	cfg := testConfig(dir)
	resolver := &indexResolver{client: ts.Client(), baseURL: ts.URL}
	fetcher := &Client{HTTP: ts.Client(), Cfg: cfg}
	queries := []types.DrugQuery{{Name: "ibuprofen", Limit: 5}}

	var buf bytes.Buffer
	if _, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	cfg.SkipExisting = true
	report, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.Skipped != 2 || report.Downloaded != 0 {
		t.Errorf("second run = %d skipped, %d downloaded; want 2, 0", report.Skipped, report.Downloaded)
	}
}

func TestPipelineEmptyDocumentReported(t *testing.T) {
	indexJSON := `{
	  "metadata": {"next_page": null},
	  "data": [
	    {"spl_version": 1, "title": "GOOD", "setid": "pipe-a1"},
	    {"spl_version": 2, "title": "EMPTY", "setid": "pipe-empty"}
	  ]
	}`
	ts := newPipelineTestServer(t, indexJSON)
	defer ts.Close()

	old := labelXMLBase
	labelXMLBase = ts.URL + "/labelxml.cfm"
	defer func() { labelXMLBase = old }()

	dir := t.TempDir()
	cfg := testConfig(dir)
	resolver := &indexResolver{client: ts.Client(), baseURL: ts.URL}
	fetcher := &Client{HTTP: ts.Client(), Cfg: cfg}

	var buf bytes.Buffer
	queries := []types.DrugQuery{{Name: "ibuprofen", Limit: 5}}
	report, err := Run(context.Background(), resolver, fetcher, queries, cfg, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Downloaded != 1 || report.Failed != 1 {
		t.Errorf("report = %d downloaded, %d failed; want 1, 1", report.Downloaded, report.Failed)
	}
	items := report.Queries[0].Items
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[1].Kind != types.KindEmptyDocument {
		t.Errorf("items[1].Kind = %q, want %q", items[1].Kind, types.KindEmptyDocument)
	}
	if _, err := os.Stat(filepath.Join(dir, "pipe-a1.xml")); err != nil {
		t.Errorf("pipe-a1.xml missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pipe-empty.xml")); !os.IsNotExist(err) {
		t.Error("pipe-empty.xml should not be written")
	}
}
