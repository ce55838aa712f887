// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TaraZSun/MQA/internal/httputil"
	"github.com/TaraZSun/MQA/pkg/types"
)

// dailymedSPLsBase is the DailyMed SPL index endpoint. Declared as a var so
// tests can substitute an httptest server.
var dailymedSPLsBase = "https://dailymed.nlm.nih.gov/dailymed/services/v2/spls.json"

// The index serves at most 100 records per page.
const maxPageSize = 100

// Client resolves drug names against the DailyMed SPL index.
type Client struct {
	HTTP *http.Client
	Cfg  types.SearchConfig
}

// Resolve queries the index for name and returns up to limit records in the
// order the service lists them (no local re-ranking). Result pages are
// followed until the limit is reached or no further page exists. An empty
// result is not an error.
func (c *Client) Resolve(ctx context.Context, name string, limit int) ([]types.SPLRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty drug name")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	pageSize := c.Cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var records []types.SPLRecord
	page := 1
	for {
		sr, err := c.fetchPage(ctx, name, page, pageSize)
		if err != nil {
			return nil, err
		}
		for _, entry := range sr.Data {
			records = append(records, entry.record())
			if len(records) >= limit {
				return records, nil
			}
		}
		// Stop on the last page. An empty page also ends the walk so a
		// misbehaving pager cannot loop forever.
		if sr.Metadata.NextPage == nil || len(sr.Data) == 0 {
			return records, nil
		}
		page = *sr.Metadata.NextPage
	}
}

// fetchPage retrieves one index page for name.
func (c *Client) fetchPage(ctx context.Context, name string, page, pageSize int) (*splsResponse, error) {
	params := url.Values{
		"drug_name": {name},
		"page":      {strconv.Itoa(page)},
		"pagesize":  {strconv.Itoa(pageSize)},
	}
	reqURL := dailymedSPLsBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", httputil.AcceptEncoding)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: SPL index request: %w", types.ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: SPL index returned HTTP %d", types.ErrLookup, resp.StatusCode)
	}

	body, err := httputil.DecodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrParse, err)
	}
	if body != resp.Body {
		defer body.Close()
	}

	var sr splsResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: parsing SPL index page: %w", types.ErrParse, err)
	}
	return &sr, nil
}

// DailyMed SPL index JSON structures.
type splsResponse struct {
	Metadata splsMetadata `json:"metadata"`
	Data     []splsEntry  `json:"data"`
}

type splsMetadata struct {
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	CurrentPage   int  `json:"current_page"`
	NextPage      *int `json:"next_page"`
}

type splsEntry struct {
	SetID         string `json:"setid"`
	Title         string `json:"title"`
	SPLVersion    int    `json:"spl_version"`
	PublishedDate string `json:"published_date"`
}

// publishedDateFmt matches the index's "Dec 27, 2023" date rendering. The
// single-digit day layout also accepts zero-padded days.
const publishedDateFmt = "Jan 2, 2006"

func (e splsEntry) record() types.SPLRecord {
	r := types.SPLRecord{
		SetID:      e.SetID,
		Title:      e.Title,
		SPLVersion: e.SPLVersion,
	}
	if t, err := time.Parse(publishedDateFmt, e.PublishedDate); err == nil {
		r.Published = t
	}
	return r
}
