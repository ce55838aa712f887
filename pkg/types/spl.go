// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the DailyMed downloader:
// SPL records returned by the index, drug queries, stage configuration, and
// the error kinds the batch report classifies failures with.
package types

import "time"

// SPLRecord represents one Structured Product Labeling document as listed by
// the DailyMed SPL index. The setid is the only field the downloader needs;
// the rest is carried for display and reporting.
type SPLRecord struct {
	// SetID is the opaque identifier for one SPL document version.
	SetID string `json:"setid" yaml:"setid"`

	// Title is the label title as returned by the index.
	Title string `json:"title" yaml:"title"`

	// SPLVersion is the document revision number.
	SPLVersion int `json:"spl_version" yaml:"spl_version"`

	// Published is the label publication date (zero when unparseable).
	Published time.Time `json:"published" yaml:"published"`
}

// DrugQuery pairs a drug name with the number of labels to download for it.
type DrugQuery struct {
	Name  string `json:"name" yaml:"name"`
	Limit int    `json:"limit" yaml:"limit"`
}
