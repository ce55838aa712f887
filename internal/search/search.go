// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search resolves drug names to SPL document identifiers using the
// DailyMed index, keeping the service's relevance order.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/TaraZSun/MQA/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.SPLRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-36s  %-4s  %-12s  %s\n",
		"Rank", "SetID", "Ver", "Published", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range records {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		published := ""
		if !r.Published.IsZero() {
			published = r.Published.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-4d  %-36s  %-4d  %-12s  %s\n",
			i+1, r.SetID, r.SPLVersion, published, title)
	}

	fmt.Fprintf(w, "\n%d matches\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.SPLRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
