// Package search maintains filtered views over the catalog.
// Filter is pure: records and a query in, matching indices out. No side
// effects, no retained state.
package search

import (
	"strings"

	"github.com/abelbrown/recall/internal/catalog"
)

// Filter returns the indices of records whose OCR text or caption contains
// the query as a case-insensitive substring.
//
// An empty or whitespace-only query selects everything. The result is a
// subsequence of the input order, so a catalog sorted newest-first yields a
// view sorted newest-first.
func Filter(records []catalog.Record, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))

	indices := make([]int, 0, len(records))
	if query == "" {
		for i := range records {
			indices = append(indices, i)
		}
		return indices
	}

	for i, rec := range records {
		if strings.Contains(strings.ToLower(rec.Text), query) ||
			strings.Contains(strings.ToLower(rec.Description), query) {
			indices = append(indices, i)
		}
	}
	return indices
}
