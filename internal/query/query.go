// Package query derives the visible subset of a record collection from a
// free-text search and a categorical filter.
//
// Search and category are alternatives: while search text is present the
// category filter is ignored. Results always preserve input order.
package query

import (
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/metrics"
	"golang.org/x/text/cases"
)

// DefaultAll is the category sentinel that disables category filtering.
const DefaultAll = "All"

// Evaluation modes, as reported by Mode and the evaluations metric.
const (
	ModeSearch   = "search"
	ModeAll      = "all"
	ModeCategory = "category"
)

// Query describes one evaluation.
type Query struct {
	SearchText    string
	Category      string
	CategoryField string
	SearchField   string
	// AlsoSearch lists extra fields matched by the search text in addition
	// to SearchField.
	AlsoSearch []string
	// All overrides the sentinel label. Empty means DefaultAll.
	All string
}

func (q Query) allLabel() string {
	if q.All == "" {
		return DefaultAll
	}
	return q.All
}

// Mode reports which rule Filter applies for q.
func (q Query) Mode() string {
	switch {
	case strings.TrimSpace(q.SearchText) != "":
		return ModeSearch
	case q.Category == "" || q.Category == q.allLabel():
		return ModeAll
	default:
		return ModeCategory
	}
}

// Filter returns the records visible under q. The result is a new slice
// whose elements are a subsequence of records.
func Filter(records []record.Record, q Query) []record.Record {
	mode := q.Mode()
	metrics.QueryEvaluations.WithLabelValues(mode).Inc()

	var out []record.Record
	switch mode {
	case ModeSearch:
		fold := cases.Fold()
		needle := fold.String(q.SearchText)
		fields := append([]string{q.SearchField}, q.AlsoSearch...)
		out = ectolinq.Filter(records, func(rec record.Record) bool {
			for _, field := range fields {
				if field != "" && strings.Contains(fold.String(rec.Text(field)), needle) {
					return true
				}
			}
			return false
		})
	case ModeAll:
		out = append([]record.Record(nil), records...)
	default:
		out = ectolinq.Filter(records, func(rec record.Record) bool {
			return rec.Text(q.CategoryField) == q.Category
		})
	}

	if out == nil {
		return []record.Record{}
	}
	return out
}
