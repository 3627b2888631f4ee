package query

import (
	"slices"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Summary counts records per distinct field value.
type Summary struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Aggregate counts records by the rendered value of field. Records without
// the field are counted under the empty key, so the counts always sum to
// Total.
func Aggregate(records []record.Record, field string) Summary {
	s := Summary{Counts: make(map[string]int), Total: len(records)}
	for _, rec := range records {
		s.Counts[rec.Text(field)]++
	}
	return s
}

// Count returns the number of records holding value.
func (s Summary) Count(value string) int {
	return s.Counts[value]
}

// Group is one bucket produced by GroupBy.
type Group struct {
	Key     string          `json:"key"`
	Records []record.Record `json:"records"`
}

// GroupBy buckets records by field value. Groups appear in the order their
// key first appears; records with an empty value go to fallback.
func GroupBy(records []record.Record, field, fallback string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, rec := range records {
		key := rec.Text(field)
		if key == "" {
			key = fallback
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// SortByTime returns a copy of records stably sorted by the timestamp in
// field. Missing or unparsable timestamps sort as the zero time.
func SortByTime(records []record.Record, field string, descending bool) []record.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b record.Record) int {
		ta, _ := a.Time(field)
		tb, _ := b.Time(field)
		if descending {
			return tb.Compare(ta)
		}
		return ta.Compare(tb)
	})
	return out
}
