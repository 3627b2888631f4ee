package query

import (
	"sync"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Source supplies the current contents a View filters.
type Source interface {
	All() []record.Record
}

// View is the filter state of one list screen. Results and Summary are
// computed from the source on every call.
type View struct {
	mu     sync.RWMutex
	source Source
	query  Query
}

// NewView creates a view over source.
func NewView(source Source, q Query) *View {
	return &View{source: source, query: q}
}

// SetSearch sets the free-text query.
func (v *View) SetSearch(text string) {
	v.mu.Lock()
	v.query.SearchText = text
	v.mu.Unlock()
}

// SetCategory sets the category filter; empty or the All label clears it.
func (v *View) SetCategory(category string) {
	v.mu.Lock()
	v.query.Category = category
	v.mu.Unlock()
}

// Query returns the current query.
func (v *View) Query() Query {
	v.mu.RLock()
	defer v.mu.RUnlock()
	q := v.query
	q.AlsoSearch = append([]string(nil), q.AlsoSearch...)
	return q
}

// Results returns the visible records.
func (v *View) Results() []record.Record {
	return Filter(v.source.All(), v.Query())
}

// Summary aggregates the unfiltered source by the category field.
func (v *View) Summary() Summary {
	return Aggregate(v.source.All(), v.Query().CategoryField)
}
