// Package recordstore holds the in-memory snapshot of one entity collection
// for the lifetime of a view session.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/metrics"
)

// ErrNoSource is returned by Refresh and Watch when the store has no source.
var ErrNoSource = errors.New("record store has no source")

// ErrClosed is returned by Refresh and Watch after Close.
var ErrClosed = errors.New("record store closed")

// Source is the remote collection the store mirrors.
type Source interface {
	FetchAll(ctx context.Context, collection string) ([]record.Record, error)
}

// Subscriber is a Source that can push live snapshots.
type Subscriber interface {
	Subscribe(ctx context.Context, collection string, onChange func([]record.Record)) (func(), error)
}

// Store is the authoritative ordered snapshot of one collection. All
// mutation goes through ReplaceAll, Upsert and Remove; whichever call runs
// last wins.
type Store struct {
	mu      sync.RWMutex
	kind    record.Kind
	records []record.Record
	index   map[string]int

	source  Source
	watcher Subscriber
	stop    func()
	closed  bool
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSource attaches the remote collection used by Refresh and Watch.
func WithSource(src Source) Option {
	return func(s *Store) {
		s.source = src
		if sub, ok := src.(Subscriber); ok {
			s.watcher = sub
		}
	}
}

// WithSubscriber sets the live update source used by Watch.
func WithSubscriber(sub Subscriber) Option {
	return func(s *Store) { s.watcher = sub }
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store for kind.
func New(kind record.Kind, opts ...Option) *Store {
	s := &Store{
		kind:   kind,
		index:  make(map[string]int),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the entity type held by the store.
func (s *Store) Kind() record.Kind {
	return s.kind
}

// ReplaceAll replaces the entire contents. Duplicate ids collapse to the
// last occurrence, kept at the position where the id first appeared.
func (s *Store) ReplaceAll(records []record.Record) {
	next := make([]record.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		if i, ok := index[rec.ID]; ok {
			next[i] = rec.Clone()
			continue
		}
		index[rec.ID] = len(next)
		next = append(next, rec.Clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("dropping snapshot for closed store", "kind", s.kind)
		return
	}
	s.records = next
	s.index = index
	metrics.SnapshotsApplied.WithLabelValues(string(s.kind)).Inc()
	s.reportSize()
}

// Upsert inserts rec, or replaces every field of the existing entry with the
// same id in place.
func (s *Store) Upsert(rec record.Record) {
	rec = rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("dropping upsert for closed store", "kind", s.kind, "id", rec.ID)
		return
	}
	if i, ok := s.index[rec.ID]; ok {
		s.records[i] = rec
		return
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	s.reportSize()
}

// Remove deletes the record with id. Absent ids are a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.records = slices.Delete(s.records, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	s.reportSize()
}

// All returns the current ordered contents. The slice is a copy; the
// records in it must be treated as read-only.
func (s *Store) All() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with id.
func (s *Store) Get(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return record.Record{}, false
	}
	return s.records[i], true
}

// FindFirst returns the first record, in iteration order, whose field is
// set and renders exactly as value.
func (s *Store) FindFirst(field, value string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if _, ok := rec.Value(field); ok && rec.Text(field) == value {
			return rec, true
		}
	}
	return record.Record{}, false
}

// Refresh re-fetches the collection and replaces the contents. On error the
// contents are left as they were.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.Alive() {
		return ErrClosed
	}
	if s.source == nil {
		return ErrNoSource
	}
	records, err := s.source.FetchAll(ctx, s.kind.Collection())
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", s.kind.Collection(), err)
	}
	s.ReplaceAll(records)
	return nil
}

// Watch subscribes to live snapshots; each one replaces the contents. A
// second Watch replaces the first subscription.
func (s *Store) Watch(ctx context.Context) (func(), error) {
	if s.watcher == nil {
		return nil, ErrNoSource
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	previous := s.stop
	s.stop = nil
	s.mu.Unlock()
	if previous != nil {
		previous()
	}

	unsubscribe, err := s.watcher.Subscribe(ctx, s.kind.Collection(), s.ReplaceAll)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", s.kind.Collection(), err)
	}

	var once sync.Once
	stop := func() { once.Do(unsubscribe) }

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stop()
		return nil, ErrClosed
	}
	s.stop = stop
	s.mu.Unlock()

	s.logger.Debug("watching collection", "collection", s.kind.Collection())
	return stop, nil
}

// Close disposes the store. The live subscription is stopped and every
// later mutation is dropped.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Alive reports whether the store still accepts mutations.
func (s *Store) Alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

func (s *Store) reportSize() {
	metrics.RecordStoreSize.WithLabelValues(string(s.kind)).Set(float64(len(s.records)))
}
