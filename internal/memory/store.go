// Package memory provides an in-memory implementation of the document store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/feed"
	"github.com/rpggio/workboard/internal/metrics"
	"github.com/rpggio/workboard/internal/repository"
)

// Compile-time contract assertion.
var _ repository.DocumentStore = (*Store)(nil)

const backend = "memory"

type collection struct {
	order []string
	docs  map[string]record.Record
}

// Store keeps every collection in process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	hub         *feed.Hub
	closed      bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
		hub:         feed.NewHub(),
	}
}

// Seed inserts or replaces documents with fixed ids, bypassing id generation.
func (s *Store) Seed(_ context.Context, name string, records ...record.Record) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	col := s.collectionLocked(name)
	for _, rec := range records {
		rec = rec.Clone()
		if rec.Kind == "" {
			rec.Kind = kindOf(name)
		}
		if _, ok := col.docs[rec.ID]; !ok {
			col.order = append(col.order, rec.ID)
		}
		col.docs[rec.ID] = rec
	}
	s.publishLocked(name)
	return nil
}

// FetchAll returns every document of a collection in insertion order.
func (s *Store) FetchAll(_ context.Context, name string) ([]record.Record, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	metrics.DocumentOperations.WithLabelValues(backend, name, "fetch_all", "ok").Inc()
	return s.snapshotLocked(name), nil
}

// Subscribe delivers the current snapshot and one after every write.
func (s *Store) Subscribe(ctx context.Context, name string, onChange func([]record.Record)) (func(), error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	// Registering under the lock means no write can slip between the
	// initial snapshot and the first publish.
	unsubscribe := s.hub.Subscribe(name, s.snapshotLocked(name), onChange)
	return feed.BindContext(ctx, unsubscribe), nil
}

// Create adds a new document with a generated id.
func (s *Store) Create(_ context.Context, name string, fields map[string]any) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", repository.ErrClosed
	}
	col := s.collectionLocked(name)
	col.order = append(col.order, id)
	col.docs[id] = record.New(kindOf(name), id, fields)
	s.publishLocked(name)
	s.mu.Unlock()

	metrics.DocumentOperations.WithLabelValues(backend, name, "create", "ok").Inc()
	return id, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(_ context.Context, name, id string, fields map[string]any) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return repository.ErrClosed
	}
	col := s.collections[name]
	if col == nil {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	current, ok := col.docs[id]
	if !ok {
		s.mu.Unlock()
		metrics.DocumentOperations.WithLabelValues(backend, name, "update", "not_found").Inc()
		return repository.ErrNotFound
	}
	col.docs[id] = current.Merge(fields)
	s.publishLocked(name)
	s.mu.Unlock()

	metrics.DocumentOperations.WithLabelValues(backend, name, "update", "ok").Inc()
	return nil
}

// Delete removes a document.
func (s *Store) Delete(_ context.Context, name, id string) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return repository.ErrClosed
	}
	col := s.collections[name]
	if col == nil {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	s.publishLocked(name)
	s.mu.Unlock()

	metrics.DocumentOperations.WithLabelValues(backend, name, "delete", "ok").Inc()
	return nil
}

// Get returns one document.
func (s *Store) Get(_ context.Context, name, id string) (record.Record, error) {
	if err := validName(name); err != nil {
		return record.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return record.Record{}, repository.ErrClosed
	}
	col := s.collections[name]
	if col == nil {
		return record.Record{}, repository.ErrNotFound
	}
	rec, ok := col.docs[id]
	if !ok {
		return record.Record{}, repository.ErrNotFound
	}
	return rec.Clone(), nil
}

// FindByField returns documents whose field renders exactly as value.
func (s *Store) FindByField(_ context.Context, name, field, value string) ([]record.Record, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if err := validName(field); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	var out []record.Record
	for _, rec := range s.snapshotLocked(name) {
		if _, ok := rec.Value(field); ok && rec.Text(field) == value {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Close stops all subscriptions and rejects further calls.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.hub.Close()
	return nil
}

func (s *Store) collectionLocked(name string) *collection {
	col := s.collections[name]
	if col == nil {
		col = &collection{docs: make(map[string]record.Record)}
		s.collections[name] = col
	}
	return col
}

func (s *Store) snapshotLocked(name string) []record.Record {
	col := s.collections[name]
	if col == nil {
		return []record.Record{}
	}
	out := make([]record.Record, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, col.docs[id].Clone())
	}
	return out
}

// publishLocked runs under the write lock so snapshots reach subscribers in
// commit order.
func (s *Store) publishLocked(name string) {
	if !s.hub.HasSubscribers(name) {
		return
	}
	s.hub.Publish(name, s.snapshotLocked(name))
}

func kindOf(name string) record.Kind {
	if kind, ok := record.KindForCollection(name); ok {
		return kind
	}
	return record.Kind(name)
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", repository.ErrInvalidInput)
	}
	return nil
}
