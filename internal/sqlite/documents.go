package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/feed"
	"github.com/rpggio/workboard/internal/metrics"
	"github.com/rpggio/workboard/internal/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

const backend = "sqlite"

// DocumentStore implements repository.DocumentStore for SQLite. Each
// document is one row holding its fields as JSON.
type DocumentStore struct {
	db     *DB
	hub    *feed.Hub
	logger *slog.Logger

	// writeMu orders commits with the snapshots published after them.
	writeMu sync.Mutex
	closed  bool
}

// NewDocumentStore creates a new DocumentStore. logger may be nil.
func NewDocumentStore(db *DB, logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DocumentStore{db: db, hub: feed.NewHub(), logger: logger}
}

// FetchAll returns every document of a collection in insertion order
func (s *DocumentStore) FetchAll(ctx context.Context, collection string) ([]record.Record, error) {
	if err := validName(collection); err != nil {
		return nil, err
	}
	records, err := s.fetchAll(ctx, collection)
	s.count(collection, "fetch_all", err)
	return records, err
}

func (s *DocumentStore) fetchAll(ctx context.Context, collection string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields FROM documents WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}
	return scanDocuments(rows, collection)
}

// Subscribe delivers the current snapshot and one after every committed write
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, onChange func([]record.Record)) (func(), error) {
	if err := validName(collection); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	initial, err := s.fetchAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	return feed.BindContext(ctx, s.hub.Subscribe(collection, initial, onChange)), nil
}

// Create inserts a new document with a generated id
func (s *DocumentStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := validName(collection); err != nil {
		return "", err
	}
	payload, err := record.MarshalFields(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	id := uuid.NewString()

	err = s.write(ctx, collection, func() error {
		now := time.Now()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (collection, id, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			collection, id, string(payload), now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: duplicate id %s", repository.ErrInvalidInput, id)
			}
			return fmt.Errorf("failed to create document: %w", err)
		}
		return nil
	})
	s.count(collection, "create", err)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Seed inserts or replaces documents with fixed ids
func (s *DocumentStore) Seed(ctx context.Context, collection string, records ...record.Record) error {
	if err := validName(collection); err != nil {
		return err
	}
	return s.write(ctx, collection, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin seed: %w", err)
		}
		defer tx.Rollback()

		now := time.Now()
		for _, rec := range records {
			payload, err := record.MarshalFields(rec.Fields)
			if err != nil {
				return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO documents (collection, id, fields, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`,
				collection, rec.ID, string(payload), now, now)
			if err != nil {
				return fmt.Errorf("failed to seed document %s: %w", rec.ID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit seed: %w", err)
		}
		return nil
	})
}

// Update merges fields into an existing document
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := validName(collection); err != nil {
		return err
	}
	err := s.write(ctx, collection, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin update: %w", err)
		}
		defer tx.Rollback()

		var payload string
		err = tx.QueryRowContext(ctx,
			`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}

		current, err := record.UnmarshalFields([]byte(payload))
		if err != nil {
			return fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		merged, err := record.MarshalFields(record.New("", id, current).Merge(fields).Fields)
		if err != nil {
			return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET fields = ?, updated_at = ? WHERE collection = ? AND id = ?`,
			string(merged), time.Now(), collection, id); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit update: %w", err)
		}
		return nil
	})
	s.count(collection, "update", err)
	return err
}

// Delete removes a document
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := validName(collection); err != nil {
		return err
	}
	err := s.write(ctx, collection, func() error {
		result, err := s.db.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
		if err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	s.count(collection, "delete", err)
	return err
}

// Get returns one document by id
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (record.Record, error) {
	if err := validName(collection); err != nil {
		return record.Record{}, err
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, repository.ErrNotFound
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to get document: %w", err)
	}
	fields, err := record.UnmarshalFields([]byte(payload))
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return record.Record{ID: id, Kind: kindOf(collection), Fields: fields}, nil
}

// FindByField returns documents whose field, rendered as text, equals value
func (s *DocumentStore) FindByField(ctx context.Context, collection, field, value string) ([]record.Record, error) {
	if err := validName(collection); err != nil {
		return nil, err
	}
	if err := validName(field); err != nil {
		return nil, err
	}
	if strings.ContainsAny(field, `"\`) {
		return nil, fmt.Errorf("%w: field %q", repository.ErrInvalidInput, field)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM documents
		WHERE collection = ? AND CAST(json_extract(fields, ?) AS TEXT) = ?
		ORDER BY seq`,
		collection, `$."`+field+`"`, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	records, err := scanDocuments(rows, collection)
	s.count(collection, "find_by_field", err)
	return records, err
}

// Close stops all subscriptions. The database itself is owned by the caller.
func (s *DocumentStore) Close() error {
	s.writeMu.Lock()
	s.closed = true
	s.writeMu.Unlock()
	s.hub.Close()
	return nil
}

// write runs fn under the write lock and publishes a fresh snapshot of the
// collection when it succeeds.
func (s *DocumentStore) write(ctx context.Context, collection string, fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	if err := fn(); err != nil {
		return err
	}
	if !s.hub.HasSubscribers(collection) {
		return nil
	}
	snapshot, err := s.fetchAll(context.WithoutCancel(ctx), collection)
	if err != nil {
		// The write is committed; subscribers catch up on the next one.
		s.logger.Warn("snapshot after write failed", "collection", collection, "error", err)
		return nil
	}
	s.hub.Publish(collection, snapshot)
	return nil
}

func (s *DocumentStore) count(collection, op string, err error) {
	status := metrics.Status(err)
	if errors.Is(err, repository.ErrNotFound) {
		status = "not_found"
	}
	metrics.DocumentOperations.WithLabelValues(backend, collection, op, status).Inc()
}

func scanDocuments(rows *sql.Rows, collection string) ([]record.Record, error) {
	defer rows.Close()

	kind := kindOf(collection)
	records := []record.Record{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		fields, err := record.UnmarshalFields([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		records = append(records, record.Record{ID: id, Kind: kind, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return records, nil
}

func kindOf(collection string) record.Kind {
	if kind, ok := record.KindForCollection(collection); ok {
		return kind
	}
	return record.Kind(collection)
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", repository.ErrInvalidInput)
	}
	return nil
}
