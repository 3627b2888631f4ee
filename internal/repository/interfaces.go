package repository

import (
	"context"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/record"
)

// DocumentStore is the hosted document database the application mirrors.
// Snapshots are returned in insertion order.
type DocumentStore interface {
	// FetchAll returns a one-shot snapshot of a collection.
	FetchAll(ctx context.Context, collection string) ([]record.Record, error)

	// Subscribe delivers the current snapshot, then a full snapshot after
	// every committed write to the collection. The returned func stops the
	// subscription and is safe to call more than once.
	Subscribe(ctx context.Context, collection string, onChange func([]record.Record)) (func(), error)

	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document.
	Delete(ctx context.Context, collection, id string) error

	// Get returns one document by id.
	Get(ctx context.Context, collection, id string) (record.Record, error)

	// FindByField returns documents whose string field equals value exactly.
	// Non-string fields are not guaranteed to compare the same across backends.
	FindByField(ctx context.Context, collection, field, value string) ([]record.Record, error)
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
