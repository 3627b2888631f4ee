package contract

import (
	"context"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Store provides persistence for contract documents.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (record.Record, error)
	FetchAll(ctx context.Context, collection string) ([]record.Record, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}
