// Package workspace owns one shared record store per collection for a
// session. Every consumer reads the same store instead of fetching its own
// copy.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/recordstore"
	"github.com/rpggio/workboard/internal/repository"
)

// ErrUnknownCollection is returned for collections the workspace doesn't hold.
var ErrUnknownCollection = errors.New("unknown collection")

// Kinds lists the collections a workspace mirrors.
var Kinds = []record.Kind{record.KindProject, record.KindContract, record.KindEmployee}

// Workspace holds live stores over a document store.
type Workspace struct {
	stores map[record.Kind]*recordstore.Store
	logger *slog.Logger
}

// Open loads every collection and starts watching for changes. The stores
// hold a full snapshot when Open returns.
func Open(ctx context.Context, docs repository.DocumentStore, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Workspace{
		stores: make(map[record.Kind]*recordstore.Store, len(Kinds)),
		logger: logger,
	}
	for _, kind := range Kinds {
		store := recordstore.New(kind,
			recordstore.WithSource(docs),
			recordstore.WithLogger(logger.With("collection", kind.Collection())),
		)
		w.stores[kind] = store

		if err := store.Refresh(ctx); err != nil {
			w.Close()
			return nil, fmt.Errorf("opening workspace: %w", err)
		}
		if _, err := store.Watch(ctx); err != nil {
			w.Close()
			return nil, fmt.Errorf("opening workspace: %w", err)
		}
	}
	logger.Info("workspace opened", "collections", len(w.stores))
	return w, nil
}

// Store returns the shared store for kind.
func (w *Workspace) Store(kind record.Kind) *recordstore.Store {
	return w.stores[kind]
}

// Collection returns the shared store backing a collection name.
func (w *Workspace) Collection(name string) (*recordstore.Store, error) {
	kind, ok := record.KindForCollection(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return w.stores[kind], nil
}

// Projects returns the shared project store.
func (w *Workspace) Projects() *recordstore.Store { return w.stores[record.KindProject] }

// Contracts returns the shared contract store.
func (w *Workspace) Contracts() *recordstore.Store { return w.stores[record.KindContract] }

// Employees returns the shared employee store.
func (w *Workspace) Employees() *recordstore.Store { return w.stores[record.KindEmployee] }

// Confirm applies a confirmed write to the shared store for rec.Kind, so
// readers see it before the next snapshot arrives. Fields already held for
// the record and absent from rec are kept.
func (w *Workspace) Confirm(rec record.Record) {
	store, ok := w.stores[rec.Kind]
	if !ok {
		return
	}
	if cur, found := store.Get(rec.ID); found {
		rec = cur.Merge(rec.Fields)
	}
	store.Upsert(rec)
}

// ConfirmDelete removes a deleted record from the shared store for kind.
func (w *Workspace) ConfirmDelete(kind record.Kind, id string) {
	if store, ok := w.stores[kind]; ok {
		store.Remove(id)
	}
}

// Refresh re-fetches one collection.
func (w *Workspace) Refresh(ctx context.Context, name string) error {
	store, err := w.Collection(name)
	if err != nil {
		return err
	}
	return store.Refresh(ctx)
}

// Close disposes every store. Late snapshots are dropped.
func (w *Workspace) Close() {
	for _, store := range w.stores {
		store.Close()
	}
	w.logger.Debug("workspace closed")
}
