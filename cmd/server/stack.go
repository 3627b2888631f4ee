package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/workboard/internal/config"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/seed"
	"github.com/rpggio/workboard/internal/sqlite"
)

// documents is what the server needs from a document backend.
type documents interface {
	repository.DocumentStore
	seed.Seeder
	Close() error
}

// backend holds the opened document store and the database behind the
// activity log.
type backend struct {
	docs documents
	db   *sqlite.DB
}

// openBackend opens the configured driver. The activity log always lives in
// SQLite; with the memory driver it uses an in-memory database.
func openBackend(cfg config.Config, logger *slog.Logger) (*backend, error) {
	path := cfg.DB.Path
	if cfg.DB.Driver == config.DriverMemory {
		path = ":memory:"
	}
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	b := &backend{db: db}
	switch cfg.DB.Driver {
	case config.DriverMemory:
		b.docs = memory.New()
	default:
		b.docs = sqlite.NewDocumentStore(db, logger)
	}
	logger.Info("database ready", "driver", cfg.DB.Driver, "path", path)
	return b, nil
}

func (b *backend) seed(ctx context.Context, logger *slog.Logger) error {
	if err := seed.Apply(ctx, b.docs, now()); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	logger.Info("sample data loaded")
	return nil
}

func (b *backend) Close() error {
	return errors.Join(b.docs.Close(), b.db.Close())
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
