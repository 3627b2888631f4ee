package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *Entry) error {
	if entry == nil || strings.TrimSpace(entry.Collection) == "" || entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Record logs a change to one document. Failures are logged, not returned,
// so a broken activity log never fails the write it describes.
func (s *Service) Record(ctx context.Context, collection, recordID string, typ Type, summary string) {
	if s == nil {
		return
	}
	err := s.LogActivity(ctx, &Entry{
		Collection: collection,
		RecordID:   recordID,
		Type:       typ,
		Summary:    summary,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "collection", collection, "record_id", recordID, "error", err)
	}
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListOptions) ([]Entry, error) {
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
