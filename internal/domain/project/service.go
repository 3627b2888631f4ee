package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/validation"
)

// Service handles project operations.
type Service struct {
	store    Store
	members  MemberResolver
	activity *activity.Service
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new project service. members and activityLog may be nil.
func NewService(store Store, members MemberResolver, activityLog *activity.Service, logger *slog.Logger) *Service {
	v := validation.New()
	validation.RegisterEnum(v, "project_status", []Status{
		StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusPaused,
	})
	return &Service{
		store:    store,
		members:  members,
		activity: activityLog,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// Create creates a new pending project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	now := s.now()
	proj := &Project{
		Name:        strings.TrimSpace(req.Name),
		Client:      strings.TrimSpace(req.Client),
		Description: strings.TrimSpace(req.Description),
		Status:      StatusPending,
		Progress:    0,
		Deadline:    req.Deadline,
		Members:     cleanMembers(req.Members),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.check(proj); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, Collection, proj.Fields())
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	proj.ID = id

	s.activity.Record(ctx, Collection, id, activity.TypeCreated, "Created project "+proj.Name)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	rec, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return FromRecord(rec), nil
}

// List returns every project in store order.
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	records, err := s.store.FetchAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]*Project, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	var checked []string
	if req.Name != nil {
		proj.Name = strings.TrimSpace(*req.Name)
		changes[FieldName] = proj.Name
		checked = append(checked, "Name")
	}
	if req.Client != nil {
		proj.Client = strings.TrimSpace(*req.Client)
		changes[FieldClient] = proj.Client
		checked = append(checked, "Client")
	}
	if req.Description != nil {
		proj.Description = strings.TrimSpace(*req.Description)
		changes[FieldDescription] = proj.Description
	}
	if req.Status != nil {
		proj.Status = *req.Status
		changes[FieldStatus] = string(proj.Status)
		checked = append(checked, "Status")
	}
	if req.Progress != nil {
		proj.Progress = *req.Progress
		changes[FieldProgress] = proj.Progress
		checked = append(checked, "Progress")
	}
	if req.Deadline != nil {
		proj.Deadline = req.Deadline
		changes[FieldDeadline] = *req.Deadline
	}
	if req.Members != nil {
		proj.Members = cleanMembers(*req.Members)
		changes[FieldMembers] = append([]string{}, proj.Members...)
	}
	if len(changes) == 0 {
		return proj, nil
	}
	// Stored documents may carry legacy statuses, so only the fields being
	// changed are validated.
	if len(checked) > 0 {
		if err := s.check(proj, checked...); err != nil {
			return nil, err
		}
	}

	proj.UpdatedAt = s.now()
	changes[FieldUpdatedAt] = proj.UpdatedAt
	if err := s.store.Update(ctx, Collection, id, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.activity.Record(ctx, Collection, id, activity.TypeUpdated, "Updated project "+proj.Name)
	return proj, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.activity.Record(ctx, Collection, id, activity.TypeDeleted, "Deleted project "+id)
	return nil
}

// Members resolves the project's member emails, one entry per email.
func (s *Service) Members(ctx context.Context, id string) ([]relation.Member, error) {
	if s.members == nil {
		return nil, ErrNoResolver
	}
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.members.Resolve(ctx, proj.Members)
	if err != nil {
		return nil, fmt.Errorf("resolving members of %s: %w", id, err)
	}
	return members, nil
}

// check validates proj. With fields given, only those form fields are checked.
func (s *Service) check(proj *Project, fields ...string) error {
	f := form{
		Name:     proj.Name,
		Client:   proj.Client,
		Status:   proj.Status,
		Progress: proj.Progress,
	}
	err := validation.Partial(s.validate, f, fields)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("project rejected", "fields", validation.Fields(err))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}
	return nil
}
