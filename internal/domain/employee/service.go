package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/validation"
)

// Service handles employee operations.
type Service struct {
	store    Store
	activity *activity.Service
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
	avatar   func() string
}

// NewService creates a new employee service. activityLog may be nil.
func NewService(store Store, activityLog *activity.Service, logger *slog.Logger) *Service {
	v := validation.New()
	validation.RegisterEnum(v, "employee_role", Roles)
	validation.RegisterEnum(v, "employee_status", Statuses)
	return &Service{
		store:    store,
		activity: activityLog,
		validate: v,
		logger:   logger,
		now:      time.Now,
		avatar:   RandomAvatar,
	}
}

// Create creates a new employee.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Employee, error) {
	now := s.now()
	e := &Employee{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Position:  strings.TrimSpace(req.Position),
		Role:      req.Role,
		Status:    req.Status,
		Image:     strings.TrimSpace(req.Image),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if e.Role == "" {
		e.Role = RoleStaff
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.Image == "" {
		e.Image = s.avatar()
	}
	if err := s.check(e); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, Collection, e.Fields())
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}
	e.ID = id

	s.activity.Record(ctx, Collection, id, activity.TypeCreated, "Created employee "+e.Name)
	return e, nil
}

// Get fetches an employee by ID.
func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	rec, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	return FromRecord(rec), nil
}

// List returns every employee in store order.
func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	records, err := s.store.FetchAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	out := make([]*Employee, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

// Update applies the non-nil fields of req. Changing the email does not
// rewrite project member lists that reference the old one.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	var checked []string
	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
		changes[FieldName] = e.Name
		checked = append(checked, "Name")
	}
	if req.Email != nil {
		e.Email = strings.TrimSpace(*req.Email)
		changes[FieldEmail] = e.Email
		checked = append(checked, "Email")
	}
	if req.Position != nil {
		e.Position = strings.TrimSpace(*req.Position)
		changes[FieldPosition] = e.Position
	}
	if req.Role != nil {
		e.Role = *req.Role
		changes[FieldRole] = string(e.Role)
		checked = append(checked, "Role")
	}
	if req.Status != nil {
		e.Status = *req.Status
		changes[FieldStatus] = string(e.Status)
		checked = append(checked, "Status")
	}
	if req.Image != nil {
		e.Image = strings.TrimSpace(*req.Image)
		changes[FieldImage] = e.Image
	}
	if len(changes) == 0 {
		return e, nil
	}
	if len(checked) > 0 {
		if err := s.check(e, checked...); err != nil {
			return nil, err
		}
	}

	e.UpdatedAt = s.now()
	changes[FieldUpdatedAt] = e.UpdatedAt
	if err := s.store.Update(ctx, Collection, id, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("updating employee: %w", err)
	}

	s.activity.Record(ctx, Collection, id, activity.TypeUpdated, "Updated employee "+e.Name)
	return e, nil
}

// Delete removes an employee. Projects keep the email, which then resolves
// to a placeholder.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("deleting employee: %w", err)
	}
	s.activity.Record(ctx, Collection, id, activity.TypeDeleted, "Deleted employee "+id)
	return nil
}

func (s *Service) check(e *Employee, fields ...string) error {
	err := validation.Partial(s.validate, form{Name: e.Name, Email: e.Email, Role: e.Role, Status: e.Status}, fields)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("employee rejected", "fields", validation.Fields(err))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}
	return nil
}
