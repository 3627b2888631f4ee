package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/query"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/validation"
)

// Service handles contract operations.
type Service struct {
	store    Store
	activity *activity.Service
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new contract service. activityLog may be nil.
func NewService(store Store, activityLog *activity.Service, logger *slog.Logger) *Service {
	v := validation.New()
	validation.RegisterEnum(v, "contract_status", Statuses)
	validation.RegisterEnum(v, "contract_currency", Currencies)
	return &Service{store: store, activity: activityLog, validate: v, logger: logger, now: time.Now}
}

// Create creates a new contract.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Contract, error) {
	now := s.now()
	c := &Contract{
		ContractName: strings.TrimSpace(req.ContractName),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Description:  strings.TrimSpace(req.Description),
		Value:        req.Value,
		Currency:     req.Currency,
		TermMonths:   req.TermMonths,
		Status:       req.Status,
		SignedDate:   req.SignedDate,
		ExpiryDate:   req.ExpiryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if c.Currency == "" {
		c.Currency = CurrencyVND
	}
	if c.Status == "" {
		c.Status = StatusPendingApproval
	}
	if err := s.check(c); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, Collection, c.Fields())
	if err != nil {
		return nil, fmt.Errorf("creating contract: %w", err)
	}
	c.ID = id

	s.activity.Record(ctx, Collection, id, activity.TypeCreated, "Created contract "+c.ContractName)
	return c, nil
}

// Get fetches a contract by ID.
func (s *Service) Get(ctx context.Context, id string) (*Contract, error) {
	rec, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("getting contract: %w", err)
	}
	return FromRecord(rec), nil
}

// List returns every contract, newest first.
func (s *Service) List(ctx context.Context) ([]*Contract, error) {
	records, err := s.store.FetchAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	out := make([]*Contract, 0, len(records))
	for _, rec := range SortNewestFirst(records) {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

// SortNewestFirst orders contract documents by creation time, newest
// first. Documents without a creation time sort last.
func SortNewestFirst(records []record.Record) []record.Record {
	normalized := make([]record.Record, len(records))
	for i, rec := range records {
		if _, ok := rec.Time(FieldCreatedAt); !ok {
			if legacy, ok := rec.Time(legacyCreatedAt); ok {
				rec = rec.Merge(map[string]any{FieldCreatedAt: legacy})
			}
		}
		normalized[i] = rec
	}
	return query.SortByTime(normalized, FieldCreatedAt, true)
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Contract, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	var checked []string
	if req.ContractName != nil {
		c.ContractName = strings.TrimSpace(*req.ContractName)
		changes[FieldContractName] = c.ContractName
		checked = append(checked, "ContractName")
	}
	if req.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*req.CompanyName)
		changes[FieldCompanyName] = c.CompanyName
		checked = append(checked, "CompanyName")
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
		changes[FieldDescription] = c.Description
	}
	if req.Value != nil {
		c.Value = *req.Value
		changes[FieldValue] = c.Value
		checked = append(checked, "Value")
	}
	if req.Currency != nil {
		c.Currency = *req.Currency
		changes[FieldCurrency] = string(c.Currency)
		checked = append(checked, "Currency")
	}
	if req.TermMonths != nil {
		c.TermMonths = *req.TermMonths
		changes[FieldTerm] = c.TermMonths
		checked = append(checked, "TermMonths")
	}
	if req.Status != nil {
		c.Status = *req.Status
		changes[FieldStatus] = string(c.Status)
		checked = append(checked, "Status")
	}
	if req.SignedDate != nil {
		c.SignedDate = req.SignedDate
		changes[FieldSignedDate] = *req.SignedDate
	}
	if req.ExpiryDate != nil {
		c.ExpiryDate = req.ExpiryDate
		changes[FieldExpiryDate] = *req.ExpiryDate
	}
	if len(changes) == 0 {
		return c, nil
	}
	if len(checked) > 0 {
		if err := s.check(c, checked...); err != nil {
			return nil, err
		}
	}

	c.UpdatedAt = s.now()
	changes[FieldUpdatedAt] = c.UpdatedAt
	if err := s.store.Update(ctx, Collection, id, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("updating contract: %w", err)
	}

	s.activity.Record(ctx, Collection, id, activity.TypeUpdated, "Updated contract "+c.ContractName)
	return c, nil
}

// Delete removes a contract.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("deleting contract: %w", err)
	}
	s.activity.Record(ctx, Collection, id, activity.TypeDeleted, "Deleted contract "+id)
	return nil
}

func (s *Service) check(c *Contract, fields ...string) error {
	err := validation.Partial(s.validate, form{
		ContractName: c.ContractName,
		CompanyName:  c.CompanyName,
		Value:        c.Value,
		Currency:     c.Currency,
		TermMonths:   c.TermMonths,
		Status:       c.Status,
	}, fields)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("contract rejected", "fields", validation.Fields(err))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}
	return nil
}
