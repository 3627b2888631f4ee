// Package dashboard aggregates the overview cards shown on the home screen.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/query"
	"golang.org/x/sync/errgroup"
)

// Overview is the cross-collection summary. Every figure is computed from
// the records passed to Build.
type Overview struct {
	Projects           int                `json:"projects"`
	Contracts          int                `json:"contracts"`
	Employees          int                `json:"employees"`
	ProjectStatus      query.Summary      `json:"project_status"`
	ContractStatus     query.Summary      `json:"contract_status"`
	EmployeeRoles      query.Summary      `json:"employee_roles"`
	InProgressProjects int                `json:"in_progress_projects"`
	ContractValue      map[string]float64 `json:"contract_value"`
}

// Build aggregates the three collections.
func Build(projects, contracts, employees []record.Record) Overview {
	o := Overview{
		Projects:       len(projects),
		Contracts:      len(contracts),
		Employees:      len(employees),
		ProjectStatus:  query.Aggregate(projects, project.FieldStatus),
		ContractStatus: query.Aggregate(contracts, contract.FieldStatus),
		EmployeeRoles:  query.Aggregate(employees, employee.FieldRole),
		ContractValue:  make(map[string]float64),
	}
	o.InProgressProjects = o.ProjectStatus.Count(string(project.StatusInProgress))
	for _, rec := range contracts {
		value, _ := rec.Number(contract.FieldValue)
		o.ContractValue[rec.Text(contract.FieldCurrency)] += value
	}
	return o
}

// Source fetches collections.
type Source interface {
	FetchAll(ctx context.Context, collection string) ([]record.Record, error)
}

// Service builds overviews from a remote source.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a dashboard service.
func NewService(source Source, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Overview fetches the three collections concurrently and aggregates them.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var projects, contracts, employees []record.Record

	g, gCtx := errgroup.WithContext(ctx)
	fetch := func(collection string, into *[]record.Record) {
		g.Go(func() error {
			records, err := s.source.FetchAll(gCtx, collection)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", collection, err)
			}
			*into = records
			return nil
		})
	}
	fetch(project.Collection, &projects)
	fetch(contract.Collection, &contracts)
	fetch(employee.Collection, &employees)
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	o := Build(projects, contracts, employees)
	if s.logger != nil {
		s.logger.Debug("dashboard built", "projects", o.Projects, "contracts", o.Contracts, "employees", o.Employees)
	}
	return o, nil
}
