package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/workboard/internal/dashboard"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/query"
	"github.com/rpggio/workboard/internal/recordstore"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/rpggio/workboard/internal/workspace"
)

// defaultGroup collects records without a value for the grouping field.
const defaultGroup = "Khác"

type collectionDefaults struct {
	searchField   string
	categoryField string
}

var defaults = map[string]collectionDefaults{
	project.Collection:  {searchField: project.FieldName, categoryField: project.FieldStatus},
	contract.Collection: {searchField: contract.FieldContractName, categoryField: contract.FieldStatus},
	employee.Collection: {searchField: employee.FieldName, categoryField: employee.FieldRole},
}

type tools struct {
	services Services
	allLabel string
	now      func() time.Time
}

func registerTools(server *sdkmcp.Server, t *tools) {
	if t.now == nil {
		t.now = time.Now
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "ping", Description: "Check that the server is up"}, t.ping)

	// Browsing
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_records",
		Description: "List records of a collection filtered by free-text search or by category. Search overrides category.",
	}, t.listRecords)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "summarize_records",
		Description: "Count the selected records per value of a field",
	}, t.summarizeRecords)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "group_records",
		Description: "Group the selected records by a field, in first-appearance order",
	}, t.groupRecords)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_record",
		Description: "Get one record of a collection from the shared store",
	}, t.getRecord)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh_collection",
		Description: "Re-fetch a collection (or all of them) from the database",
	}, t.refreshCollection)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_members",
		Description: "Resolve a project's member emails (or a list of emails) to employees; unknown emails become placeholders",
	}, t.resolveMembers)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Totals, status counts and contract value per currency across all collections",
	}, t.getDashboard)

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "create_project", Description: "Create a project; it starts as Chờ xử lý with progress 0"}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_project", Description: "Change the given fields of a project"}, t.updateProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_project", Description: "Delete a project"}, t.deleteProject)

	// Contracts
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "create_contract", Description: "Create a contract; currency defaults to VNĐ and status to Chờ duyệt"}, t.createContract)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_contract", Description: "Change the given fields of a contract"}, t.updateContract)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_contract", Description: "Delete a contract"}, t.deleteContract)

	// Employees
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "create_employee", Description: "Create an employee; role defaults to Nhân viên and status to Hoạt động"}, t.createEmployee)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_employee", Description: "Change the given fields of an employee"}, t.updateEmployee)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_employee", Description: "Delete an employee"}, t.deleteEmployee)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent create, update and delete operations, newest first",
	}, t.getRecentActivity)
}

func (t *tools) ping(_ context.Context, _ *sdkmcp.CallToolRequest, _ PingParams) (*sdkmcp.CallToolResult, any, error) {
	return nil, PingResponse{Status: "ok", Time: t.now().UTC()}, nil
}

func (t *tools) store(collection string) (*recordstore.Store, error) {
	if t.services.Workspace == nil {
		return nil, &APIError{Code: "UNAVAILABLE", Message: "no workspace configured"}
	}
	store, err := t.services.Workspace.Collection(collection)
	if err != nil {
		return nil, toolError(err)
	}
	return store, nil
}

// query builds the evaluation for p, filling per-collection defaults.
func (t *tools) query(p filterParams) query.Query {
	d := defaults[p.Collection]
	q := query.Query{
		SearchText:    p.Search,
		Category:      p.Category,
		CategoryField: p.CategoryField,
		SearchField:   p.SearchField,
		AlsoSearch:    p.AlsoSearch,
		All:           t.allLabel,
	}
	if q.CategoryField == "" {
		q.CategoryField = d.categoryField
	}
	if q.SearchField == "" {
		q.SearchField = d.searchField
	}
	return q
}

func (t *tools) listRecords(_ context.Context, _ *sdkmcp.CallToolRequest, in ListRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	store, err := t.store(in.Collection)
	if err != nil {
		return nil, nil, err
	}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, nil, invalidInput("limit and offset must not be negative")
	}

	q := t.query(in.filter())
	records := query.Filter(store.All(), q)
	if in.SortBy != "" {
		records = query.SortByTime(records, in.SortBy, in.Descending)
	}
	total := len(records)
	records = records[min(in.Offset, total):]
	if in.Limit > 0 && in.Limit < len(records) {
		records = records[:in.Limit]
	}

	return nil, ListRecordsResponse{
		Collection: in.Collection,
		Mode:       q.Mode(),
		Total:      total,
		Records:    records,
	}, nil
}

func (t *tools) summarizeRecords(_ context.Context, _ *sdkmcp.CallToolRequest, in SummarizeRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	store, err := t.store(in.Collection)
	if err != nil {
		return nil, nil, err
	}
	q := t.query(in.filter())
	field := in.Field
	if field == "" {
		field = q.CategoryField
	}
	return nil, SummarizeRecordsResponse{
		Collection: in.Collection,
		Field:      field,
		Mode:       q.Mode(),
		Summary:    query.Aggregate(query.Filter(store.All(), q), field),
	}, nil
}

func (t *tools) groupRecords(_ context.Context, _ *sdkmcp.CallToolRequest, in GroupRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	store, err := t.store(in.Collection)
	if err != nil {
		return nil, nil, err
	}
	q := t.query(filterParams{Collection: in.Collection, Search: in.Search, AlsoSearch: in.AlsoSearch})
	field := in.Field
	if field == "" {
		field = q.CategoryField
	}
	fallback := in.Fallback
	if fallback == "" {
		fallback = defaultGroup
	}
	groups := query.GroupBy(query.Filter(store.All(), q), field, fallback)
	if groups == nil {
		groups = []query.Group{}
	}
	return nil, GroupRecordsResponse{Collection: in.Collection, Field: field, Groups: groups}, nil
}

func (t *tools) getRecord(_ context.Context, _ *sdkmcp.CallToolRequest, in GetRecordParams) (*sdkmcp.CallToolResult, any, error) {
	store, err := t.store(in.Collection)
	if err != nil {
		return nil, nil, err
	}
	rec, ok := store.Get(in.ID)
	if !ok {
		return nil, nil, &APIError{
			Code:         "RECORD_NOT_FOUND",
			Message:      fmt.Sprintf("no %s record %q", in.Collection, in.ID),
			RecoveryHint: "Call refresh_collection if the record was just written elsewhere",
		}
	}
	return nil, rec, nil
}

func (t *tools) refreshCollection(ctx context.Context, _ *sdkmcp.CallToolRequest, in RefreshCollectionParams) (*sdkmcp.CallToolResult, any, error) {
	names := []string{in.Collection}
	if in.Collection == "" {
		names = names[:0]
		for _, kind := range workspace.Kinds {
			names = append(names, kind.Collection())
		}
	}

	counts := make(map[string]int, len(names))
	for _, name := range names {
		store, err := t.store(name)
		if err != nil {
			return nil, nil, err
		}
		if err := t.services.Workspace.Refresh(ctx, name); err != nil {
			return nil, nil, toolError(err)
		}
		counts[name] = store.Len()
	}
	return nil, RefreshCollectionResponse{Counts: counts}, nil
}

func (t *tools) resolveMembers(ctx context.Context, _ *sdkmcp.CallToolRequest, in ResolveMembersParams) (*sdkmcp.CallToolResult, any, error) {
	if in.Remote {
		return t.resolveRemote(ctx, in)
	}

	emails := in.Emails
	if in.ProjectID != "" {
		projects, err := t.store(project.Collection)
		if err != nil {
			return nil, nil, err
		}
		rec, ok := projects.Get(in.ProjectID)
		if !ok {
			return nil, nil, toolError(project.ErrProjectNotFound)
		}
		emails = project.FromRecord(rec).Members
	}

	employees, err := t.store(employee.Collection)
	if err != nil {
		return nil, nil, err
	}
	return nil, membersResponse(in.ProjectID, relation.ResolveMembers(emails, employees)), nil
}

// resolveRemote looks each member up in the database. The result is only
// reported while the shared employee store is still open.
func (t *tools) resolveRemote(ctx context.Context, in ResolveMembersParams) (*sdkmcp.CallToolResult, any, error) {
	if in.ProjectID == "" {
		return nil, nil, invalidInput("project_id is required when remote is set")
	}
	if t.services.Projects == nil {
		return nil, nil, &APIError{Code: "UNAVAILABLE", Message: "project service not configured"}
	}
	members, err := t.services.Projects.Members(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, toolError(err)
	}

	employees, err := t.store(employee.Collection)
	if err != nil {
		return nil, nil, err
	}
	var resolved []relation.Member
	if !relation.ApplyIfAlive(employees, members, func(m []relation.Member) { resolved = m }) {
		return nil, nil, toolError(recordstore.ErrClosed)
	}
	return nil, membersResponse(in.ProjectID, resolved), nil
}

func membersResponse(projectID string, members []relation.Member) ResolveMembersResponse {
	resp := ResolveMembersResponse{ProjectID: projectID, Members: members}
	for _, m := range members {
		if m.Placeholder {
			resp.Placeholders++
		}
	}
	return resp
}

func (t *tools) getDashboard(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetDashboardParams) (*sdkmcp.CallToolResult, any, error) {
	switch strings.ToLower(in.Source) {
	case "", "store":
		stores := make(map[string]*recordstore.Store, len(workspace.Kinds))
		for _, kind := range workspace.Kinds {
			store, err := t.store(kind.Collection())
			if err != nil {
				return nil, nil, err
			}
			stores[kind.Collection()] = store
		}
		overview := dashboard.Build(
			stores[project.Collection].All(),
			stores[contract.Collection].All(),
			stores[employee.Collection].All(),
		)
		return nil, DashboardResponse{Source: "store", Overview: overview}, nil
	case "database":
		if t.services.Dashboard == nil {
			return nil, nil, &APIError{Code: "UNAVAILABLE", Message: "dashboard service not configured"}
		}
		overview, err := t.services.Dashboard.Overview(ctx)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, DashboardResponse{Source: "database", Overview: overview}, nil
	default:
		return nil, nil, invalidInput("source must be store or database, got %q", in.Source)
	}
}

// confirm applies a successful write to the shared store.
func (t *tools) confirm(kind record.Kind, id string, fields map[string]any) {
	if t.services.Workspace != nil {
		t.services.Workspace.Confirm(record.New(kind, id, fields))
	}
}

func (t *tools) confirmDelete(kind record.Kind, id string) {
	if t.services.Workspace != nil {
		t.services.Workspace.ConfirmDelete(kind, id)
	}
}

func (t *tools) projectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{Project: p, Overdue: p.Overdue(t.now())}
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	deadline, err := parseDate("deadline", in.Deadline)
	if err != nil {
		return nil, nil, err
	}
	p, err := t.services.Projects.Create(ctx, project.CreateRequest{
		Name:        in.Name,
		Client:      in.Client,
		Description: in.Description,
		Deadline:    deadline,
		Members:     in.Members,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindProject, p.ID, p.Fields())
	return nil, t.projectResponse(p), nil
}

func (t *tools) updateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	deadline, err := optionalDate("deadline", in.Deadline)
	if err != nil {
		return nil, nil, err
	}
	p, err := t.services.Projects.Update(ctx, in.ID, project.UpdateRequest{
		Name:        in.Name,
		Client:      in.Client,
		Description: in.Description,
		Status:      optional[project.Status](in.Status),
		Progress:    in.Progress,
		Deadline:    deadline,
		Members:     in.Members,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindProject, p.ID, p.Fields())
	return nil, t.projectResponse(p), nil
}

func (t *tools) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.services.Projects.Delete(ctx, in.ID); err != nil {
		return nil, nil, toolError(err)
	}
	t.confirmDelete(record.KindProject, in.ID)
	return nil, DeleteResponse{ID: in.ID, Deleted: true}, nil
}

func (t *tools) contractResponse(c *contract.Contract) ContractResponse {
	return ContractResponse{Contract: c, FormattedValue: c.FormattedValue(), Expired: c.IsExpired(t.now())}
}

func (t *tools) createContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateContractParams) (*sdkmcp.CallToolResult, any, error) {
	signed, err := parseDate("signed_date", in.SignedDate)
	if err != nil {
		return nil, nil, err
	}
	expiry, err := parseDate("expiry_date", in.ExpiryDate)
	if err != nil {
		return nil, nil, err
	}
	c, err := t.services.Contracts.Create(ctx, contract.CreateRequest{
		ContractName: in.ContractName,
		CompanyName:  in.CompanyName,
		Description:  in.Description,
		Value:        in.Value,
		Currency:     contract.Currency(in.Currency),
		TermMonths:   in.TermMonths,
		Status:       contract.Status(in.Status),
		SignedDate:   signed,
		ExpiryDate:   expiry,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindContract, c.ID, c.Fields())
	return nil, t.contractResponse(c), nil
}

func (t *tools) updateContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateContractParams) (*sdkmcp.CallToolResult, any, error) {
	signed, err := optionalDate("signed_date", in.SignedDate)
	if err != nil {
		return nil, nil, err
	}
	expiry, err := optionalDate("expiry_date", in.ExpiryDate)
	if err != nil {
		return nil, nil, err
	}
	c, err := t.services.Contracts.Update(ctx, in.ID, contract.UpdateRequest{
		ContractName: in.ContractName,
		CompanyName:  in.CompanyName,
		Description:  in.Description,
		Value:        in.Value,
		Currency:     optional[contract.Currency](in.Currency),
		TermMonths:   in.TermMonths,
		Status:       optional[contract.Status](in.Status),
		SignedDate:   signed,
		ExpiryDate:   expiry,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindContract, c.ID, c.Fields())
	return nil, t.contractResponse(c), nil
}

func (t *tools) deleteContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.services.Contracts.Delete(ctx, in.ID); err != nil {
		return nil, nil, toolError(err)
	}
	t.confirmDelete(record.KindContract, in.ID)
	return nil, DeleteResponse{ID: in.ID, Deleted: true}, nil
}

func (t *tools) createEmployee(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateEmployeeParams) (*sdkmcp.CallToolResult, any, error) {
	e, err := t.services.Employees.Create(ctx, employee.CreateRequest{
		Name:     in.Name,
		Email:    in.Email,
		Position: in.Position,
		Role:     employee.Role(in.Role),
		Status:   employee.Status(in.Status),
		Image:    in.Image,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindEmployee, e.ID, e.Fields())
	return nil, EmployeeResponse{Employee: e}, nil
}

func (t *tools) updateEmployee(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateEmployeeParams) (*sdkmcp.CallToolResult, any, error) {
	e, err := t.services.Employees.Update(ctx, in.ID, employee.UpdateRequest{
		Name:     in.Name,
		Email:    in.Email,
		Position: in.Position,
		Role:     optional[employee.Role](in.Role),
		Status:   optional[employee.Status](in.Status),
		Image:    in.Image,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	t.confirm(record.KindEmployee, e.ID, e.Fields())
	return nil, EmployeeResponse{Employee: e}, nil
}

func (t *tools) deleteEmployee(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.services.Employees.Delete(ctx, in.ID); err != nil {
		return nil, nil, toolError(err)
	}
	t.confirmDelete(record.KindEmployee, in.ID)
	return nil, DeleteResponse{ID: in.ID, Deleted: true}, nil
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
	if t.services.Activity == nil {
		return nil, ActivityResponse{Entries: []activity.Entry{}}, nil
	}
	opts := activity.ListOptions{
		Collection: in.Collection,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.RecordID != "" {
		opts.RecordID = &in.RecordID
	}
	if in.Type != "" {
		typ := activity.Type(in.Type)
		opts.Type = &typ
	}
	entries, err := t.services.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return nil, ActivityResponse{Entries: entries}, nil
}
