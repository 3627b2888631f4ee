package mcp

import (
	"strings"
	"time"

	"github.com/rpggio/workboard/internal/dashboard"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/query"
	"github.com/rpggio/workboard/internal/relation"
)

type PingParams struct{}

type PingResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// filterParams selects records from a collection. Collection defaults
// decide the search and category fields when they are omitted.
type filterParams struct {
	Collection    string
	Search        string
	Category      string
	CategoryField string
	SearchField   string
	AlsoSearch    []string
}

type ListRecordsParams struct {
	Collection    string   `json:"collection" jsonschema:"projects, contracts or employees"`
	Search        string   `json:"search,omitempty" jsonschema:"free text, case-insensitive substring of search_field"`
	Category      string   `json:"category,omitempty" jsonschema:"exact value of category_field; empty or Tất cả selects all"`
	CategoryField string   `json:"category_field,omitempty"`
	SearchField   string   `json:"search_field,omitempty"`
	AlsoSearch    []string `json:"also_search,omitempty" jsonschema:"extra fields matched by search"`
	SortBy        string   `json:"sort_by,omitempty" jsonschema:"timestamp field to sort by, e.g. createdAt"`
	Descending    bool     `json:"descending,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	Offset        int      `json:"offset,omitempty"`
}

func (p ListRecordsParams) filter() filterParams {
	return filterParams{
		Collection:    p.Collection,
		Search:        p.Search,
		Category:      p.Category,
		CategoryField: p.CategoryField,
		SearchField:   p.SearchField,
		AlsoSearch:    p.AlsoSearch,
	}
}

type ListRecordsResponse struct {
	Collection string          `json:"collection"`
	Mode       string          `json:"mode"`
	Total      int             `json:"total"`
	Records    []record.Record `json:"records"`
}

type SummarizeRecordsParams struct {
	Collection    string   `json:"collection" jsonschema:"projects, contracts or employees"`
	Field         string   `json:"field,omitempty" jsonschema:"field to count by; defaults to the category field"`
	Search        string   `json:"search,omitempty"`
	Category      string   `json:"category,omitempty"`
	CategoryField string   `json:"category_field,omitempty"`
	SearchField   string   `json:"search_field,omitempty"`
	AlsoSearch    []string `json:"also_search,omitempty"`
}

func (p SummarizeRecordsParams) filter() filterParams {
	return filterParams{
		Collection:    p.Collection,
		Search:        p.Search,
		Category:      p.Category,
		CategoryField: p.CategoryField,
		SearchField:   p.SearchField,
		AlsoSearch:    p.AlsoSearch,
	}
}

type SummarizeRecordsResponse struct {
	Collection string `json:"collection"`
	Field      string `json:"field"`
	Mode       string `json:"mode"`
	query.Summary
}

type GroupRecordsParams struct {
	Collection string   `json:"collection" jsonschema:"projects, contracts or employees"`
	Field      string   `json:"field,omitempty" jsonschema:"field to group by; defaults to the category field"`
	Fallback   string   `json:"fallback,omitempty" jsonschema:"group for records without the field; defaults to Khác"`
	Search     string   `json:"search,omitempty"`
	AlsoSearch []string `json:"also_search,omitempty"`
}

type GroupRecordsResponse struct {
	Collection string        `json:"collection"`
	Field      string        `json:"field"`
	Groups     []query.Group `json:"groups"`
}

type GetRecordParams struct {
	Collection string `json:"collection" jsonschema:"projects, contracts or employees"`
	ID         string `json:"id"`
}

type RefreshCollectionParams struct {
	Collection string `json:"collection,omitempty" jsonschema:"collection to re-fetch; empty refreshes all"`
}

type RefreshCollectionResponse struct {
	Counts map[string]int `json:"counts"`
}

type ResolveMembersParams struct {
	ProjectID string   `json:"project_id,omitempty" jsonschema:"project whose members to resolve"`
	Emails    []string `json:"emails,omitempty" jsonschema:"emails to resolve when no project_id is given"`
	Remote    bool     `json:"remote,omitempty" jsonschema:"look members up in the database instead of the shared store"`
}

type ResolveMembersResponse struct {
	ProjectID    string            `json:"project_id,omitempty"`
	Members      []relation.Member `json:"members"`
	Placeholders int               `json:"placeholders"`
}

type GetDashboardParams struct {
	Source string `json:"source,omitempty" jsonschema:"store (default) or database"`
}

type DashboardResponse struct {
	Source string `json:"source"`
	dashboard.Overview
}

type CreateProjectParams struct {
	Name        string   `json:"name"`
	Client      string   `json:"client"`
	Description string   `json:"description,omitempty"`
	Deadline    string   `json:"deadline,omitempty" jsonschema:"RFC 3339 timestamp or YYYY-MM-DD"`
	Members     []string `json:"members,omitempty" jsonschema:"employee emails"`
}

type UpdateProjectParams struct {
	ID          string    `json:"id"`
	Name        *string   `json:"name,omitempty"`
	Client      *string   `json:"client,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Progress    *float64  `json:"progress,omitempty"`
	Deadline    *string   `json:"deadline,omitempty" jsonschema:"RFC 3339 timestamp or YYYY-MM-DD"`
	Members     *[]string `json:"members,omitempty"`
}

type ProjectResponse struct {
	*project.Project
	Overdue bool `json:"overdue"`
}

type CreateContractParams struct {
	ContractName string  `json:"contract_name"`
	CompanyName  string  `json:"company_name"`
	Description  string  `json:"description,omitempty"`
	Value        float64 `json:"value"`
	Currency     string  `json:"currency,omitempty" jsonschema:"VNĐ (default), USD or EUR"`
	TermMonths   int     `json:"term_months"`
	Status       string  `json:"status,omitempty"`
	SignedDate   string  `json:"signed_date,omitempty"`
	ExpiryDate   string  `json:"expiry_date,omitempty"`
}

type UpdateContractParams struct {
	ID           string   `json:"id"`
	ContractName *string  `json:"contract_name,omitempty"`
	CompanyName  *string  `json:"company_name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Value        *float64 `json:"value,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	TermMonths   *int     `json:"term_months,omitempty"`
	Status       *string  `json:"status,omitempty"`
	SignedDate   *string  `json:"signed_date,omitempty"`
	ExpiryDate   *string  `json:"expiry_date,omitempty"`
}

type ContractResponse struct {
	*contract.Contract
	FormattedValue string `json:"formatted_value"`
	Expired        bool   `json:"expired"`
}

type CreateEmployeeParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position,omitempty"`
	Role     string `json:"role,omitempty" jsonschema:"Quản lý, Nhân viên (default) or Thực tập"`
	Status   string `json:"status,omitempty"`
	Image    string `json:"img,omitempty" jsonschema:"avatar URL; a random one is assigned when empty"`
}

type UpdateEmployeeParams struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Position *string `json:"position,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
	Image    *string `json:"img,omitempty"`
}

type DeleteParams struct {
	ID string `json:"id"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type GetRecentActivityParams struct {
	Collection string `json:"collection,omitempty"`
	RecordID   string `json:"record_id,omitempty"`
	Type       string `json:"type,omitempty" jsonschema:"created, updated or deleted"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
}

type EmployeeResponse struct {
	*employee.Employee
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and bare dates. Blank input is no
// date.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidInput("%s: expected RFC 3339 or YYYY-MM-DD, got %q", field, value)
}

func optionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return parseDate(field, *value)
}

func optional[T ~string](value *string) *T {
	if value == nil {
		return nil
	}
	v := T(*value)
	return &v
}
