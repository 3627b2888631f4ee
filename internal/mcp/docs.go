package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `workboard keeps three collections in live in-memory stores: projects, contracts and employees.

Core concepts:
- Record: one document of a collection; identity is its id, every other field may change.
- Store: the session's shared snapshot of a collection. Reads never hit the database; writes go through the database and come back as a fresh snapshot.
- Query: free-text search over one field OR a category filter. Search wins when both are given; the category "Tất cả" (or empty) means everything.
- Members: a project's members are employee emails. resolve_members joins them to employee records; unknown emails come back as placeholders with role "unknown".

Typical workflow:
1) get_dashboard for counts per status and role.
2) list_records / summarize_records / group_records to browse a collection.
3) get_record for one record, resolve_members for a project's team.
4) create_*/update_*/delete_* to write; get_recent_activity to review changes.
5) refresh_collection when another writer may have changed the database.

Docs:
- workboard://docs/index
- workboard://docs/collections
- workboard://docs/querying
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "workboard://docs/index",
		Name:        "docs_index",
		Title:       "workboard docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# workboard docs

## Quick start

1. ` + "`get_dashboard`" + ` to see totals, status counts and contract value per currency.
2. ` + "`list_records`" + ` with ` + "`collection`" + ` set to ` + "`projects`" + `, ` + "`contracts`" + ` or ` + "`employees`" + `.
3. ` + "`resolve_members`" + ` with a ` + "`project_id`" + ` to load the team.

## Docs

- ` + "`workboard://docs/collections`" + ` field reference and allowed values.
- ` + "`workboard://docs/querying`" + ` search, category filters, grouping and sorting.

## Limitations

- Search matches a case-folded substring; accents are significant ("Lê" does not match "le").
- Member emails are joined exactly; "A@x.com" and "a@x.com" are different people.
`,
	},
	{
		URI:         "workboard://docs/collections",
		Name:        "docs_collections",
		Title:       "Collection reference",
		Description: "Fields, statuses, roles and currencies of each collection.",
		Content: `# Collections

## projects

Fields: name, client, description, status, progress (0-100), deadline, members (employee emails), createdAt, updatedAt.
Statuses: Chờ xử lý, Đang thực hiện, Đã hoàn thành, Đã hủy. Older records may carry Tạm dừng.
New projects start as Chờ xử lý with progress 0.

## contracts

Fields: contractName, companyName, description, value, currency, term (months), status, signedDate, expiryDate, createdAt, updatedAt.
Statuses: Chờ duyệt (default), Đã ký, Đang thực hiện, Hoàn thành, Hết hạn.
Currencies: VNĐ (default), USD, EUR.

## employees

Fields: name, email, position, role, status, img.
Roles: Quản lý, Nhân viên (default), Thực tập.
Statuses: Hoạt động (default), Nghỉ phép, Nghỉ việc.
`,
	},
	{
		URI:         "workboard://docs/querying",
		Name:        "docs_querying",
		Title:       "Querying guide",
		Description: "How list_records, summarize_records and group_records select records.",
		Content: `# Querying

## Modes

- search: ` + "`search`" + ` is non-blank. Records whose ` + "`search_field`" + ` (or any ` + "`also_search`" + ` field) contains the text, ignoring case.
- all: no search and ` + "`category`" + ` is empty or Tất cả.
- category: exact match of ` + "`category_field`" + ` against ` + "`category`" + `.

Search overrides category. Order is always the store order unless ` + "`sort_by`" + ` names a timestamp field.

## Defaults per collection

| collection | search_field | category_field |
|---|---|---|
| projects | name | status |
| contracts | contractName | status |
| employees | name | role |

## Summaries

` + "`summarize_records`" + ` counts records per value of a field; the counts always add up to the total.
` + "`group_records`" + ` returns groups in first-appearance order; records without the field go to ` + "`fallback`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
