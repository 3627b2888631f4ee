package mcp_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/mcp"
	"github.com/rpggio/workboard/internal/testserver"
	"github.com/stretchr/testify/require"
)

func ids(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}

func TestPing(t *testing.T) {
	ts := testserver.New(t)

	var resp mcp.PingResponse
	ts.CallJSON(t, "ping", nil, &resp)
	require.Equal(t, "ok", resp.Status)
	require.False(t, resp.Time.IsZero())
}

func TestListRecords_Category(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.ListRecordsResponse
	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "projects",
		"category":   "Đang thực hiện",
	}, &resp)
	require.Equal(t, "category", resp.Mode)
	require.Equal(t, []string{"seed-p1", "seed-p4"}, ids(resp.Records))

	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "projects",
		"category":   "Tất cả",
	}, &resp)
	require.Equal(t, "all", resp.Mode)
	require.Equal(t, 5, resp.Total)
	require.Equal(t, []string{"seed-p1", "seed-p2", "seed-p3", "seed-p4", "seed-p5"}, ids(resp.Records))
}

func TestListRecords_SearchOverridesCategory(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.ListRecordsResponse
	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "projects",
		"search":     "DASHBOARD",
		"category":   "Đã hủy",
	}, &resp)
	require.Equal(t, "search", resp.Mode)
	require.Equal(t, []string{"seed-p5"}, ids(resp.Records))
}

func TestListRecords_AlsoSearchAndDefaults(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.ListRecordsResponse
	ts.CallJSON(t, "list_records", map[string]any{
		"collection":  "employees",
		"search":      "engineer",
		"also_search": []string{"position"},
	}, &resp)
	require.Equal(t, []string{"seed-e1", "seed-e4"}, ids(resp.Records))

	// Employees filter by role when no category field is given.
	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "employees",
		"category":   "Thực tập",
	}, &resp)
	require.Equal(t, []string{"seed-e4"}, ids(resp.Records))
}

func TestListRecords_SortAndPage(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.ListRecordsResponse
	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "contracts",
		"sort_by":    "createdAt",
		"descending": true,
	}, &resp)
	require.Equal(t, []string{"seed-c3", "seed-c2", "seed-c1"}, ids(resp.Records))

	ts.CallJSON(t, "list_records", map[string]any{
		"collection": "projects",
		"limit":      2,
		"offset":     1,
	}, &resp)
	require.Equal(t, 5, resp.Total)
	require.Equal(t, []string{"seed-p2", "seed-p3"}, ids(resp.Records))
}

func TestListRecords_UnknownCollection(t *testing.T) {
	ts := testserver.New(t)

	msg := ts.CallError(t, "list_records", map[string]any{"collection": "invoices"})
	require.Contains(t, msg, "UNKNOWN_COLLECTION")
}

func TestSummarizeRecords(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.SummarizeRecordsResponse
	ts.CallJSON(t, "summarize_records", map[string]any{"collection": "projects"}, &resp)
	require.Equal(t, "status", resp.Field)
	require.Equal(t, 5, resp.Total)
	require.Equal(t, 2, resp.Counts["Đang thực hiện"])
	require.Equal(t, 1, resp.Counts["Tạm dừng"])

	sum := 0
	for _, n := range resp.Counts {
		sum += n
	}
	require.Equal(t, resp.Total, sum)
}

func TestGroupRecords(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.GroupRecordsResponse
	ts.CallJSON(t, "group_records", map[string]any{"collection": "employees"}, &resp)
	require.Equal(t, "role", resp.Field)
	require.Len(t, resp.Groups, 3)
	require.Equal(t, "Quản lý", resp.Groups[0].Key)
	require.Equal(t, "Nhân viên", resp.Groups[1].Key)
	require.Equal(t, []string{"seed-e2", "seed-e3"}, ids(resp.Groups[1].Records))
	require.Equal(t, "Thực tập", resp.Groups[2].Key)
}

func TestGetRecord(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var rec record.Record
	ts.CallJSON(t, "get_record", map[string]any{"collection": "employees", "id": "seed-e2"}, &rec)
	require.Equal(t, "seed-e2", rec.ID)
	require.Equal(t, "b.tran@company.com", rec.Text("email"))

	msg := ts.CallError(t, "get_record", map[string]any{"collection": "employees", "id": "missing"})
	require.Contains(t, msg, "RECORD_NOT_FOUND")
}

func TestGetRecord_ImmediatelyAfterWrite(t *testing.T) {
	ts := testserver.New(t)

	var created mcp.ProjectResponse
	ts.CallJSON(t, "create_project", map[string]any{"name": "Kho dữ liệu", "client": "Công ty C"}, &created)

	var rec record.Record
	ts.CallJSON(t, "get_record", map[string]any{"collection": "projects", "id": created.ID}, &rec)
	require.Equal(t, "Kho dữ liệu", rec.Text("name"))

	var updated mcp.ProjectResponse
	ts.CallJSON(t, "update_project", map[string]any{"id": created.ID, "progress": 20}, &updated)
	ts.CallJSON(t, "get_record", map[string]any{"collection": "projects", "id": created.ID}, &rec)
	progress, ok := rec.Number("progress")
	require.True(t, ok)
	require.InDelta(t, 20, progress, 0.001)

	var deleted mcp.DeleteResponse
	ts.CallJSON(t, "delete_project", map[string]any{"id": created.ID}, &deleted)
	msg := ts.CallError(t, "get_record", map[string]any{"collection": "projects", "id": created.ID})
	require.Contains(t, msg, "RECORD_NOT_FOUND")
}

func TestResolveMembers_Placeholder(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	for _, remote := range []bool{false, true} {
		var resp mcp.ResolveMembersResponse
		ts.CallJSON(t, "resolve_members", map[string]any{"project_id": "seed-p5", "remote": remote}, &resp)
		require.Len(t, resp.Members, 2)
		require.Equal(t, 1, resp.Placeholders)

		ghost := resp.Members[0]
		require.True(t, ghost.Placeholder)
		require.Equal(t, "placeholder-e.tu@company.com", ghost.ID)
		require.Equal(t, "e.tu", ghost.Name)
		require.Equal(t, "unknown", ghost.Role)

		require.Equal(t, "seed-e3", resp.Members[1].ID)
		require.False(t, resp.Members[1].Placeholder)
	}
}

func TestResolveMembers_EmailsAreCaseSensitive(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.ResolveMembersResponse
	ts.CallJSON(t, "resolve_members", map[string]any{
		"emails": []string{"A.NGUYEN@company.com", "a.nguyen@company.com"},
	}, &resp)
	require.Len(t, resp.Members, 2)
	require.True(t, resp.Members[0].Placeholder)
	require.Equal(t, "seed-e1", resp.Members[1].ID)
}

func TestResolveMembers_UnknownProject(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	msg := ts.CallError(t, "resolve_members", map[string]any{"project_id": "nope"})
	require.Contains(t, msg, "PROJECT_NOT_FOUND")

	msg = ts.CallError(t, "resolve_members", map[string]any{"emails": []string{"x@y.z"}, "remote": true})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestGetDashboard(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	for _, source := range []string{"store", "database"} {
		var resp mcp.DashboardResponse
		ts.CallJSON(t, "get_dashboard", map[string]any{"source": source}, &resp)
		require.Equal(t, source, resp.Source)
		require.Equal(t, 5, resp.Projects)
		require.Equal(t, 3, resp.Contracts)
		require.Equal(t, 4, resp.Employees)
		require.Equal(t, 2, resp.InProgressProjects)
		require.InDelta(t, 570_000_000, resp.ContractValue["VNĐ"], 0.001)
		require.InDelta(t, 25_000, resp.ContractValue["USD"], 0.001)
	}

	msg := ts.CallError(t, "get_dashboard", map[string]any{"source": "cache"})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestProjectLifecycle(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var created mcp.ProjectResponse
	ts.CallJSON(t, "create_project", map[string]any{
		"name":     "Cổng thông tin sinh viên",
		"client":   "Phòng Đào tạo",
		"deadline": "2030-06-30",
		"members":  []string{"a.nguyen@company.com", "  "},
	}, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Chờ xử lý", string(created.Status))
	require.Zero(t, created.Progress)
	require.Equal(t, []string{"a.nguyen@company.com"}, created.Members)
	require.False(t, created.Overdue)
	ts.WaitForCount(t, "projects", 6)

	var updated mcp.ProjectResponse
	ts.CallJSON(t, "update_project", map[string]any{
		"id":       created.ID,
		"status":   "Đang thực hiện",
		"progress": 30,
	}, &updated)
	require.Equal(t, "Đang thực hiện", string(updated.Status))
	require.InDelta(t, 30, updated.Progress, 0.001)
	require.Equal(t, "Cổng thông tin sinh viên", updated.Name)

	require.Eventually(t, func() bool {
		var resp mcp.ListRecordsResponse
		ts.CallJSON(t, "list_records", map[string]any{"collection": "projects", "category": "Đang thực hiện"}, &resp)
		return resp.Total == 3
	}, testTimeout, testTick)

	var deleted mcp.DeleteResponse
	ts.CallJSON(t, "delete_project", map[string]any{"id": created.ID}, &deleted)
	require.True(t, deleted.Deleted)
	ts.WaitForCount(t, "projects", 5)

	msg := ts.CallError(t, "delete_project", map[string]any{"id": created.ID})
	require.Contains(t, msg, "PROJECT_NOT_FOUND")
}

func TestProjectValidation(t *testing.T) {
	ts := testserver.New(t)

	msg := ts.CallError(t, "create_project", map[string]any{"name": "  ", "client": "X"})
	require.Contains(t, msg, "INVALID_INPUT")
	require.Contains(t, msg, "name")

	msg = ts.CallError(t, "create_project", map[string]any{"name": "A", "client": "B", "deadline": "next week"})
	require.Contains(t, msg, "deadline")

	msg = ts.CallError(t, "update_project", map[string]any{"id": "missing", "progress": 10})
	require.Contains(t, msg, "PROJECT_NOT_FOUND")
}

func TestContractLifecycle(t *testing.T) {
	ts := testserver.New(t)

	var created mcp.ContractResponse
	ts.CallJSON(t, "create_contract", map[string]any{
		"contract_name": "Bảo trì máy chủ",
		"company_name":  "Công ty ABC",
		"value":         2_500_000_000,
		"term_months":   12,
		"expiry_date":   "2001-01-01",
	}, &created)
	require.Equal(t, "VNĐ", string(created.Currency))
	require.Equal(t, "Chờ duyệt", string(created.Status))
	require.Equal(t, "2.5 tỷ VNĐ", created.FormattedValue)
	require.True(t, created.Expired)
	ts.WaitForCount(t, "contracts", 1)

	var updated mcp.ContractResponse
	ts.CallJSON(t, "update_contract", map[string]any{"id": created.ID, "status": "Đã ký"}, &updated)
	require.Equal(t, "Đã ký", string(updated.Status))

	msg := ts.CallError(t, "update_contract", map[string]any{"id": created.ID, "value": 0})
	require.Contains(t, msg, "INVALID_INPUT")

	var deleted mcp.DeleteResponse
	ts.CallJSON(t, "delete_contract", map[string]any{"id": created.ID}, &deleted)
	ts.WaitForCount(t, "contracts", 0)
}

func TestEmployeeLifecycle(t *testing.T) {
	ts := testserver.New(t, testserver.WithSQLiteDocuments())

	var created mcp.EmployeeResponse
	ts.CallJSON(t, "create_employee", map[string]any{
		"name":  "Võ Thị Hoa",
		"email": "h.vo@company.com",
	}, &created)
	require.Equal(t, "Nhân viên", string(created.Role))
	require.Equal(t, "Hoạt động", string(created.Status))
	require.True(t, strings.HasPrefix(created.Image, "https://i.pravatar.cc/150?img="))
	ts.WaitForCount(t, "employees", 1)

	var resp mcp.ResolveMembersResponse
	ts.CallJSON(t, "resolve_members", map[string]any{"emails": []string{"h.vo@company.com"}}, &resp)
	require.Equal(t, created.ID, resp.Members[0].ID)

	msg := ts.CallError(t, "create_employee", map[string]any{"name": "X", "email": "not-an-email"})
	require.Contains(t, msg, "INVALID_INPUT")

	var updated mcp.EmployeeResponse
	ts.CallJSON(t, "update_employee", map[string]any{"id": created.ID, "role": "Quản lý"}, &updated)
	require.Equal(t, "Quản lý", string(updated.Role))

	var deleted mcp.DeleteResponse
	ts.CallJSON(t, "delete_employee", map[string]any{"id": created.ID}, &deleted)
	ts.WaitForCount(t, "employees", 0)
}

func TestGetRecentActivity(t *testing.T) {
	ts := testserver.New(t)

	var created mcp.EmployeeResponse
	ts.CallJSON(t, "create_employee", map[string]any{"name": "An", "email": "an@company.com"}, &created)
	ts.CallJSON(t, "delete_employee", map[string]any{"id": created.ID}, &mcp.DeleteResponse{})

	var resp mcp.ActivityResponse
	ts.CallJSON(t, "get_recent_activity", map[string]any{"collection": "employees"}, &resp)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, activity.TypeDeleted, resp.Entries[0].Type)
	require.Equal(t, activity.TypeCreated, resp.Entries[1].Type)

	ts.CallJSON(t, "get_recent_activity", map[string]any{"record_id": created.ID, "type": "created"}, &resp)
	require.Len(t, resp.Entries, 1)
}

func TestRefreshCollection(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed())

	var resp mcp.RefreshCollectionResponse
	ts.CallJSON(t, "refresh_collection", nil, &resp)
	require.Equal(t, map[string]int{"projects": 5, "contracts": 3, "employees": 4}, resp.Counts)

	resp = mcp.RefreshCollectionResponse{}
	ts.CallJSON(t, "refresh_collection", map[string]any{"collection": "contracts"}, &resp)
	require.Equal(t, map[string]int{"contracts": 3}, resp.Counts)
}

func TestAllLabelOverride(t *testing.T) {
	ts := testserver.New(t, testserver.WithSeed(), testserver.WithAllLabel("Everything"))

	var resp mcp.ListRecordsResponse
	ts.CallJSON(t, "list_records", map[string]any{"collection": "contracts", "category": "Everything"}, &resp)
	require.Equal(t, "all", resp.Mode)
	require.Equal(t, 3, resp.Total)

	ts.CallJSON(t, "list_records", map[string]any{"collection": "contracts", "category": "Tất cả"}, &resp)
	require.Equal(t, "category", resp.Mode)
	require.Zero(t, resp.Total)
}

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
)
