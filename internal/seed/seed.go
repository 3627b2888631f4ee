// Package seed provides the sample data loaded by the seed command.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
)

// Seeder writes documents with fixed ids.
type Seeder interface {
	Seed(ctx context.Context, collection string, records ...record.Record) error
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Projects returns the sample projects. Progress is stored as text, the way
// older clients wrote it; e.tu@company.com has no employee on purpose.
func Projects(now time.Time) []record.Record {
	rows := []struct {
		id, name, status, client, progress, description string
		deadline                                        *time.Time
		members                                         []string
	}{
		{"seed-p1", "Website Tuyển sinh 2025", "Đang thực hiện", "Trường Đại học GTVT TP.HCM", "65",
			"Xây dựng website giới thiệu thông tin tuyển sinh năm 2025", date(2025, 9, 1),
			[]string{"a.nguyen@company.com", "b.tran@company.com"}},
		{"seed-p2", "Hệ thống quản lý học phí", "Chờ xử lý", "Phòng Tài chính", "0",
			"Tự động hóa quy trình thu học phí sinh viên", date(2025, 12, 31),
			[]string{"c.le@company.com"}},
		{"seed-p3", "App điểm danh bằng khuôn mặt", "Đã hoàn thành", "Trung tâm CNTT", "100",
			"Ứng dụng AI nhận diện khuôn mặt cho điểm danh sinh viên", date(2025, 5, 1),
			[]string{"b.tran@company.com", "d.pham@company.com"}},
		{"seed-p4", "Landing Page Lễ tốt nghiệp 2025", "Đang thực hiện", "Phòng CTCTSV", "40",
			"Thiết kế giao diện landing page sự kiện lễ tốt nghiệp", date(2025, 8, 15),
			[]string{"a.nguyen@company.com"}},
		{"seed-p5", "Dashboard nội bộ Ban giám hiệu", "Tạm dừng", "Ban Giám Hiệu", "25",
			"Dashboard thống kê KPI toàn trường", date(2025, 10, 30),
			[]string{"e.tu@company.com", "c.le@company.com"}},
	}

	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.New(record.KindProject, r.id, map[string]any{
			project.FieldName:        r.name,
			project.FieldStatus:      r.status,
			project.FieldClient:      r.client,
			project.FieldProgress:    r.progress,
			project.FieldDescription: r.description,
			project.FieldDeadline:    *r.deadline,
			project.FieldMembers:     r.members,
			project.FieldCreatedAt:   now,
			project.FieldUpdatedAt:   now,
		}))
	}
	return out
}

// Employees returns the sample employees.
func Employees(now time.Time) []record.Record {
	rows := []struct {
		id, name, email, position string
		role                      employee.Role
		status                    employee.Status
		avatar                    int
	}{
		{"seed-e1", "Nguyễn Văn An", "a.nguyen@company.com", "Software Engineer", employee.RoleManager, employee.StatusActive, 11},
		{"seed-e2", "Trần Thị Bình", "b.tran@company.com", "UI/UX Designer", employee.RoleStaff, employee.StatusActive, 32},
		{"seed-e3", "Lê Minh Cường", "c.le@company.com", "Backend Developer", employee.RoleStaff, employee.StatusOnLeave, 15},
		{"seed-e4", "Phạm Thu Dung", "d.pham@company.com", "QA Engineer", employee.RoleIntern, employee.StatusActive, 47},
	}

	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.New(record.KindEmployee, r.id, map[string]any{
			employee.FieldName:      r.name,
			employee.FieldEmail:     r.email,
			employee.FieldPosition:  r.position,
			employee.FieldRole:      string(r.role),
			employee.FieldStatus:    string(r.status),
			employee.FieldImage:     fmt.Sprintf("https://i.pravatar.cc/150?img=%d", r.avatar),
			employee.FieldCreatedAt: now,
			employee.FieldUpdatedAt: now,
		}))
	}
	return out
}

// Contracts returns the sample contracts.
func Contracts(now time.Time) []record.Record {
	rows := []struct {
		id, name, company string
		value             float64
		currency          contract.Currency
		term              int
		status            contract.Status
		signed, expiry    *time.Time
	}{
		{"seed-c1", "Phát triển website tuyển sinh", "Trường Đại học GTVT TP.HCM", 450_000_000, contract.CurrencyVND, 8,
			contract.StatusInProgress, date(2025, 1, 10), date(2025, 9, 10)},
		{"seed-c2", "Bảo trì hệ thống học phí", "Phòng Tài chính", 120_000_000, contract.CurrencyVND, 12,
			contract.StatusPendingApproval, nil, nil},
		{"seed-c3", "Triển khai điểm danh AI", "Trung tâm CNTT", 25_000, contract.CurrencyUSD, 6,
			contract.StatusCompleted, date(2024, 10, 1), date(2025, 4, 1)},
	}

	out := make([]record.Record, 0, len(rows))
	for i, r := range rows {
		c := &contract.Contract{
			ContractName: r.name,
			CompanyName:  r.company,
			Value:        r.value,
			Currency:     r.currency,
			TermMonths:   r.term,
			Status:       r.status,
			SignedDate:   r.signed,
			ExpiryDate:   r.expiry,
			// Spread creation times so the newest-first order is stable.
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
			UpdatedAt: now,
		}
		out = append(out, record.New(record.KindContract, r.id, c.Fields()))
	}
	return out
}

// Apply writes every sample collection through seeder.
func Apply(ctx context.Context, seeder Seeder, now time.Time) error {
	for collection, records := range map[string][]record.Record{
		project.Collection:  Projects(now),
		employee.Collection: Employees(now),
		contract.Collection: Contracts(now),
	} {
		if err := seeder.Seed(ctx, collection, records...); err != nil {
			return fmt.Errorf("seeding %s: %w", collection, err)
		}
	}
	return nil
}
