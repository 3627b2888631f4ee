package project

import (
	"strings"
	"time"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Collection is the document collection holding projects.
const Collection = "projects"

// Document field names.
const (
	FieldName        = "name"
	FieldClient      = "client"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldProgress    = "progress"
	FieldDeadline    = "deadline"
	FieldMembers     = "members"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPending    Status = "Chờ xử lý"
	StatusInProgress Status = "Đang thực hiện"
	StatusCompleted  Status = "Đã hoàn thành"
	StatusCancelled  Status = "Đã hủy"
	// StatusPaused only appears on projects written by older clients.
	StatusPaused Status = "Tạm dừng"
)

// Statuses lists the selectable statuses in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Project is a client engagement staffed by employees.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Client      string     `json:"client"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	// Members holds employee emails.
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRecord reads a project document. Missing or malformed fields are left
// at their zero value.
func FromRecord(rec record.Record) *Project {
	p := &Project{
		ID:          rec.ID,
		Name:        rec.Text(FieldName),
		Client:      rec.Text(FieldClient),
		Description: rec.Text(FieldDescription),
		Status:      Status(rec.Text(FieldStatus)),
		Members:     rec.Strings(FieldMembers),
	}
	if progress, ok := rec.Number(FieldProgress); ok {
		p.Progress = progress
	}
	if deadline, ok := rec.Time(FieldDeadline); ok {
		p.Deadline = &deadline
	}
	p.CreatedAt, _ = rec.Time(FieldCreatedAt)
	p.UpdatedAt, _ = rec.Time(FieldUpdatedAt)
	if p.Members == nil {
		p.Members = []string{}
	}
	return p
}

// Fields renders the project as document fields.
func (p *Project) Fields() map[string]any {
	fields := map[string]any{
		FieldName:        p.Name,
		FieldClient:      p.Client,
		FieldDescription: p.Description,
		FieldStatus:      string(p.Status),
		FieldProgress:    p.Progress,
		FieldMembers:     append([]string{}, p.Members...),
		FieldCreatedAt:   p.CreatedAt,
		FieldUpdatedAt:   p.UpdatedAt,
	}
	if p.Deadline != nil {
		fields[FieldDeadline] = *p.Deadline
	}
	return fields
}

// Overdue reports whether the deadline has passed on an unfinished project.
func (p *Project) Overdue(now time.Time) bool {
	if p.Deadline == nil {
		return false
	}
	if p.Status == StatusCompleted || p.Status == StatusCancelled {
		return false
	}
	return p.Deadline.Before(now)
}

func cleanMembers(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
