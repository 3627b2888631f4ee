package employee

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Collection is the document collection holding employees.
const Collection = "employees"

// Document field names. FieldEmail is the join key for project members.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPosition  = "position"
	FieldRole      = "role"
	FieldStatus    = "status"
	FieldImage     = "img"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Role is an employee's seniority.
type Role string

const (
	RoleManager Role = "Quản lý"
	RoleStaff   Role = "Nhân viên"
	RoleIntern  Role = "Thực tập"
)

// Roles lists every role in display order.
var Roles = []Role{RoleManager, RoleStaff, RoleIntern}

// Status is an employee's employment state.
type Status string

const (
	StatusActive  Status = "Hoạt động"
	StatusOnLeave Status = "Nghỉ phép"
	StatusLeft    Status = "Nghỉ việc"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusActive, StatusOnLeave, StatusLeft}

// Positions are the job titles offered by the entry form.
var Positions = []string{
	"Software Engineer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"DevOps Engineer",
	"Security Engineer",
	"Data Scientist",
	"Product Manager",
	"UI/UX Designer",
	"QA Engineer",
	"System Administrator",
	"Network Engineer",
}

// Employee is a staff member.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position,omitempty"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	Image     string    `json:"img"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRecord reads an employee document.
func FromRecord(rec record.Record) *Employee {
	e := &Employee{
		ID:       rec.ID,
		Name:     rec.Text(FieldName),
		Email:    rec.Text(FieldEmail),
		Position: rec.Text(FieldPosition),
		Role:     Role(rec.Text(FieldRole)),
		Status:   Status(rec.Text(FieldStatus)),
		Image:    rec.Text(FieldImage),
	}
	e.CreatedAt, _ = rec.Time(FieldCreatedAt)
	e.UpdatedAt, _ = rec.Time(FieldUpdatedAt)
	return e
}

// Fields renders the employee as document fields.
func (e *Employee) Fields() map[string]any {
	return map[string]any{
		FieldName:      e.Name,
		FieldEmail:     e.Email,
		FieldPosition:  e.Position,
		FieldRole:      string(e.Role),
		FieldStatus:    string(e.Status),
		FieldImage:     e.Image,
		FieldCreatedAt: e.CreatedAt,
		FieldUpdatedAt: e.UpdatedAt,
	}
}

// RandomAvatar picks one of the 70 stock avatars.
func RandomAvatar() string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rand.IntN(70)+1)
}
