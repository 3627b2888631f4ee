package project

import "time"

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string     `json:"name"`
	Client      string     `json:"client"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Members     []string   `json:"members"`
}

// UpdateRequest changes the non-nil fields of a project.
type UpdateRequest struct {
	Name        *string    `json:"name"`
	Client      *string    `json:"client"`
	Description *string    `json:"description"`
	Status      *Status    `json:"status"`
	Progress    *float64   `json:"progress"`
	Deadline    *time.Time `json:"deadline"`
	Members     *[]string  `json:"members"`
}

// form is the full validated shape of a project.
type form struct {
	Name     string  `json:"name" validate:"notblank"`
	Client   string  `json:"client" validate:"notblank"`
	Status   Status  `json:"status" validate:"project_status"`
	Progress float64 `json:"progress" validate:"gte=0,lte=100"`
}
