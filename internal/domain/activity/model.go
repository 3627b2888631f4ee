package activity

import "time"

// Type represents the kind of change recorded
type Type string

const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
	TypeDeleted Type = "deleted"
)

// Entry represents one change in the activity log
type Entry struct {
	ID         int64     `json:"id"`
	Collection string    `json:"collection"`
	RecordID   string    `json:"record_id"`
	Type       Type      `json:"type"`
	Summary    string    `json:"summary"`
	Details    string    `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time `json:"created_at"`
}
