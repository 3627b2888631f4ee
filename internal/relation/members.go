// Package relation hydrates project member emails into employee records.
package relation

import (
	"strings"

	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/metrics"
)

const (
	// Unknown fills the descriptive fields of a placeholder member.
	Unknown = "unknown"
	// DefaultAvatar is the image shown for placeholder members.
	DefaultAvatar = "https://i.pravatar.cc/150?img=1"

	placeholderPrefix = "placeholder-"
)

// Member is one resolved entry of a project's member list.
type Member struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	Position    string         `json:"position"`
	Status      string         `json:"status"`
	Avatar      string         `json:"avatar"`
	Placeholder bool           `json:"placeholder"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// Lookup finds the first employee whose field renders exactly as value.
type Lookup interface {
	FindFirst(field, value string) (record.Record, bool)
}

// ResolveMembers returns one member per email, in input order. Emails are
// matched case-sensitively; unmatched emails yield a placeholder.
func ResolveMembers(emails []string, lookup Lookup) []Member {
	out := make([]Member, len(emails))
	for i, email := range emails {
		if rec, ok := lookup.FindFirst("email", email); ok {
			out[i] = FromRecord(rec)
			continue
		}
		out[i] = Placeholder(email)
	}
	return out
}

// FromRecord builds a member from an employee record.
func FromRecord(rec record.Record) Member {
	return Member{
		ID:       rec.ID,
		Name:     rec.Text("name"),
		Email:    rec.Text("email"),
		Role:     rec.Text("role"),
		Position: rec.Text("position"),
		Status:   rec.Text("status"),
		Avatar:   rec.Text("img"),
		Fields:   rec.Clone().Fields,
	}
}

// Placeholder synthesizes the stand-in for an email with no employee. The
// name is the part before "@", or the whole string when there is none.
func Placeholder(email string) Member {
	metrics.PlaceholderMembers.Inc()
	name, _, _ := strings.Cut(email, "@")
	return Member{
		ID:          placeholderPrefix + email,
		Name:        name,
		Email:       email,
		Role:        Unknown,
		Position:    Unknown,
		Status:      Unknown,
		Avatar:      DefaultAvatar,
		Placeholder: true,
	}
}

// Liveness reports whether the owner of a pending result still exists.
type Liveness interface {
	Alive() bool
}

// ApplyIfAlive hands members to fn only while target is alive, and reports
// whether it did.
func ApplyIfAlive(target Liveness, members []Member, fn func([]Member)) bool {
	if target == nil || !target.Alive() {
		return false
	}
	fn(members)
	return true
}
