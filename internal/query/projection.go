package query

import (
	"strings"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// Entity field whitelists, in canonical response order. The password hash
// is not part of any whitelist and therefore can never be projected.
var (
	// TaskFields is the full set of exposable task attributes.
	TaskFields = []string{"id", "title", "completed", "priority", "userId", "createdAt"}

	// UserFields is the full set of exposable user attributes.
	UserFields = []string{"id", "name", "email", "createdAt"}
)

// Projection is a validated, ordered subset of an entity's exposable
// attributes.
type Projection struct {
	fields []string
}

// ResolveProjection intersects a comma-separated field list with the given
// whitelist. An absent or blank request returns the full whitelist.
// Unrecognized or forbidden field names are silently dropped; an unknown
// field is never an error. If the intersection is empty the full whitelist
// is returned, so a projection always selects at least one field.
func ResolveProjection(raw string, whitelist []string) Projection {
	if strings.TrimSpace(raw) == "" {
		return Projection{fields: whitelist}
	}

	requested := make(map[string]bool)
	for _, f := range strings.Split(raw, ",") {
		requested[strings.TrimSpace(f)] = true
	}

	// Preserve whitelist order regardless of request order.
	var fields []string
	for _, f := range whitelist {
		if requested[f] {
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 {
		return Projection{fields: whitelist}
	}

	return Projection{fields: fields}
}

// Fields returns the projected attribute names in canonical order.
func (p Projection) Fields() []string {
	return p.fields
}

// Has reports whether the projection includes the given field.
func (p Projection) Has(field string) bool {
	for _, f := range p.fields {
		if f == field {
			return true
		}
	}
	return false
}

// ProjectTask shapes a task into the projected attribute set.
func ProjectTask(t *domain.Task, p Projection) map[string]any {
	out := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		switch f {
		case "id":
			out[f] = t.ID
		case "title":
			out[f] = t.Title
		case "completed":
			out[f] = t.Completed
		case "priority":
			out[f] = t.Priority
		case "userId":
			out[f] = t.UserID
		case "createdAt":
			out[f] = t.CreatedAt
		}
	}
	return out
}

// ProjectUser shapes a user into the projected attribute set. The password
// hash is unreachable here by construction.
func ProjectUser(u *domain.User, p Projection) map[string]any {
	out := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		switch f {
		case "id":
			out[f] = u.ID
		case "name":
			out[f] = u.Name
		case "email":
			out[f] = u.Email
		case "createdAt":
			out[f] = u.CreatedAt
		}
	}
	return out
}
