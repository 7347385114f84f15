package query

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskFilter holds the recognized, parsed filter predicates for a task
// listing. Nil pointers mean the predicate is not applied. OwnerID is
// mandatory: every listing is confined to rows the caller owns.
type TaskFilter struct {
	OwnerID   uuid.UUID
	Completed *bool
	Priority  *domain.Priority
	Search    string
}

// NewTaskFilter builds a TaskFilter from raw query parameters. A missing
// owner id is a hard failure; everything else is lenient: a status value
// that is not a recognized boolean token and a priority outside the
// whitelist are silently ignored, and an empty search string applies no
// search predicate. All present predicates combine with logical AND.
func NewTaskFilter(ownerID uuid.UUID, rawStatus, rawPriority, rawSearch string) (TaskFilter, error) {
	if ownerID == uuid.Nil {
		return TaskFilter{}, domain.ErrUnauthorized
	}

	f := TaskFilter{OwnerID: ownerID}

	if completed, err := strconv.ParseBool(rawStatus); err == nil {
		f.Completed = &completed
	}

	if priority, err := domain.ParsePriority(rawPriority); err == nil {
		f.Priority = &priority
	}

	if search := strings.TrimSpace(rawSearch); search != "" {
		f.Search = search
	}

	return f, nil
}
