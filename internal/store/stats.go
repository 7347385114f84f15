package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/query"
)

// TaskStatusCounts groups one user's task counts by completion and priority.
type TaskStatusCounts struct {
	Total      int                     `json:"total"`
	Completed  int                     `json:"completed"`
	Pending    int                     `json:"pending"`
	ByPriority map[domain.Priority]int `json:"by_priority"`
}

// DailyCompletion is one bucket of the completion trend: how many completed
// tasks fall on the given UTC day.
type DailyCompletion struct {
	Day       time.Time `json:"day"`
	Completed int       `json:"completed"`
}

// UserTaskCount annotates a user with the number of tasks they own.
// The user carries no credential data.
type UserTaskCount struct {
	User      *domain.User `json:"user"`
	TaskCount int          `json:"task_count"`
}

// UserTaskCountPage is one window of the cross-user stats listing.
type UserTaskCountPage struct {
	Items []UserTaskCount
	Total int
}

// StatsStore defines read-only aggregate queries over users and tasks.
type StatsStore interface {
	// TaskStatusCounts computes per-status and per-priority task counts
	// for one user.
	TaskStatusCounts(ctx context.Context, ownerID uuid.UUID) (*TaskStatusCounts, error)

	// RecentTasks returns the owner's most recently created tasks,
	// newest first, bounded by limit.
	RecentTasks(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.Task, error)

	// CompletionTrend returns one bucket per UTC day over the trailing
	// window of the given number of days, oldest first. Days with no
	// completed tasks appear with a zero count.
	CompletionTrend(ctx context.Context, ownerID uuid.UUID, days int) ([]DailyCompletion, error)

	// UsersWithTaskCounts lists users annotated with their task counts,
	// windowed by the standard pagination contract.
	UsersWithTaskCounts(ctx context.Context, page query.Pagination) (*UserTaskCountPage, error)

	// SearchTasks performs a case-insensitive substring match over the
	// owner's task titles, newest first, bounded by limit. Minimum query
	// length is enforced by the service layer, not here.
	SearchTasks(ctx context.Context, ownerID uuid.UUID, text string, limit int) ([]*domain.Task, error)
}
