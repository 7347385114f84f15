package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/query"
)

// TaskPage is one window of a filtered task listing. Total is the count of
// all rows matching the filter, independent of the pagination window.
type TaskPage struct {
	Items []*domain.Task
	Total int
}

// TaskStore defines the interface for task data persistence. Every read and
// write is scoped to an owning user; a task id paired with the wrong owner
// behaves exactly like a missing task.
type TaskStore interface {
	// List returns the tasks matching the filter, ordered by the resolved
	// sort and windowed by the resolved pagination, along with the total
	// matching count.
	List(ctx context.Context, filter query.TaskFilter, sort query.Sort, page query.Pagination) (*TaskPage, error)

	// GetByID retrieves a task by id within the owner's scope.
	// Returns ErrTaskNotFound if no row matches id+owner.
	GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Task, error)

	// Create saves a new task and fills in the server-assigned id.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// CreateMultiple saves an ordered batch of tasks, filling in the
	// server-assigned ids. Callers needing atomicity must run it inside a
	// transaction via WithTx; no partial batch may be observed.
	CreateMultiple(ctx context.Context, tasks []*domain.Task) error

	// Update modifies an existing task's title, completion flag and
	// priority. Returns ErrTaskNotFound if no row matches id+owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task within the owner's scope.
	// Returns ErrTaskNotFound if no row matches id+owner.
	Delete(ctx context.Context, ownerID uuid.UUID, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) TaskStore
}
