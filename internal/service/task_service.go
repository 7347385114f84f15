package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MaxBulkTasks bounds the size of a bulk creation batch.
const MaxBulkTasks = 100

// TaskInput carries the writable attributes for creating a task. An empty
// Priority falls back to the domain default.
type TaskInput struct {
	Title     string
	Priority  string
	Completed bool
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Priority  *string
}

// PageInfo describes the window of a listing alongside the total number of
// matching rows.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TaskList is one projected page of a task listing.
type TaskList struct {
	Items      []map[string]any `json:"items"`
	Pagination PageInfo         `json:"pagination"`
}

// TaskService exposes the task operations available to authenticated
// callers. Every operation is scoped to the owning user.
type TaskService interface {
	// List returns one projected page of the owner's tasks.
	List(ctx context.Context, filter query.TaskFilter, sort query.Sort, page query.Pagination, proj query.Projection) (*TaskList, error)

	// Get returns a single projected task within the owner's scope.
	Get(ctx context.Context, ownerID uuid.UUID, id int64, proj query.Projection) (map[string]any, error)

	// Create validates and persists one new task.
	Create(ctx context.Context, ownerID uuid.UUID, in TaskInput) (*domain.Task, error)

	// Update applies a partial update to an existing task.
	Update(ctx context.Context, ownerID uuid.UUID, id int64, patch TaskPatch) (*domain.Task, error)

	// Delete removes a task within the owner's scope.
	Delete(ctx context.Context, ownerID uuid.UUID, id int64) error

	// BulkCreate atomically persists a batch of tasks. The batch is
	// rejected as a whole if any item is invalid or the batch exceeds
	// MaxBulkTasks.
	BulkCreate(ctx context.Context, ownerID uuid.UUID, items []TaskInput) ([]*domain.Task, error)
}

type taskService struct {
	db     *sql.DB
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a TaskService backed by the given store. The db
// handle is used to open transactions for batch writes.
func NewTaskService(db *sql.DB, tasks store.TaskStore, log *slog.Logger) TaskService {
	if db == nil {
		panic("NewTaskService: db cannot be nil")
	}
	if tasks == nil {
		panic("NewTaskService: task store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &taskService{
		db:     db,
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_service")),
	}
}

func (s *taskService) List(ctx context.Context, filter query.TaskFilter, sort query.Sort, page query.Pagination, proj query.Projection) (*TaskList, error) {
	result, err := s.tasks.List(ctx, filter, sort, page)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	items := make([]map[string]any, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, query.ProjectTask(t, proj))
	}

	return &TaskList{
		Items:      items,
		Pagination: PageInfo{Page: page.Page, Limit: page.Limit, Total: result.Total},
	}, nil
}

func (s *taskService) Get(ctx context.Context, ownerID uuid.UUID, id int64, proj query.Projection) (map[string]any, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return query.ProjectTask(task, proj), nil
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, in TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, fieldErrs := buildTask(ownerID, in)
	if len(fieldErrs) > 0 {
		return nil, NewValidationError("invalid task", fieldErrs...)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", ownerID.String()))

	return task, nil
}

func (s *taskService) Update(ctx context.Context, ownerID uuid.UUID, id int64, patch TaskPatch) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %d for update: %w", id, err)
	}

	var fieldErrs []FieldError

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			fieldErrs = append(fieldErrs, FieldError{Field: "title", Message: "cannot be empty"})
		} else if len(*patch.Title) > domain.MaxTitleLength {
			fieldErrs = append(fieldErrs, FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", domain.MaxTitleLength)})
		} else {
			task.Title = *patch.Title
		}
	}

	if patch.Priority != nil {
		priority, perr := domain.ParsePriority(*patch.Priority)
		if perr != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "priority", Message: "must be one of: low, medium, high"})
		} else {
			task.Priority = priority
		}
	}

	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if len(fieldErrs) > 0 {
		return nil, NewValidationError("invalid task update", fieldErrs...)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("updating task %d: %w", id, err)
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

func (s *taskService) BulkCreate(ctx context.Context, ownerID uuid.UUID, items []TaskInput) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		return nil, NewValidationError("tasks must be a non-empty array")
	}
	if len(items) > MaxBulkTasks {
		return nil, NewValidationError(fmt.Sprintf("too many items: batch is limited to %d tasks", MaxBulkTasks))
	}

	// Validate the whole batch before touching the database so a rejection
	// reports every invalid item at once.
	tasks := make([]*domain.Task, 0, len(items))
	var itemErrs []BulkItemError
	for i, in := range items {
		task, fieldErrs := buildTask(ownerID, in)
		if len(fieldErrs) > 0 {
			itemErrs = append(itemErrs, BulkItemError{Index: i, Errors: fieldErrs})
			continue
		}
		tasks = append(tasks, task)
	}
	if len(itemErrs) > 0 {
		return nil, &BulkValidationError{Items: itemErrs}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).CreateMultiple(ctx, tasks)
	})
	if err != nil {
		return nil, fmt.Errorf("bulk creating %d tasks: %w", len(tasks), err)
	}

	log.Info("bulk task creation finished",
		slog.Int("count", len(tasks)),
		slog.String("user_id", ownerID.String()))

	return tasks, nil
}

// buildTask turns one input into a validated task, collecting every field
// violation instead of stopping at the first.
func buildTask(ownerID uuid.UUID, in TaskInput) (*domain.Task, []FieldError) {
	var fieldErrs []FieldError

	if strings.TrimSpace(in.Title) == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "title", Message: "is required"})
	} else if len(in.Title) > domain.MaxTitleLength {
		fieldErrs = append(fieldErrs, FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", domain.MaxTitleLength)})
	}

	priority := domain.DefaultPriority
	if in.Priority != "" {
		parsed, err := domain.ParsePriority(in.Priority)
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "priority", Message: "must be one of: low, medium, high"})
		} else {
			priority = parsed
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	task, err := domain.NewTask(ownerID, in.Title, priority)
	if err != nil {
		return nil, []FieldError{{Field: "task", Message: err.Error()}}
	}
	task.Completed = in.Completed

	return task, nil
}
