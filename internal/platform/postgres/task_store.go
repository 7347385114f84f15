package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/store"
)

// taskColumns is the fixed column list scanned for every task row.
const taskColumns = "id, user_id, title, completed, priority, created_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new store bound to the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// buildWhere turns a resolved task filter into a WHERE clause and its
// arguments. The owner scope is always the first predicate; all others
// combine with AND. Only validated descriptor values ever reach this point.
func buildWhere(filter query.TaskFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{filter.OwnerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}

	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLikePattern(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

// List implements store.TaskStore.List
// It returns one pagination window of the owner's tasks matching the filter,
// together with the total count of matching rows.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter query.TaskFilter,
	sort query.Sort,
	page query.Pagination,
) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildWhere(filter)

	// Total reflects the filtered set, not the page size.
	var total int
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.OwnerID.String()))
		return nil, err
	}

	// The ORDER BY expression comes from the sort whitelist, never from
	// raw input.
	listQuery := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		taskColumns, where, sort.OrderBy(), len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.OwnerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed tasks",
		slog.String("user_id", filter.OwnerID.String()),
		slog.Int("count", len(tasks)),
		slog.Int("total", total))
	return &store.TaskPage{Items: tasks, Total: total}, nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if no row matches id+owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskQuery := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"

	task, err := scanTask(s.db.QueryRowContext(ctx, taskQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	return task, nil
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation, and
// fills in the server-assigned id. Returns store.ErrInvalidEntity if the
// owner does not exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	insertQuery := `
		INSERT INTO tasks (user_id, title, completed, priority, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		insertQuery,
		task.UserID,
		task.Title,
		task.Completed,
		string(task.Priority),
		task.CreatedAt,
	).Scan(&task.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// CreateMultiple implements store.TaskStore.CreateMultiple
// It saves an ordered batch of tasks, preparing the insert statement once.
// Atomicity is the caller's responsibility: run this on a transaction-bound
// store (WithTx) so that either the whole batch commits or none of it does.
func (s *PostgresTaskStore) CreateMultiple(ctx context.Context, tasks []*domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			log.Warn("task validation failed during bulk create",
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	insertQuery := `
		INSERT INTO tasks (user_id, title, completed, priority, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	stmt, err := s.db.PrepareContext(ctx, insertQuery)
	if err != nil {
		log.Error("failed to prepare bulk insert", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close statement", slog.String("error", err.Error()))
		}
	}()

	for _, task := range tasks {
		err := stmt.QueryRowContext(
			ctx,
			task.UserID,
			task.Title,
			task.Completed,
			string(task.Priority),
			task.CreatedAt,
		).Scan(&task.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: user with ID %s not found",
					store.ErrInvalidEntity, task.UserID)
			}
			log.Error("failed to insert task in batch",
				slog.String("error", err.Error()),
				slog.String("user_id", task.UserID.String()))
			return err
		}
	}

	log.Info("task batch created successfully",
		slog.Int("count", len(tasks)))
	return nil
}

// Update implements store.TaskStore.Update
// It modifies an existing task's title, completion flag and priority.
// Returns store.ErrTaskNotFound if no row matches id+owner.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	updateQuery := `
		UPDATE tasks
		SET title = $1, completed = $2, priority = $3
		WHERE id = $4 AND user_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		updateQuery,
		task.Title,
		task.Completed,
		string(task.Priority),
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update",
			slog.Int64("task_id", task.ID),
			slog.String("user_id", task.UserID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if no row matches id+owner.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2",
		id,
		ownerID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete",
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.Int64("task_id", id))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var priority string

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Completed,
		&priority,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	return &task, nil
}
