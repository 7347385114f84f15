package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend. All of its queries
// are read-only aggregates.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the StatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// TaskStatusCounts implements store.StatsStore.TaskStatusCounts
// A single grouped query yields both the completion split and the
// per-priority split.
func (s *PostgresStatsStore) TaskStatusCounts(ctx context.Context, ownerID uuid.UUID) (*store.TaskStatusCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	statsQuery := `
		SELECT completed, priority, COUNT(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY completed, priority
	`

	rows, err := s.db.QueryContext(ctx, statsQuery, ownerID)
	if err != nil {
		log.Error("failed to query task status counts",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	counts := &store.TaskStatusCounts{
		ByPriority: map[domain.Priority]int{
			domain.PriorityLow:    0,
			domain.PriorityMedium: 0,
			domain.PriorityHigh:   0,
		},
	}

	for rows.Next() {
		var completed bool
		var priority string
		var n int

		if err := rows.Scan(&completed, &priority, &n); err != nil {
			log.Error("failed to scan stats row", slog.String("error", err.Error()))
			return nil, err
		}

		counts.Total += n
		if completed {
			counts.Completed += n
		} else {
			counts.Pending += n
		}
		counts.ByPriority[domain.Priority(priority)] += n
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return counts, nil
}

// RecentTasks implements store.StatsStore.RecentTasks
func (s *PostgresStatsStore) RecentTasks(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recentQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, recentQuery, ownerID, limit)
	if err != nil {
		log.Error("failed to query recent tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
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

	return tasks, nil
}

// CompletionTrend implements store.StatsStore.CompletionTrend
// Tasks are bucketed by the UTC day they were created; days with no
// completed tasks are filled in with zero counts so the trend always has
// exactly one bucket per day in the window, oldest first.
func (s *PostgresStatsStore) CompletionTrend(ctx context.Context, ownerID uuid.UUID, days int) ([]store.DailyCompletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		days = 1
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -(days - 1))

	// AT TIME ZONE 'UTC' pins the truncation to UTC days regardless of the
	// session timezone, matching the bucket keys built below.
	trendQuery := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*)
		FROM tasks
		WHERE user_id = $1 AND completed AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, trendQuery, ownerID, windowStart)
	if err != nil {
		log.Error("failed to query completion trend",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	byDay := make(map[time.Time]int, days)
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			log.Error("failed to scan trend row", slog.String("error", err.Error()))
			return nil, err
		}
		byDay[day.UTC().Truncate(24*time.Hour)] = n
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	trend := make([]store.DailyCompletion, 0, days)
	for d := 0; d < days; d++ {
		day := windowStart.AddDate(0, 0, d)
		trend = append(trend, store.DailyCompletion{Day: day, Completed: byDay[day]})
	}

	return trend, nil
}

// UsersWithTaskCounts implements store.StatsStore.UsersWithTaskCounts
// Users are returned newest first with their task counts; the password
// hash column is never selected here.
func (s *PostgresStatsStore) UsersWithTaskCounts(ctx context.Context, page query.Pagination) (*store.UserTaskCountPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, err
	}

	listQuery := `
		SELECT u.id, u.name, u.email, u.created_at, COUNT(t.id)
		FROM users u
		LEFT JOIN tasks t ON t.user_id = u.id
		GROUP BY u.id, u.name, u.email, u.created_at
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, listQuery, page.Limit, page.Offset())
	if err != nil {
		log.Error("failed to query users with task counts",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []store.UserTaskCount{}
	for rows.Next() {
		var user domain.User
		var count int

		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &count)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}

		items = append(items, store.UserTaskCount{User: &user, TaskCount: count})
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return &store.UserTaskCountPage{Items: items, Total: total}, nil
}

// SearchTasks implements store.StatsStore.SearchTasks
// The search text is escaped so LIKE metacharacters match literally.
func (s *PostgresStatsStore) SearchTasks(ctx context.Context, ownerID uuid.UUID, text string, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	searchQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND title ILIKE $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	pattern := "%" + escapeLikePattern(text) + "%"

	rows, err := s.db.QueryContext(ctx, searchQuery, ownerID, pattern, limit)
	if err != nil {
		log.Error("failed to search tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
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

	return tasks, nil
}
