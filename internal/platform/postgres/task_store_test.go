package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/store"
)

// isIntegrationTestEnvironment returns true if the environment is configured
// for running integration tests with a database connection.
func isIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// withTestTx runs fn inside a transaction that is always rolled back, so
// integration tests leave no rows behind.
func withTestTx(t *testing.T, fn func(tx *sql.Tx)) {
	t.Helper()

	db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
	require.NoError(t, err, "Failed to open database connection")
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Error closing database connection: %v", err)
		}
	}()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("Error rolling back transaction: %v", err)
		}
	}()

	fn(tx)
}

// insertTestUser creates a user row inside the test transaction and
// returns its id.
func insertTestUser(t *testing.T, tx *sql.Tx) uuid.UUID {
	t.Helper()

	user, err := domain.NewUser("Test User", fmt.Sprintf("test-%s@example.com", uuid.New()), "password123")
	require.NoError(t, err)
	user.HashedPassword = "not-a-real-hash"
	user.Password = ""

	userStore := NewPostgresUserStore(tx, nil)
	require.NoError(t, userStore.Create(context.Background(), user))
	return user.ID
}

func mustFilter(t *testing.T, ownerID uuid.UUID, status, priority, search string) query.TaskFilter {
	t.Helper()
	filter, err := query.NewTaskFilter(ownerID, status, priority, search)
	require.NoError(t, err)
	return filter
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	if !isIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - DATABASE_URL environment variable required")
	}

	ctx := context.Background()

	t.Run("create assigns an id and round-trips", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			ownerID := insertTestUser(t, tx)
			taskStore := NewPostgresTaskStore(tx, nil)

			task, err := domain.NewTask(ownerID, "Write integration tests", domain.PriorityHigh)
			require.NoError(t, err)
			require.NoError(t, taskStore.Create(ctx, task))
			assert.Positive(t, task.ID)

			got, err := taskStore.GetByID(ctx, ownerID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, task.Title, got.Title)
			assert.Equal(t, domain.PriorityHigh, got.Priority)
			assert.False(t, got.Completed)
		})
	})

	t.Run("create rejects an unknown owner", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			taskStore := NewPostgresTaskStore(tx, nil)

			task, err := domain.NewTask(uuid.New(), "Orphan task", domain.PriorityLow)
			require.NoError(t, err)

			err = taskStore.Create(ctx, task)
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	})

	t.Run("get scoped to the wrong owner behaves like missing", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			ownerID := insertTestUser(t, tx)
			otherID := insertTestUser(t, tx)
			taskStore := NewPostgresTaskStore(tx, nil)

			task, err := domain.NewTask(ownerID, "Private task", domain.PriorityMedium)
			require.NoError(t, err)
			require.NoError(t, taskStore.Create(ctx, task))

			_, err = taskStore.GetByID(ctx, otherID, task.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
		})
	})

	t.Run("list filters, sorts and windows", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			ownerID := insertTestUser(t, tx)
			taskStore := NewPostgresTaskStore(tx, nil)

			titles := []string{"b task", "a task", "c task"}
			for i, title := range titles {
				task, err := domain.NewTask(ownerID, title, domain.PriorityMedium)
				require.NoError(t, err)
				task.Completed = i == 0
				require.NoError(t, taskStore.Create(ctx, task))
			}

			// Title ascending over the full set.
			page, err := taskStore.List(ctx,
				mustFilter(t, ownerID, "", "", ""),
				query.ResolveTaskSort("title", "asc"),
				query.ResolvePagination("1", "10"))
			require.NoError(t, err)
			require.Len(t, page.Items, 3)
			assert.Equal(t, 3, page.Total)
			assert.Equal(t, "a task", page.Items[0].Title)
			assert.Equal(t, "b task", page.Items[1].Title)
			assert.Equal(t, "c task", page.Items[2].Title)

			// Completed filter narrows the set; total tracks the filter.
			page, err = taskStore.List(ctx,
				mustFilter(t, ownerID, "true", "", ""),
				query.ResolveTaskSort("", ""),
				query.ResolvePagination("1", "10"))
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, 1, page.Total)
			assert.Equal(t, "b task", page.Items[0].Title)

			// A one-row window still reports the full matching count.
			page, err = taskStore.List(ctx,
				mustFilter(t, ownerID, "", "", ""),
				query.ResolveTaskSort("title", "asc"),
				query.ResolvePagination("2", "1"))
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, 3, page.Total)
			assert.Equal(t, "b task", page.Items[0].Title)

			// Substring search is case-insensitive.
			page, err = taskStore.List(ctx,
				mustFilter(t, ownerID, "", "", "A TASK"),
				query.ResolveTaskSort("", ""),
				query.ResolvePagination("1", "10"))
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, "a task", page.Items[0].Title)
		})
	})

	t.Run("create multiple assigns ids in order", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			ownerID := insertTestUser(t, tx)
			taskStore := NewPostgresTaskStore(tx, nil)

			batch := make([]*domain.Task, 0, 3)
			for i := 0; i < 3; i++ {
				task, err := domain.NewTask(ownerID, fmt.Sprintf("batch task %d", i), domain.PriorityLow)
				require.NoError(t, err)
				batch = append(batch, task)
			}

			require.NoError(t, taskStore.CreateMultiple(ctx, batch))
			for _, task := range batch {
				assert.Positive(t, task.ID)
			}

			page, err := taskStore.List(ctx,
				mustFilter(t, ownerID, "", "", ""),
				query.ResolveTaskSort("", ""),
				query.ResolvePagination("1", "10"))
			require.NoError(t, err)
			assert.Equal(t, 3, page.Total)
		})
	})

	t.Run("update and delete honor the owner scope", func(t *testing.T) {
		withTestTx(t, func(tx *sql.Tx) {
			ownerID := insertTestUser(t, tx)
			taskStore := NewPostgresTaskStore(tx, nil)

			task, err := domain.NewTask(ownerID, "To be updated", domain.PriorityLow)
			require.NoError(t, err)
			require.NoError(t, taskStore.Create(ctx, task))

			task.Title = "Updated title"
			task.Completed = true
			task.Priority = domain.PriorityHigh
			require.NoError(t, taskStore.Update(ctx, task))

			got, err := taskStore.GetByID(ctx, ownerID, task.ID)
			require.NoError(t, err)
			assert.Equal(t, "Updated title", got.Title)
			assert.True(t, got.Completed)
			assert.Equal(t, domain.PriorityHigh, got.Priority)

			// A foreign owner cannot delete the row.
			otherID := insertTestUser(t, tx)
			assert.ErrorIs(t, taskStore.Delete(ctx, otherID, task.ID), store.ErrTaskNotFound)

			require.NoError(t, taskStore.Delete(ctx, ownerID, task.ID))
			_, err = taskStore.GetByID(ctx, ownerID, task.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
		})
	})
}
