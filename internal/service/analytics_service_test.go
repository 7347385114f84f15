package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/store"
)

func TestAnalyticsService_UserAnalytics(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{ID: userID, Name: "Ada", Email: "ada@example.com"}

	t.Run("assembles the dashboard", func(t *testing.T) {
		counts := &store.TaskStatusCounts{
			Total:     4,
			Completed: 1,
			Pending:   3,
			ByPriority: map[domain.Priority]int{
				domain.PriorityLow:    1,
				domain.PriorityMedium: 2,
				domain.PriorityHigh:   1,
			},
		}
		recent := []*domain.Task{
			{ID: 3, UserID: userID, Title: "Newest"},
			{ID: 2, UserID: userID, Title: "Older"},
		}
		trend := make([]store.DailyCompletion, service.TrendWindowDays)
		day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(service.TrendWindowDays - 1))
		for i := range trend {
			trend[i] = store.DailyCompletion{Day: day.AddDate(0, 0, i)}
		}

		mockUsers := new(MockUserStore)
		mockStats := new(MockStatsStore)
		mockUsers.On("GetByID", mock.Anything, userID).Return(user, nil)
		mockStats.On("TaskStatusCounts", mock.Anything, userID).Return(counts, nil)
		mockStats.On("RecentTasks", mock.Anything, userID, service.RecentTaskCount).Return(recent, nil)
		mockStats.On("CompletionTrend", mock.Anything, userID, service.TrendWindowDays).Return(trend, nil)

		svc := service.NewAnalyticsService(mockUsers, mockStats, testLogger())

		got, err := svc.UserAnalytics(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, counts, got.TaskStats)
		assert.Equal(t, recent, got.RecentTasks)
		assert.Len(t, got.WeeklyProgress, service.TrendWindowDays)
		mockStats.AssertExpectations(t)
	})

	t.Run("rejects an unknown user before aggregating", func(t *testing.T) {
		mockUsers := new(MockUserStore)
		mockStats := new(MockStatsStore)
		mockUsers.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		svc := service.NewAnalyticsService(mockUsers, mockStats, testLogger())

		_, err := svc.UserAnalytics(context.Background(), userID)

		assert.ErrorIs(t, err, store.ErrUserNotFound)
		mockStats.AssertNotCalled(t, "TaskStatusCounts", mock.Anything, mock.Anything)
	})
}

func TestAnalyticsService_UsersWithTaskStats(t *testing.T) {
	page := query.ResolvePagination("1", "10")
	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "must-not-leak",
		CreatedAt:      time.Now().UTC(),
	}

	mockUsers := new(MockUserStore)
	mockStats := new(MockStatsStore)
	mockStats.On("UsersWithTaskCounts", mock.Anything, page).Return(&store.UserTaskCountPage{
		Items: []store.UserTaskCount{{User: user, TaskCount: 6}},
		Total: 1,
	}, nil)

	svc := service.NewAnalyticsService(mockUsers, mockStats, testLogger())

	got, err := svc.UsersWithTaskStats(context.Background(), page)

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 6, got.Items[0].TaskCount)
	assert.Equal(t, 1, got.Pagination.Total)

	// The shaped user exposes the whitelist only; no credential material.
	shaped := got.Items[0].User
	assert.Equal(t, user.Email, shaped["email"])
	assert.NotContains(t, shaped, "hashedPassword")
	assert.NotContains(t, shaped, "password")
}

func TestAnalyticsService_SearchTasks(t *testing.T) {
	ownerID := uuid.New()

	t.Run("rejects a query shorter than the minimum", func(t *testing.T) {
		mockStats := new(MockStatsStore)
		svc := service.NewAnalyticsService(new(MockUserStore), mockStats, testLogger())

		_, err := svc.SearchTasks(context.Background(), ownerID, "a", 10)

		assert.ErrorIs(t, err, domain.ErrValidation)
		mockStats.AssertNotCalled(t, "SearchTasks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trims before measuring the query", func(t *testing.T) {
		mockStats := new(MockStatsStore)
		svc := service.NewAnalyticsService(new(MockUserStore), mockStats, testLogger())

		_, err := svc.SearchTasks(context.Background(), ownerID, "  a  ", 10)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("accepts a two-character query and echoes it back", func(t *testing.T) {
		matches := []*domain.Task{{ID: 1, UserID: ownerID, Title: "abacus"}}
		mockStats := new(MockStatsStore)
		mockStats.On("SearchTasks", mock.Anything, ownerID, "ab", 10).Return(matches, nil)

		svc := service.NewAnalyticsService(new(MockUserStore), mockStats, testLogger())

		got, err := svc.SearchTasks(context.Background(), ownerID, "ab", 10)

		require.NoError(t, err)
		assert.Equal(t, "ab", got.Query)
		assert.Equal(t, 1, got.Count)
		assert.Equal(t, matches, got.Results)
	})

	t.Run("clamps the limit and defaults when absent", func(t *testing.T) {
		mockStats := new(MockStatsStore)
		mockStats.On("SearchTasks", mock.Anything, ownerID, "report", query.MaxLimit).
			Return([]*domain.Task{}, nil)
		mockStats.On("SearchTasks", mock.Anything, ownerID, "notes", service.DefaultSearchLimit).
			Return([]*domain.Task{}, nil)

		svc := service.NewAnalyticsService(new(MockUserStore), mockStats, testLogger())

		_, err := svc.SearchTasks(context.Background(), ownerID, "report", 5000)
		require.NoError(t, err)

		_, err = svc.SearchTasks(context.Background(), ownerID, "notes", 0)
		require.NoError(t, err)

		mockStats.AssertExpectations(t)
	})
}
