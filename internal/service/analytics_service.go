package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Aggregation bounds. The trend window and recent-task count are fixed
// product decisions, not caller inputs.
const (
	RecentTaskCount    = 5
	TrendWindowDays    = 7
	MinSearchLength    = 2
	DefaultSearchLimit = 10
)

// UserAnalytics is the combined per-user dashboard payload.
type UserAnalytics struct {
	TaskStats      *store.TaskStatusCounts `json:"taskStats"`
	RecentTasks    []*domain.Task          `json:"recentTasks"`
	WeeklyProgress []store.DailyCompletion `json:"weeklyProgress"`
}

// UserStatsList is one page of the cross-user task-count listing.
type UserStatsList struct {
	Items      []UserStatsItem `json:"items"`
	Pagination PageInfo        `json:"pagination"`
}

// UserStatsItem is one user annotated with their task count. The user is
// shaped through the standard user projection, so no credential data can
// appear here.
type UserStatsItem struct {
	User      map[string]any `json:"user"`
	TaskCount int            `json:"taskCount"`
}

// SearchResult echoes the search text back alongside the matching tasks.
type SearchResult struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []*domain.Task `json:"results"`
}

// AnalyticsService exposes read-only aggregate views over users and tasks.
type AnalyticsService interface {
	// UserAnalytics assembles the per-user dashboard: status counts,
	// the most recent tasks and the completion trend over the trailing
	// week. Returns store.ErrUserNotFound for an unknown user.
	UserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error)

	// UsersWithTaskStats lists all users with their task counts,
	// windowed by the standard pagination contract.
	UsersWithTaskStats(ctx context.Context, page query.Pagination) (*UserStatsList, error)

	// SearchTasks matches the owner's task titles case-insensitively
	// against the given text. Queries shorter than MinSearchLength after
	// trimming are rejected with a ValidationError.
	SearchTasks(ctx context.Context, ownerID uuid.UUID, text string, limit int) (*SearchResult, error)
}

type analyticsService struct {
	users  store.UserStore
	stats  store.StatsStore
	logger *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService over the given stores.
func NewAnalyticsService(users store.UserStore, stats store.StatsStore, log *slog.Logger) AnalyticsService {
	if users == nil {
		panic("NewAnalyticsService: user store cannot be nil")
	}
	if stats == nil {
		panic("NewAnalyticsService: stats store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &analyticsService{
		users:  users,
		stats:  stats,
		logger: log.With(slog.String("component", "analytics_service")),
	}
}

func (s *analyticsService) UserAnalytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error) {
	// An unknown user is a hard 404, not an empty dashboard.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("resolving analytics user: %w", err)
	}

	counts, err := s.stats.TaskStatusCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("computing status counts: %w", err)
	}

	recent, err := s.stats.RecentTasks(ctx, userID, RecentTaskCount)
	if err != nil {
		return nil, fmt.Errorf("loading recent tasks: %w", err)
	}

	trend, err := s.stats.CompletionTrend(ctx, userID, TrendWindowDays)
	if err != nil {
		return nil, fmt.Errorf("computing completion trend: %w", err)
	}

	return &UserAnalytics{
		TaskStats:      counts,
		RecentTasks:    recent,
		WeeklyProgress: trend,
	}, nil
}

func (s *analyticsService) UsersWithTaskStats(ctx context.Context, page query.Pagination) (*UserStatsList, error) {
	result, err := s.stats.UsersWithTaskCounts(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing user task counts: %w", err)
	}

	proj := query.ResolveProjection("", query.UserFields)
	items := make([]UserStatsItem, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, UserStatsItem{
			User:      query.ProjectUser(it.User, proj),
			TaskCount: it.TaskCount,
		})
	}

	return &UserStatsList{
		Items:      items,
		Pagination: PageInfo{Page: page.Page, Limit: page.Limit, Total: result.Total},
	}, nil
}

func (s *analyticsService) SearchTasks(ctx context.Context, ownerID uuid.UUID, text string, limit int) (*SearchResult, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinSearchLength {
		return nil, NewValidationError(
			fmt.Sprintf("search query must be at least %d characters", MinSearchLength),
			FieldError{Field: "q", Message: fmt.Sprintf("must be at least %d characters", MinSearchLength)},
		)
	}

	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > query.MaxLimit {
		limit = query.MaxLimit
	}

	results, err := s.stats.SearchTasks(ctx, ownerID, trimmed, limit)
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}

	return &SearchResult{
		Query:   text,
		Count:   len(results),
		Results: results,
	}, nil
}
