package api

import (
	"net/http"
	"strconv"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/service"
)

// AnalyticsHandler handles aggregate and search HTTP requests.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetUserAnalytics handles GET /api/analytics/users/{userId} requests.
func (h *AnalyticsHandler) GetUserAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	targetID, err := getPathUserID(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	analytics, err := h.analyticsService.UserAnalytics(r.Context(), targetID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute analytics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analytics)
}

// GetUsersWithTaskStats handles GET /api/users/stats requests.
func (h *AnalyticsHandler) GetUsersWithTaskStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	page := query.ResolvePagination(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	result, err := h.analyticsService.UsersWithTaskStats(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list user stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SearchTasks handles GET /api/tasks/search requests. The search scope is
// the caller's own tasks; the query text must be at least two characters.
func (h *AnalyticsHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()
	text := params.Get("q")

	// Limit shares the lenient pagination policy: a malformed value
	// falls back to the default instead of erroring.
	limit := 0
	if raw := params.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.analyticsService.SearchTasks(r.Context(), userID, text, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SearchTasksResponse{
		Query:   result.Query,
		Count:   result.Count,
		Results: tasksToResponses(result.Results),
	})
}
