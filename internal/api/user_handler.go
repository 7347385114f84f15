package api

import (
	"net/http"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/service"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser handles GET /api/users/{userId} requests. The response is shaped
// by the fields parameter against the user whitelist; the credential hash
// can never be selected.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	targetID, err := getPathUserID(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.GetByID(r.Context(), targetID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	proj := query.ResolveProjection(r.URL.Query().Get("fields"), query.UserFields)
	shared.RespondWithJSON(w, r, http.StatusOK, query.ProjectUser(user, proj))
}

// DeleteUser handles DELETE /api/users/me requests. The account and all
// its tasks are removed.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
