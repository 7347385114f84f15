package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterResponse defines the successful response for registration.
// TasksCreated reports how many onboarding tasks were seeded alongside
// the account.
type RegisterResponse struct {
	User         map[string]any `json:"user"`
	TasksCreated int            `json:"tasksCreated"`
	AccessToken  string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskRequest represents one task descriptor for creation. Priority
// is validated by the service so bulk requests can report violations per
// item rather than failing on the first.
type CreateTaskRequest struct {
	Title     string `json:"title"`
	Priority  string `json:"priority,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Priority  *string `json:"priority,omitempty"`
}

// BulkCreateTasksRequest represents the payload for bulk task creation.
type BulkCreateTasksRequest struct {
	Tasks []CreateTaskRequest `json:"tasks"`
}

// BulkCreateTasksResponse reports the outcome of a bulk creation.
type BulkCreateTasksResponse struct {
	CreatedCount   int            `json:"createdCount"`
	TotalRequested int            `json:"totalRequested"`
	Tasks          []TaskResponse `json:"tasks"`
}

// TaskResponse represents the full response shape for a task when no
// projection applies.
type TaskResponse struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		UserID:    task.UserID,
		Title:     task.Title,
		Completed: task.Completed,
		Priority:  string(task.Priority),
		CreatedAt: task.CreatedAt,
	}
}

// tasksToResponses converts a slice of tasks to response shapes.
func tasksToResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

// SearchTasksResponse echoes the query back with the matching tasks.
type SearchTasksResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []TaskResponse `json:"results"`
}
