package api

import (
	"net/http"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/query"
	"github.com/taskhive/taskhive-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks handles GET /api/tasks requests. Pagination, sort, filter and
// projection parameters are all resolved leniently: malformed values fall
// back to their defaults instead of erroring.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()

	filter, err := query.NewTaskFilter(userID,
		params.Get("status"),
		params.Get("priority"),
		params.Get("search"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	sort := query.ResolveTaskSort(params.Get("sortKey"), params.Get("sortDir"))
	page := query.ResolvePagination(params.Get("page"), params.Get("limit"))
	proj := query.ResolveProjection(params.Get("fields"), query.TaskFields)

	result, err := h.taskService.List(r.Context(), filter, sort, page, proj)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	proj := query.ResolveProjection(r.URL.Query().Get("fields"), query.TaskFields)

	task, err := h.taskService.Get(r.Context(), userID, taskID, proj)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, service.TaskInput{
		Title:     req.Title,
		Priority:  req.Priority,
		Completed: req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PATCH /api/tasks/{id} requests. Only the fields
// present in the body are changed.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, service.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
		Priority:  req.Priority,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkCreateTasks handles POST /api/tasks/bulk requests. The batch either
// persists in full or not at all.
func (h *TaskHandler) BulkCreateTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BulkCreateTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	inputs := make([]service.TaskInput, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		inputs = append(inputs, service.TaskInput{
			Title:     t.Title,
			Priority:  t.Priority,
			Completed: t.Completed,
		})
	}

	created, err := h.taskService.BulkCreate(r.Context(), userID, inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, BulkCreateTasksResponse{
		CreatedCount:   len(created),
		TotalRequested: len(req.Tasks),
		Tasks:          tasksToResponses(created),
	})
}
