package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the enumerated urgency level of a task.
type Priority string

// Recognized priority values. PriorityMedium is the default when a task
// is created without an explicit priority.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is applied when no priority is supplied at creation time.
const DefaultPriority = PriorityMedium

// MaxTitleLength bounds task titles to keep rows and list payloads small.
const MaxTitleLength = 255

// ParsePriority validates a raw priority string against the whitelist.
// Returns ErrInvalidPriority for anything outside {low, medium, high}.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(strings.ToLower(raw)) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

// Valid reports whether p is one of the recognized priority values.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task represents a single unit of work owned by exactly one user.
// The owner reference is immutable after creation.
type Task struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates a new Task owned by the given user. The ID is assigned
// by the store on insert. An empty priority falls back to the default.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string, priority Priority) (*Task, error) {
	if priority == "" {
		priority = DefaultPriority
	}

	task := &Task{
		UserID:    userID,
		Title:     title,
		Completed: false,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if len(t.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}

	if !t.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	return nil
}
