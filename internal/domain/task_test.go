package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"low":    PriorityLow,
		"medium": PriorityMedium,
		"high":   PriorityHigh,
		"HIGH":   PriorityHigh,
		"Low":    PriorityLow,
	}

	for raw, want := range cases {
		got, err := ParsePriority(raw)
		if err != nil {
			t.Errorf("ParsePriority(%q): unexpected error %v", raw, err)
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", raw, got, want)
		}
	}

	for _, raw := range []string{"", "urgent", "bogus", "mediumm"} {
		if _, err := ParsePriority(raw); !errors.Is(err, ErrInvalidPriority) {
			t.Errorf("ParsePriority(%q): expected ErrInvalidPriority, got %v", raw, err)
		}
	}
}

func TestNewTask(t *testing.T) {
	ownerID := uuid.New()

	task, err := NewTask(ownerID, "write report", PriorityHigh)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.UserID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, task.UserID)
	}

	if task.Completed {
		t.Error("New tasks must not be completed")
	}

	if task.Priority != PriorityHigh {
		t.Errorf("Expected priority high, got %s", task.Priority)
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Empty priority falls back to the default
	task, err = NewTask(ownerID, "buy milk", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Priority != DefaultPriority {
		t.Errorf("Expected default priority %s, got %s", DefaultPriority, task.Priority)
	}
}

func TestTaskValidate(t *testing.T) {
	valid := Task{
		UserID:   uuid.New(),
		Title:    "a task",
		Priority: PriorityMedium,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	missing := valid
	missing.UserID = uuid.Nil
	if err := missing.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected ErrEmptyUserID, got %v", err)
	}

	empty := valid
	empty.Title = "   "
	if err := empty.Validate(); err != ErrEmptyTitle {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}

	long := valid
	long.Title = strings.Repeat("x", MaxTitleLength+1)
	if err := long.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for overlong title, got %v", err)
	}

	bad := valid
	bad.Priority = "urgent"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("Expected ErrInvalidPriority, got %v", err)
	}
}
