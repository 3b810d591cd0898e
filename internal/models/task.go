package models

import (
	"fmt"
	"time"
)

const (
	// DefaultPriority is used when a task is added without one.
	DefaultPriority = 1
	MinPriority     = 1
	MaxPriority     = 3
)

// Task represents a todo item
type Task struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Priority int    `json:"priority" yaml:"priority"` // 1=low, 2=medium, 3=high

	// nil means unset, which is not the same as an empty due date
	DueDate *string `json:"due_date" yaml:"due_date"`

	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at" yaml:"completed_at"`
}

// NewTask builds a pending task stamped with createdAt
func NewTask(id int, name string, priority int, dueDate *string, createdAt time.Time) Task {
	return Task{
		ID:        id,
		Name:      name,
		Priority:  priority,
		DueDate:   dueDate,
		CreatedAt: createdAt,
	}
}

// Complete marks the task as completed now.
// Calling it on a completed task moves the completion time forward.
func (t *Task) Complete() {
	t.CompleteAt(time.Now())
}

// CompleteAt marks the task as completed at the given time
func (t *Task) CompleteAt(at time.Time) {
	t.CompletedAt = &at
}

// IsCompleted reports whether the task has a completion time
func (t Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// Status returns the human-readable completion status
func (t Task) Status() string {
	if t.IsCompleted() {
		return "Completed"
	}
	return "Not Completed"
}

// Clone returns a deep copy so callers never alias stored pointers
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	return c
}

// String renders the task on a single line
func (t Task) String() string {
	due := "-"
	if t.DueDate != nil {
		due = *t.DueDate
	}
	completed := "-"
	if t.CompletedAt != nil {
		completed = t.CompletedAt.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%d: %s, Priority: %d, Status: %s, Created: %s, Due: %s, Completed: %s",
		t.ID,
		t.Name,
		t.Priority,
		t.Status(),
		t.CreatedAt.Format("2006-01-02"),
		due,
		completed)
}

// PriorityLabel returns the display name for a priority value
func PriorityLabel(priority int) string {
	priorities := []string{"", "low", "medium", "high"}
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Sprintf("%d", priority)
	}
	return priorities[priority]
}
