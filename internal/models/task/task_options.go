package task

import (
	"strings"
	"time"
)

type TaskOption func(*Task)

// New собирает задачу со статусом pending и применяет опции.
// nil-опции пропускаются.
func New(id, title string, createdAt time.Time, opts ...TaskOption) *Task {
	t := &Task{
		ID:        id,
		Title:     title,
		Status:    StatusPending,
		CreatedAt: createdAt,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func WithDescription(description string) TaskOption {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithDueAt(dueAt *time.Time) TaskOption {
	if dueAt == nil || dueAt.IsZero() {
		return nil
	}
	return func(task *Task) {
		d := *dueAt
		task.DueAt = &d
	}
}
