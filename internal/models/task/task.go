package task

import (
	"time"
)

type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	DueAt       *time.Time `json:"due_at,omitempty" db:"due_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Status string

const StatusPending Status = "pending"
const StatusInProgress Status = "in_progress"
const StatusCompleted Status = "completed"

// порядок переключения статусов, последний переходит в первый
var cycle = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Statuses возвращает все допустимые статусы в порядке цикла
func Statuses() []Status {
	out := make([]Status, len(cycle))
	copy(out, cycle)
	return out
}

func (s Status) IsValid() bool {
	for _, st := range cycle {
		if s == st {
			return true
		}
	}
	return false
}

// Next возвращает следующий статус цикла. Неизвестный статус переходит в pending.
func (s Status) Next() Status {
	for i, st := range cycle {
		if s == st {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return StatusPending
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (s Status) Icon() string {
	switch s {
	case StatusCompleted:
		return "✓"
	case StatusInProgress:
		return "◐"
	default:
		return "○"
	}
}

func (t Task) HasDue() bool {
	return t.DueAt != nil && !t.DueAt.IsZero()
}
