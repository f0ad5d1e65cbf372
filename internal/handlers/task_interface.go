package handlers

import (
	"context"
	"time"

	"todoList/internal/models/task"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(ctx context.Context, title, description string, dueAt *time.Time, status task.Status) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	GetTaskByID(context.Context, uuid.UUID) (*task.Task, error)
	UpdateTaskStatus(context.Context, uuid.UUID, task.Status) (*task.Task, error)
}
