package service

import (
	"context"

	"todoList/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	List(context.Context, int) ([]*task.Task, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	UpdateStatus(context.Context, uuid.UUID, task.Status) (*task.Task, error)
}
