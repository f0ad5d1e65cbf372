package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	rep "todoList/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type RepoType string

const (
	InMemoryType RepoType = "inmemory"
	DBType       RepoType = "postgres"
)

const maxTitleLen = 255

type TaskService struct {
	repo     TaskRepository
	RepoType RepoType
	now      func() time.Time
}

func NewTaskService(repo TaskRepository, repoType RepoType) TaskService {
	return TaskService{
		repo:     repo,
		RepoType: repoType,
		now:      time.Now,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		logger.Error("Service: Хранилище недоступно", err, zap.String("repo_type", string(s.RepoType)))
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask создаёт задачу. Пустой status означает pending, dueAt может быть nil.
func (s *TaskService) CreateTask(ctx context.Context, title, description string, dueAt *time.Time, status task.Status) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, NewValidationError("title", fmt.Sprintf("длиннее %d символов", maxTitleLen))
	}
	if status != "" && !status.IsValid() {
		return nil, invalidStatus(status)
	}

	newTask := task.New(uuid.NewString(), title, s.now(),
		task.WithDescription(description),
		task.WithDueAt(dueAt),
		task.WithStatus(status),
	)

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID))
	return newTask, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx, rep.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String(), err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTaskStatus меняет только статус. Переходы не проверяются:
// клиент сам выбирает следующий статус цикла.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	if !status.IsValid() {
		return nil, invalidStatus(status)
	}

	t, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String(), err)
		}
		return nil, fmt.Errorf("обновление статуса: %w", err)
	}

	logger.Info("Service: Статус обновлён",
		zap.String("task_id", id.String()),
		zap.String("status", string(status)))
	return t, nil
}

func invalidStatus(status task.Status) *BusinessError {
	e := NewValidationError("status", fmt.Sprintf("неизвестный статус %q", status))
	e.Details["allowed"] = task.Statuses()
	return e
}
