package inmemory

import (
	"context"
	"sync"
	"time"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID // порядок создания
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	id, err := uuid.Parse(taskToCreate.ID)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}

	// храним копию, чтобы вызывающий не менял состояние хранилища
	stored := *taskToCreate
	s.storage[id] = &stored
	s.ids = append(s.ids, id)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := *taskToGet
	return &out, nil
}

func (s *TaskStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskExisted, ok := s.storage[id]
	if !ok {
		logger.Warn("Repository: Задача для обновления не найдена", zap.String("task_id", id.String()))
		return nil, repo.ErrNotFound
	}

	taskExisted.Status = status
	out := *taskExisted
	return &out, nil
}

// задачи в порядке создания, не больше limit
func (s *TaskStorage) List(ctx context.Context, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	limit = max(limit, 0)
	res := make([]*task.Task, 0, min(limit, len(s.ids)))
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}
		t := *s.storage[id]
		res = append(res, &t)
	}

	return res, nil
}
