package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"todoList/internal/logger"
	"todoList/internal/models/task"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// ключ hash, поле = limit
	keyList = "todo:tasks:list"
	// поколение списка, растёт при каждой записи
	keyGen = "todo:tasks:gen"
)

type Repository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	List(context.Context, int) ([]*task.Task, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	UpdateStatus(context.Context, uuid.UUID, task.Status) (*task.Task, error)
}

// TaskStorage кеширует список задач в Redis поверх основного хранилища.
// Любая запись сбрасывает кеш. Ошибки Redis не ломают запросы, только логируются.
type TaskStorage struct {
	next  Repository
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func New(next Repository, rdb *redis.Client, ttl time.Duration) *TaskStorage {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TaskStorage{next: next, rdb: rdb, ttl: ttl}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Cache: Redis недоступен", zap.Error(err))
	}
	return s.next.HealthCheck(ctx)
}

func (s *TaskStorage) Create(ctx context.Context, t *task.Task) error {
	if err := s.next.Create(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.next.GetByID(ctx, id)
}

func (s *TaskStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	t, err := s.next.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return t, nil
}

func (s *TaskStorage) List(ctx context.Context, limit int) ([]*task.Task, error) {
	field := strconv.Itoa(limit)

	cached, err := s.getList(ctx, field)
	if err != nil {
		logger.Warn("Cache: Ошибка чтения списка", zap.Error(err))
	}
	if cached != nil {
		logger.Debug("Cache: Попадание", zap.Int("count", len(cached)))
		return cached, nil
	}

	// поколение читается до похода в хранилище: запись после этого момента запретит заполнение
	gen, genErr := s.generation(ctx)
	if genErr != nil {
		logger.Warn("Cache: Ошибка чтения поколения", zap.Error(genErr))
	}

	v, err, _ := s.group.Do(field+":"+gen, func() (any, error) {
		tasks, err := s.next.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			if err := s.setList(ctx, field, gen, tasks); err != nil {
				logger.Warn("Cache: Ошибка записи списка", zap.Error(err))
			}
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*task.Task), nil
}

// nil без ошибки означает промах
func (s *TaskStorage) getList(ctx context.Context, field string) ([]*task.Task, error) {
	b, err := s.rdb.HGet(ctx, keyList, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []*task.Task{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *TaskStorage) generation(ctx context.Context) (string, error) {
	gen, err := s.rdb.Get(ctx, keyGen).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// setList пишет список, только если с момента чтения gen не было записей
func (s *TaskStorage) setList(ctx context.Context, field, gen string, tasks []*task.Task) error {
	b, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, keyGen).Result()
		if errors.Is(err, redis.Nil) {
			current = "0"
		} else if err != nil {
			return err
		}
		if current != gen {
			logger.Debug("Cache: Список устарел, не сохраняем",
				zap.String("gen", gen), zap.String("current", current))
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, keyList, field, b)
			pipe.Expire(ctx, keyList, s.ttl)
			return nil
		})
		return err
	}, keyGen)

	if errors.Is(err, redis.TxFailedErr) {
		logger.Debug("Cache: Запись списка прервана конкурентной записью")
		return nil
	}
	return err
}

func (s *TaskStorage) invalidate(ctx context.Context) {
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, keyGen)
	pipe.Del(ctx, keyList)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Cache: Не удалось сбросить кеш списка", zap.Error(err))
	}
}
