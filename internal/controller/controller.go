// Package controller хранит состояние списка задач и синхронизирует его с API.
//
// Локальный список меняется только по результату успешного Refresh.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"todoList/internal/client"
	"todoList/internal/logger"
	"todoList/internal/models/task"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("ошибка валидации")

// форматы поля «срок», в порядке проверки
var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

type TaskAPI interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, req client.CreateTaskRequest) (*task.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error)
}

type Draft struct {
	Title       string
	Description string
	DueAt       string
}

type State struct {
	Tasks   []task.Task
	Loading bool
	Error   string
	Draft   Draft
}

type Controller struct {
	api TaskAPI

	mu    sync.Mutex
	state State
}

func New(api TaskAPI) *Controller {
	return &Controller{
		api:   api,
		state: State{Tasks: []task.Task{}},
	}
}

// Snapshot возвращает копию состояния
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Tasks = make([]task.Task, len(c.state.Tasks))
	copy(s.Tasks, c.state.Tasks)
	return s
}

func (c *Controller) SetDraft(d Draft) {
	c.mu.Lock()
	c.state.Draft = d
	c.mu.Unlock()
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Draft
}

func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	tasks, err := c.api.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err != nil {
		c.state.Error = userMessage(err, "не удалось получить задачи")
		logger.Warn("Controller: Обновление списка не удалось", errField(err))
		return err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.state.Tasks = tasks
	return nil
}

func (c *Controller) SubmitDraft(ctx context.Context) error {
	draft := c.Draft()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return c.fail(fmt.Errorf("%w: название обязательно", ErrValidation))
	}

	dueAt, err := parseDue(draft.DueAt)
	if err != nil {
		return c.fail(err)
	}

	// пробелы обрезаются только для проверки, на сервер уходит введённый текст
	req := client.CreateTaskRequest{
		Title:       draft.Title,
		Description: draft.Description,
		DueAt:       dueAt,
	}

	return c.syncAfter(ctx, "не удалось создать задачу", func(ctx context.Context) error {
		created, err := c.api.CreateTask(ctx, req)
		if err != nil {
			return err
		}
		logger.Info("Controller: Задача создана", zap.String("id", created.ID))

		c.mu.Lock()
		c.state.Draft = Draft{}
		c.mu.Unlock()
		return nil
	})
}

func (c *Controller) CycleStatus(ctx context.Context, t task.Task) error {
	next := t.Status.Next()

	return c.syncAfter(ctx, "не удалось обновить задачу", func(ctx context.Context) error {
		if _, err := c.api.UpdateTaskStatus(ctx, t.ID, next); err != nil {
			return err
		}
		logger.Info("Controller: Статус изменён",
			zap.String("id", t.ID),
			zap.String("from", string(t.Status)),
			zap.String("to", string(next)))
		return nil
	})
}

// syncAfter выполняет мутацию и, если она удалась, перечитывает список.
// Ошибка мутации заменяет прежнее сообщение, задачи не трогаются.
func (c *Controller) syncAfter(ctx context.Context, fallback string, action func(ctx context.Context) error) error {
	c.mu.Lock()
	c.state.Error = ""
	c.mu.Unlock()

	if err := action(ctx); err != nil {
		c.mu.Lock()
		c.state.Error = userMessage(err, fallback)
		c.mu.Unlock()
		logger.Warn("Controller: Операция не удалась", errField(err))
		return err
	}

	return c.Refresh(ctx)
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state.Error = userMessage(err, err.Error())
	c.mu.Unlock()
	return err
}

func parseDue(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("%w: срок должен быть в формате ГГГГ-ММ-ДД ЧЧ:ММ", ErrValidation)
}

func userMessage(err error, fallback string) string {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	if errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return fallback
}

// errField - техническое описание ошибки для лога
func errField(err error) zap.Field {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return zap.String("error", fe.Detail())
	}
	return zap.Error(err)
}
