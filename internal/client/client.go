// Package client - типизированная обёртка над HTTP API задач.
//
// Каждый вызов - ровно один запрос и один ответ, без повторов и своих таймаутов.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todoList/internal/logger"
	"todoList/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tasksPath = "/tasks"

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// nil означает «без срока», поле тогда не попадает в тело
	DueAt *time.Time `json:"due_at,omitempty"`
}

type updateStatusRequest struct {
	Status task.Status `json:"status"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks := []task.Task{}
	if err := c.do(ctx, OpList, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, OpCreate, http.MethodPost, tasksPath, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	var updated task.Task
	path := tasksPath + "/" + url.PathEscape(id)
	if err := c.do(ctx, OpUpdateStatus, http.MethodPatch, path, updateStatusRequest{Status: status}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) do(ctx context.Context, op Op, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: fmt.Errorf("кодирование тела: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Client: Запрос не выполнен",
			zap.String("op", string(op)),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// тело ошибки сервера намеренно не разбираем
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Warn("Client: Неуспешный ответ",
			zap.String("op", string(op)),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("Client: Не удалось разобрать ответ",
			zap.String("op", string(op)),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	logger.Debug("Client: Запрос выполнен",
		zap.String("op", string(op)),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("ms", time.Since(start)))
	return nil
}
