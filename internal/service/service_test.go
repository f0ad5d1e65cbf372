package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todoList/internal/models/task"
	"todoList/internal/repository"
	"todoList/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var be *service.BusinessError
	require.True(t, errors.As(err, &be), "Expected BusinessError, got %v", err)
	assert.Equal(t, code, be.Code)
}

// TestTaskService_HealthCheck тестирует HealthCheck
func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectError: false,
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo, service.DBType)
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "проверка здоровья сервиса")
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	due := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name           string
		title          string
		description    string
		dueAt          *time.Time
		status         task.Status
		expectCreate   bool
		expectedStatus task.Status
		errorCode      string
	}{
		{
			name:           "success - defaults to pending",
			title:          "Buy milk",
			expectCreate:   true,
			expectedStatus: task.StatusPending,
		},
		{
			name:           "success - with due date and explicit status",
			title:          "  Write report  ",
			description:    "quarterly",
			dueAt:          &due,
			status:         task.StatusInProgress,
			expectCreate:   true,
			expectedStatus: task.StatusInProgress,
		},
		{
			name:      "error - blank title",
			title:     "   ",
			errorCode: service.CodeValidation,
		},
		{
			name:           "success - multibyte title counted in characters",
			title:          strings.Repeat("я", 255),
			expectCreate:   true,
			expectedStatus: task.StatusPending,
		},
		{
			name:      "error - title too long",
			title:     strings.Repeat("x", 256),
			errorCode: service.CodeValidation,
		},
		{
			name:      "error - multibyte title too long",
			title:     strings.Repeat("я", 256),
			errorCode: service.CodeValidation,
		},
		{
			name:      "error - unknown status",
			title:     "ok",
			status:    task.Status("done"),
			errorCode: service.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			if tt.expectCreate {
				mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(t *task.Task) bool {
					_, err := uuid.Parse(t.ID)
					return err == nil && t.Title == strings.TrimSpace(tt.title) && t.Status == tt.expectedStatus
				})).Return(nil)
			}

			svc := service.NewTaskService(mockRepo, service.InMemoryType)
			result, err := svc.CreateTask(ctx, tt.title, tt.description, tt.dueAt, tt.status)

			if tt.errorCode != "" {
				assertBusinessCode(t, err, tt.errorCode)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, tt.description, result.Description)
			assert.False(t, result.CreatedAt.IsZero())
			if tt.dueAt != nil {
				require.NotNil(t, result.DueAt)
				assert.True(t, tt.dueAt.Equal(*result.DueAt))
			} else {
				assert.Nil(t, result.DueAt)
			}
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("error - repository failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		svc := service.NewTaskService(mockRepo, service.DBType)
		_, err := svc.CreateTask(ctx, "Test", "", nil, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "создание задачи")
	})
}

// TestTaskService_ListTasks тестирует получение списка
func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("success - uses list limit", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		tasks := []*task.Task{
			{ID: uuid.NewString(), Title: "Task 1"},
			{ID: uuid.NewString(), Title: "Task 2"},
		}
		mockRepo.On("List", mock.Anything, repository.ListLimit).Return(tasks, nil)

		svc := service.NewTaskService(mockRepo, service.DBType)
		result, err := svc.ListTasks(ctx)

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - repository failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything, repository.ListLimit).Return(nil, errors.New("boom"))

		svc := service.NewTaskService(mockRepo, service.DBType)
		_, err := svc.ListTasks(ctx)

		assert.Error(t, err)
	})
}

// TestTaskService_GetTaskByID тестирует получение задачи
func TestTaskService_GetTaskByID(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, taskID).Return(&task.Task{ID: taskID.String()}, nil)

		svc := service.NewTaskService(mockRepo, service.DBType)
		result, err := svc.GetTaskByID(ctx, taskID)

		assert.NoError(t, err)
		assert.Equal(t, taskID.String(), result.ID)
	})

	t.Run("error - not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, taskID).Return(nil, repository.ErrNotFound)

		svc := service.NewTaskService(mockRepo, service.DBType)
		_, err := svc.GetTaskByID(ctx, taskID)

		assertBusinessCode(t, err, service.CodeNotFound)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestTaskService_UpdateTaskStatus тестирует смену статуса
func TestTaskService_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	tests := []struct {
		name      string
		status    task.Status
		setupMock func(*MockTaskRepository)
		errorCode string
		plainErr  bool
	}{
		{
			name:   "success - pending to in_progress",
			status: task.StatusInProgress,
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateStatus", mock.Anything, taskID, task.StatusInProgress).
					Return(&task.Task{ID: taskID.String(), Status: task.StatusInProgress}, nil)
			},
		},
		{
			name:   "success - completed back to pending",
			status: task.StatusPending,
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateStatus", mock.Anything, taskID, task.StatusPending).
					Return(&task.Task{ID: taskID.String(), Status: task.StatusPending}, nil)
			},
		},
		{
			name:      "error - invalid status",
			status:    task.Status("overdue"),
			setupMock: func(m *MockTaskRepository) {},
			errorCode: service.CodeValidation,
		},
		{
			name:   "error - not found",
			status: task.StatusCompleted,
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateStatus", mock.Anything, taskID, task.StatusCompleted).Return(nil, repository.ErrNotFound)
			},
			errorCode: service.CodeNotFound,
		},
		{
			name:   "error - storage failure",
			status: task.StatusCompleted,
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateStatus", mock.Anything, taskID, task.StatusCompleted).Return(nil, errors.New("timeout"))
			},
			plainErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo, service.DBType)
			result, err := svc.UpdateTaskStatus(ctx, taskID, tt.status)

			switch {
			case tt.errorCode != "":
				assertBusinessCode(t, err, tt.errorCode)
			case tt.plainErr:
				require.Error(t, err)
				var be *service.BusinessError
				assert.False(t, errors.As(err, &be))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.status, result.Status)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_RepoType проверяет работу с разными типами репозиториев
func TestTaskService_RepoType(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	assert.Equal(t, service.DBType, service.NewTaskService(mockRepo, service.DBType).RepoType)
	assert.Equal(t, service.InMemoryType, service.NewTaskService(mockRepo, service.InMemoryType).RepoType)
}

// TestTaskService_InvalidStatusDetails проверяет, что ошибка перечисляет допустимые статусы
func TestTaskService_InvalidStatusDetails(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := service.NewTaskService(mockRepo, service.InMemoryType)

	_, err := svc.UpdateTaskStatus(context.Background(), uuid.New(), task.Status("done"))

	var be *service.BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, service.CodeValidation, be.Code)
	assert.Equal(t, task.Statuses(), be.Details["allowed"])
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
