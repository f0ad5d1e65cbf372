package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoList/internal/config"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/repository/task/cache"
	"todoList/internal/repository/task/inmemory"
	"todoList/internal/repository/task/postgres"
	"todoList/internal/service"
	"todoList/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	service    handlers.Service
	health     *worker.HealthWorker
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, logPaths(a.config.Logging.File)...); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repoType, err := a.initRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	if a.config.CacheEnabled() {
		a.initCache()
	}

	svc := service.NewTaskService(a.repository, repoType)
	a.service = &svc
	handler := handlers.NewTaskHandler(a.service)

	a.router = NewRouter(&handler, RouterOptions{
		RequestTimeout: a.config.Server.RequestTimeout,
		RateLimit:      a.config.Server.RateLimit,
	})

	if interval := a.config.Server.HealthInterval; interval > 0 {
		a.health = worker.NewHealthWorker(a.repository, &interval, nil)
	}

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("App: Инициализация завершена",
		zap.String("repository", string(repoType)),
		zap.Bool("cache", a.config.CacheEnabled()))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.RepoType, error) {
	switch a.config.Repository.Type {
	case "postgres":
		db := a.config.Database
		storage, err := postgres.New(ctx, db.URL, &postgres.Options{
			MaxConns:        db.MaxConnections,
			MinConns:        db.MinConnections,
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			return "", fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		if db.Migrate {
			if err := storage.Migrate(ctx); err != nil {
				return "", fmt.Errorf("миграции: %w", err)
			}
		}
		a.repository = storage
		return service.DBType, nil
	default:
		a.repository = inmemory.NewTaskStorage()
		return service.InMemoryType, nil
	}
}

func (a *App) initCache() {
	c := a.config.Cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	a.shutdowns = append(a.shutdowns, func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("App: Ошибка закрытия Redis", zap.Error(err))
		}
	})
	a.repository = cache.New(a.repository, rdb, c.TTL)
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run обслуживает запросы, пока не отменят ctx, затем мягко гасит сервер
func (a *App) Run(ctx context.Context) error {
	if a.health != nil {
		go a.health.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Close()
		if err == nil {
			return nil
		}
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("App: Получен сигнал остановки")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}
	a.Close()
	return err
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

func logPaths(file string) []string {
	if file == "" {
		return nil
	}
	return []string{file}
}
