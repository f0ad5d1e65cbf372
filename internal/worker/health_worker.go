package worker

import (
	"context"
	"sync/atomic"
	"time"

	"todoList/internal/logger"

	"go.uber.org/zap"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthWorker периодически проверяет хранилище и пишет в лог смену состояния
type HealthWorker struct {
	repo     HealthChecker
	interval time.Duration
	timeout  time.Duration

	healthy  atomic.Bool
	failures int
}

func NewHealthWorker(repo HealthChecker, interval *time.Duration, timeout *time.Duration) *HealthWorker {
	intervalToSet := time.Minute
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	timeoutToSet := 5 * time.Second
	if timeout != nil && *timeout > 0 {
		timeoutToSet = *timeout
	}

	w := &HealthWorker{
		repo:     repo,
		interval: intervalToSet,
		timeout:  timeoutToSet,
	}
	w.healthy.Store(true)
	return w
}

func (w *HealthWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Проверка хранилища запущена", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Проверка хранилища останавливается")
			return
		}
	}
}

// Check выполняет одну проверку. Вызывается только из Start или тестов.
func (w *HealthWorker) Check(ctx context.Context) {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.repo.HealthCheck(checkCtx)
	if err != nil {
		w.failures++
		if w.healthy.Swap(false) {
			logger.Error("Worker: Хранилище недоступно", err)
		} else {
			logger.Debug("Worker: Хранилище всё ещё недоступно",
				zap.Int("failures", w.failures), zap.Error(err))
		}
		return
	}

	if !w.healthy.Swap(true) {
		logger.Info("Worker: Хранилище снова доступно",
			zap.Int("failures", w.failures),
			zap.Duration("ms", time.Since(start)))
	}
	w.failures = 0
}

func (w *HealthWorker) Healthy() bool {
	return w.healthy.Load()
}
