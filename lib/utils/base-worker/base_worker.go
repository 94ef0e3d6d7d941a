package baseworker

import (
	"context"
	"labstock-backend/lib/metrics"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

// BaseImpl периодический запуск задачи до отмены контекста
type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(WorkerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    WorkerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	return log.WithField("worker_name", i.WorkerName)
}

func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context)) {
	logger := i.GetLogger()
	timer := time.NewTimer(i.firstRunDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Задача остановлена")
			return
		case <-timer.C:
			i.RunOnce(ctx, jobFunc)
			timer.Reset(i.runInterval)
		}
	}
}

// RunOnce один запуск; паника в задаче не останавливает цикл
func (i BaseImpl) RunOnce(ctx context.Context, jobFunc func(ctx context.Context)) (ok bool) {
	logger := i.GetLogger()
	started := time.Now()
	defer func() {
		result := "ok"
		if r := recover(); r != nil {
			ok = false
			result = "panic"
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
		elapsed := time.Since(started)
		metrics.WorkerRun(i.WorkerName, result, elapsed.Seconds())
		logger.
			WithField("elapsed_ms", elapsed.Milliseconds()).
			Info("Задача выполнена")
	}()
	logger.Info("Задача запущена")
	jobFunc(ctx)
	return true
}
