package lock

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	lockMap sync.Map
)

// ErrBusy ключ удерживается другим обработчиком дольше времени ожидания
var ErrBusy = errors.New("ресурс занят")

const retryInterval = 50 * time.Millisecond

// WithDelay выполняет safeCode, удерживая ключ в пределах процесса.
// Если за wait ключ не освободился, safeCode не вызывается и возвращается ErrBusy
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) error {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return ErrBusy
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "ожидание блокировки прервано")
		case <-time.After(retryInterval):
		}
	}
	defer lockMap.Delete(key)
	return safeCode()
}
