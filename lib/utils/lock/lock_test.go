package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelaySerializesSameKey(t *testing.T) {
	var active, maxActive int32
	wg := sync.WaitGroup{}
	for n := 0; n < 5; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithDelay(context.Background(), "request-1", time.Second, func() error {
				cur := atomic.AddInt32(&active, 1)
				for {
					prev := atomic.LoadInt32(&maxActive)
					if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), maxActive)
}

func TestWithDelayTimeout(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = WithDelay(context.Background(), "request-2", time.Second, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	called := false
	err := WithDelay(context.Background(), "request-2", 100*time.Millisecond, func() error {
		called = true
		return nil
	})
	close(release)
	require.ErrorIs(t, err, ErrBusy)
	require.False(t, called)
}

func TestWithDelayReleasesKey(t *testing.T) {
	require.NoError(t, WithDelay(context.Background(), "request-3", time.Second, func() error { return nil }))
	require.NoError(t, WithDelay(context.Background(), "request-3", time.Second, func() error { return nil }))
}
