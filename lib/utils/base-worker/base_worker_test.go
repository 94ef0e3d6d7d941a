package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunOnceRecoversPanic(t *testing.T) {
	w := NewInstance("TestWorker", 0, time.Millisecond)
	ok := w.RunOnce(context.Background(), func(ctx context.Context) {
		panic("boom")
	})
	require.False(t, ok)

	ok = w.RunOnce(context.Background(), func(ctx context.Context) {})
	require.True(t, ok)
}

func TestRunKeepsGoingAfterPanicAndStops(t *testing.T) {
	w := NewInstance("TestWorker", time.Millisecond, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	done := make(chan struct{})
	go func() {
		w.Run(ctx, func(ctx context.Context) {
			if atomic.AddInt32(&calls, 1) == 1 {
				panic("first run fails")
			}
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
