package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	rec := &dto.Metric{}
	require.NoError(t, m.Write(rec))
	if rec.Counter != nil {
		return rec.Counter.GetValue()
	}
	return rec.Gauge.GetValue()
}

func TestRequestDecided(t *testing.T) {
	before := value(t, requestDecisions.WithLabelValues("rejected"))
	RequestDecided("rejected")
	require.Equal(t, before+1, value(t, requestDecisions.WithLabelValues("rejected")))
}

func TestApprovalCompletedIgnoresZeroAmount(t *testing.T) {
	before := value(t, amountSpent)
	ApprovalCompleted(0)
	require.Equal(t, before, value(t, amountSpent))
	ApprovalCompleted(12.5)
	require.Equal(t, before+12.5, value(t, amountSpent))
}

func TestSetLowStock(t *testing.T) {
	SetLowStock(3)
	require.Equal(t, float64(3), value(t, lowStockItems))
}

func TestWorkerRun(t *testing.T) {
	before := value(t, workerRuns.WithLabelValues("TestWorker", "panic"))
	WorkerRun("TestWorker", "panic", 0.2)
	require.Equal(t, before+1, value(t, workerRuns.WithLabelValues("TestWorker", "panic")))
}
