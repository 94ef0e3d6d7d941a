package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "requests_submitted_total",
		Help:      "Количество поданных заявок",
	})
	requestDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "request_decisions_total",
		Help:      "Решения по заявкам в разрезе статуса",
	}, []string{"status"})
	approvalsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "approvals_completed_total",
		Help:      "Количество закрытых выдач со счетами",
	})
	amountSpent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "amount_spent_total",
		Help:      "Сумма расходов по закрытым выдачам",
	})
	stockAdjustments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "stock_adjustments_total",
		Help:      "Количество ручных корректировок остатка",
	})
	lowStockItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "labstock",
		Name:      "low_stock_items",
		Help:      "Позиции с остатком ниже порога на момент последней проверки",
	})
	workerRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "worker_runs_total",
		Help:      "Запуски фоновых задач в разрезе результата",
	}, []string{"worker", "result"})
	workerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "labstock",
		Name:      "worker_run_seconds",
		Help:      "Длительность запуска фоновой задачи",
		Buckets:   prometheus.DefBuckets,
	}, []string{"worker"})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestsSubmitted,
		requestDecisions,
		approvalsCompleted,
		amountSpent,
		stockAdjustments,
		lowStockItems,
		workerRuns,
		workerDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func RequestSubmitted() {
	requestsSubmitted.Inc()
}

func RequestDecided(status string) {
	requestDecisions.WithLabelValues(status).Inc()
}

func ApprovalCompleted(amount float64) {
	approvalsCompleted.Inc()
	if amount > 0 {
		amountSpent.Add(amount)
	}
}

func StockAdjusted() {
	stockAdjustments.Inc()
}

func SetLowStock(count int) {
	lowStockItems.Set(float64(count))
}

// WorkerRun результат одного запуска фоновой задачи, result: ok или panic
func WorkerRun(worker, result string, seconds float64) {
	workerRuns.WithLabelValues(worker, result).Inc()
	workerDuration.WithLabelValues(worker).Observe(seconds)
}
