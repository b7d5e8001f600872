package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "argus_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "argus_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Evaluation cycle metrics
	EvaluationCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_evaluation_cycles_total",
			Help: "Total number of rule evaluation cycles",
		},
		[]string{"status"}, // status: success|error
	)

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_evaluation_cycle_duration_seconds",
			Help:    "Rule evaluation cycle duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	AlertsTriggered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_alerts_triggered_total",
			Help: "Total number of alerts created by the pipeline",
		},
	)

	// Notification metrics
	NotificationDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_notification_deliveries_total",
			Help: "Total notification delivery attempts per channel",
		},
		[]string{"channel", "status"}, // status: success|failure
	)
)

// Init registers all metrics with the default registry
func Init() {
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(EvaluationCycles)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(AlertsTriggered)

	prometheus.MustRegister(NotificationDeliveries)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records one worker run
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordCycle records one evaluation cycle
func RecordCycle(duration time.Duration, alerts int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	EvaluationCycles.WithLabelValues(status).Inc()
	CycleDuration.Observe(duration.Seconds())
	if alerts > 0 {
		AlertsTriggered.Add(float64(alerts))
	}
}

// RecordNotification records one channel delivery attempt
func RecordNotification(channel string, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	NotificationDeliveries.WithLabelValues(channel, status).Inc()
}
