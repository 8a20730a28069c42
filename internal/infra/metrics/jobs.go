package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobDurationSeconds) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "capability_jobs_processed_total",
		Help: "Total number of capability jobs processed, labeled by status and capability.",
	},
	[]string{"status", "capability"}, // 'completed', 'failed'
)

var jobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "capability_job_duration_seconds",
		Help:    "Wall-clock duration of capability jobs from running to terminal.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160, 320},
	},
	[]string{"capability"},
)

func IncJob(status, capability string) {
	jobsProcessedTotal.WithLabelValues(norm(status), norm(capability)).Inc()
}

func ObserveJobDuration(capability string, seconds float64) {
	jobDurationSeconds.WithLabelValues(norm(capability)).Observe(seconds)
}
