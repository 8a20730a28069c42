package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(aiTokensIn, aiTokensOut, aiTokensTotal, aiCallsLatencyMs, streamDeltasTotal)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per mode.",
		},
		[]string{"mode"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per mode.",
		},
		[]string{"mode"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Sum of total tokens per mode.",
		},
		[]string{"mode"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"mode", "success"},
	)

	streamDeltasTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_stream_deltas_total",
			Help: "Count of content deltas decoded from streamed completions.",
		},
		[]string{"mode"},
	)
)

func ObserveCompletion(mode string, tokensIn, tokensOut, tokensTotal, latencyMs int, success bool) {
	aiTokensIn.WithLabelValues(norm(mode)).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(norm(mode)).Add(float64(tokensOut))
	aiTokensTotal.WithLabelValues(norm(mode)).Add(float64(tokensTotal))
	aiCallsLatencyMs.WithLabelValues(norm(mode), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncStreamDelta(mode string) {
	streamDeltasTotal.WithLabelValues(norm(mode)).Inc()
}
