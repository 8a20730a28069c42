package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(usageGateBlocks) }

var usageGateBlocks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "usage_gate_blocks_total",
		Help: "Count of runs blocked by the daily usage gate, labeled by plan.",
	},
	[]string{"plan"},
)

func IncUsageBlock(plan string) {
	usageGateBlocks.WithLabelValues(norm(plan)).Inc()
}
