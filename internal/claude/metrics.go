package claude

import "github.com/prometheus/client_golang/prometheus"

var (
	catalogFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sessiond",
		Subsystem: "catalog",
		Name:      "remote_failures_total",
		Help:      "Remote model catalog fetches that degraded to the builtin list",
	})

	chatRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sessiond",
		Subsystem: "chat",
		Name:      "requests_total",
		Help:      "Chat stream requests by outcome",
	}, []string{"outcome"})

	chatChunksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sessiond",
		Subsystem: "chat",
		Name:      "chunks_total",
		Help:      "Text delta chunks delivered to consumers",
	})
)

func init() {
	prometheus.MustRegister(catalogFallbacksTotal, chatRequestsTotal, chatChunksTotal)
}
