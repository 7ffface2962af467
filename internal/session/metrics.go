package session

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lairai",
			Subsystem: "session",
			Name:      "submissions_total",
			Help:      "Order session submissions by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	sessionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lairai",
		Name:      "sessions_open",
		Help:      "Order sessions currently open.",
	})
)

func init() {
	prometheus.MustRegister(submissionsTotal, sessionsOpen)
}
