package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gamblebench_rounds_total", Help: "Rounds by status (settled, skipped, failed)"},
		[]string{"status"},
	)
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gamblebench_evaluations_total", Help: "Strategy evaluations by verdict"},
		[]string{"verdict"},
	)
	LastBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "gamblebench_last_balance", Help: "Final balance of the most recent trajectory"},
	)
)

func init() {
	prometheus.MustRegister(RoundsTotal, EvaluationsTotal, LastBalance)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
