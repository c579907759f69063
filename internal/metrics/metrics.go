// Package metrics exposes prometheus counters for the signal pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals processed, by outcome"},
		[]string{"outcome"},
	)
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_submitted_total", Help: "Orders accepted by the exchange"},
		[]string{"coin", "side"},
	)
	RoundingRetries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "rounding_retries_total", Help: "Order resubmissions after a rounding rejection"},
	)
)

func init() {
	prometheus.MustRegister(SignalsTotal, OrdersSubmitted, RoundingRetries)
}

// Serve starts the /metrics endpoint in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
