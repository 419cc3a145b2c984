package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/coinflipper/login-service/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Login flow

	LinksIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "login",
		Name:      "links_issued_total",
		Help:      "Magic links created and emailed.",
	})

	LinksConsumedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "login",
		Name:      "links_consumed_total",
		Help:      "Magic links successfully exchanged for a session.",
	})

	SessionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "login",
		Name:      "sessions_created_total",
		Help:      "Sessions minted from consumed links.",
	})

	SessionsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "login",
		Name:      "sessions_deleted_total",
		Help:      "Sessions removed, by cause.",
	}, []string{"cause"}) // logout, logout_all, admin, cleanup

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "login",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "login",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LinksIssuedTotal,
		LinksConsumedTotal,
		SessionsCreatedTotal,
		SessionsDeletedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness/readiness probes on a port
// separate from the public surface.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
