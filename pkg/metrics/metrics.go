// Package metrics expone los colectores Prometheus del servicio en un registry propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de una operación de store.
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultUnavailable = "unavailable"
)

// Backends del store.
const (
	BackendPrimary  = "primary"
	BackendFallback = "fallback"
)

var (
	// Registry contiene los colectores de la aplicación.
	Registry = prometheus.NewRegistry()

	storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clocwise",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Operaciones de repositorio por backend y resultado.",
		},
		[]string{"backend", "operation", "result"},
	)

	primaryUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clocwise",
			Subsystem: "store",
			Name:      "primary_up",
			Help:      "1 si el store primario respondió la última operación, 0 si está caído.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clocwise",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clocwise",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		storeOperations,
		primaryUp,
		httpRequests,
		httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler devuelve el endpoint HTTP de scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordStoreOperation cuenta una operación de repositorio.
func RecordStoreOperation(backend, operation, result string) {
	storeOperations.WithLabelValues(backend, operation, result).Inc()
}

// SetPrimaryUp refleja el estado del store primario.
func SetPrimaryUp(up bool) {
	if up {
		primaryUp.Set(1)
		return
	}
	primaryUp.Set(0)
}

// RecordHTTPRequest registra una petición HTTP terminada.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
