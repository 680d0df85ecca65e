package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "endcode"

// Result labels for codec operations.
const (
	ResultOK     = "ok"
	ResultError  = "error"
	ResultLimit  = "limit"
	ResultReject = "rejected"
)

var (
	registry = prometheus.NewRegistry()

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of codec operations by operation, format and result.",
	}, []string{"operation", "format", "result"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of codec operations by operation and format.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation", "format"})

	detectCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "detect_candidates",
		Help:      "Number of candidates returned per detection.",
		Buckets:   prometheus.LinearBuckets(0, 1, 16),
	})

	rpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of gRPC requests by method and status code.",
	}, []string{"method", "code"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code.",
	}, []string{"route", "code"})
)

func init() {
	registry.MustRegister(
		operations,
		operationDuration,
		detectCandidates,
		rpcRequests,
		httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler exposes the metrics registry as an http.Handler compatible with Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors are registered with.
func Registry() *prometheus.Registry {
	return registry
}

func labelOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

// ObserveOperation counts one encode, decode, detect or pipeline call and
// records its latency.
func ObserveOperation(operation, format, result string, dur time.Duration) {
	operation = labelOr(strings.ToLower(operation), "unknown")
	format = labelOr(format, "none")
	operations.WithLabelValues(operation, format, labelOr(result, ResultOK)).Inc()
	operationDuration.WithLabelValues(operation, format).Observe(dur.Seconds())
}

// ObserveDetectCandidates records how many candidates a detection produced.
func ObserveDetectCandidates(n int) {
	detectCandidates.Observe(float64(n))
}

// RecordRPCRequest counts a gRPC call by full method name and status code.
func RecordRPCRequest(method, code string) {
	rpcRequests.WithLabelValues(labelOr(method, "unknown"), labelOr(code, "Unknown")).Inc()
}

// RecordHTTPRequest counts an HTTP request by route and status code.
func RecordHTTPRequest(route string, status int) {
	httpRequests.WithLabelValues(labelOr(route, "unmatched"), strconv.Itoa(status)).Inc()
}
