package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookcatalog"

// Import outcomes.
const (
	ImportCreated  = "created"
	ImportExisting = "existing"
	ImportNotFound = "not_found"
	ImportFailed   = "failed"
)

var (
	registerOnce sync.Once

	importsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imports_total",
		Help:      "Total number of book imports by result",
	}, []string{"result"})
	importDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_duration_seconds",
		Help:      "Histogram of book import durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	})
	sourceRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_requests_total",
		Help:      "Requests sent to the external book source by status code",
	}, []string{"code"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by method and status code",
	}, []string{"method", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	booksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "books_total",
		Help:      "Total number of books last reported by the health check",
	})
	authorsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "authors_total",
		Help:      "Total number of authors last reported by the health check",
	})
)

// Register adds the collectors to the default registry (idempotent).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(importsTotal, importDuration, sourceRequests,
			httpRequests, httpDuration, booksGauge, authorsGauge)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncImport(result string)                 { importsTotal.WithLabelValues(result).Inc() }
func ObserveImportDuration(d time.Duration)   { importDuration.Observe(d.Seconds()) }
func IncSourceRequest(code int)               { sourceRequests.WithLabelValues(strconv.Itoa(code)).Inc() }
func SetBooks(n int)                          { booksGauge.Set(float64(n)) }
func SetAuthors(n int)                        { authorsGauge.Set(float64(n)) }
func ObserveHTTP(method string, code int, d time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		ObserveHTTP(r.Method, rec.code, time.Since(start))
	})
}
