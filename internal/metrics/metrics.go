package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docscan_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docscan_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path", "status"})

	scanCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docscan_scans_total",
		Help: "Total number of processed scans.",
	}, []string{"result"})

	ocrDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docscan_ocr_duration_seconds",
		Help:    "OCR service call duration in seconds.",
		Buckets: []float64{0.1, 0.5, 1, 2, 3, 5, 10, 15, 20, 30},
	})

	optimizerFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docscan_optimizer_fallbacks_total",
		Help: "Number of scans where image optimization fell back to the original image.",
	})
)

// Middleware records per-request counters and latency, labeled by the
// registered route path to keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unknown"
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			requestCounter.WithLabelValues(labels...).Inc()
			requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordScan counts a scan pipeline outcome ("ok" or "error").
func RecordScan(result string) {
	scanCounter.WithLabelValues(result).Inc()
}

// RecordOCRDuration records one OCR service round trip.
func RecordOCRDuration(duration time.Duration) {
	ocrDuration.Observe(duration.Seconds())
}

// RecordOptimizerFallback counts an optimization that returned the
// original image.
func RecordOptimizerFallback() {
	optimizerFallbacks.Inc()
}
