package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "knowledgebase"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Accepted searches by search type",
		},
		[]string{"search_type"},
	)

	searchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of matches per accepted search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"search_type"},
	)

	rejectedSearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_searches_total",
			Help:      "Searches rejected for carrying neither query text nor filters",
		},
	)

	documentsAddedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_added_total",
			Help:      "Documents submitted, by surface (api or demo page)",
		},
		[]string{"surface"},
	)

	activeSessions = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "demo_sessions",
			Help:      "Live demo page sessions",
		},
		func() float64 { return float64(sessionCount()) },
	)
)

var sessionCount = func() int { return 0 }

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(searchesTotal)
	prometheus.MustRegister(searchResults)
	prometheus.MustRegister(rejectedSearchesTotal)
	prometheus.MustRegister(documentsAddedTotal)
	prometheus.MustRegister(activeSessions)
}

// Middleware records HTTP request duration and count.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		// Use the gin route pattern for path normalization
		path := normalizePath(c.FullPath())
		method := c.Request.Method

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func ObserveSearch(searchType string, matches int) {
	if searchType == "" {
		searchType = "combined"
	}
	searchesTotal.WithLabelValues(searchType).Inc()
	searchResults.WithLabelValues(searchType).Observe(float64(matches))
}

func ObserveRejectedSearch() {
	rejectedSearchesTotal.Inc()
}

func ObserveDocumentAdded(surface string) {
	documentsAddedTotal.WithLabelValues(surface).Inc()
}

// TrackSessions makes the demo session gauge read from count.
func TrackSessions(count func() int) {
	sessionCount = count
}

// normalizePath normalizes paths to prevent high cardinality in metrics labels.
func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}
