package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TrendQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "babynames_trend_query_duration_seconds",
			Help:    "Trend query processing duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"metric"},
	)

	TrendQueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babynames_trend_query_total",
			Help: "Total number of trend queries processed",
		},
		[]string{"status"},
	)

	TrendSeriesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "babynames_trend_series_returned",
			Help:    "Number of series returned per trend query",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	PredictionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babynames_prediction_total",
			Help: "Total predictions served by label",
		},
		[]string{"label"},
	)

	PredictionProbability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "babynames_prediction_probability",
			Help:    "Positive class probability of served predictions",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ArtifactLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "babynames_artifact_load_duration_seconds",
			Help:    "Time spent deserializing model artifacts",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"artifact", "status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babynames_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babynames_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "babynames_dataset_rows",
			Help: "Rows held in the loaded dataset",
		},
	)

	HistoryWriteErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "babynames_history_write_errors_total",
			Help: "Failed writes to the request history store",
		},
		[]string{"table"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Calling it more
// than once is a no-op.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			TrendQueryDuration,
			TrendQueryTotal,
			TrendSeriesReturned,
			PredictionTotal,
			PredictionProbability,
			ArtifactLoadDuration,
			CacheHits,
			CacheMisses,
			DatasetRows,
			HistoryWriteErrors,
		)
	})
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
