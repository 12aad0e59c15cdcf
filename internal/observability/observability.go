// Package observability provides logging and metrics for the exposure engine.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewLogger builds a zap logger from the configured level and format.
func NewLogger(level, format string) (*zap.Logger, error) {
	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Metrics holds Prometheus metrics for the engine.
type Metrics struct {
	registry *prometheus.Registry

	// Signal pipeline metrics
	BundlesBuilt   *prometheus.CounterVec
	SignalsEmitted *prometheus.CounterVec

	// Risk index metrics
	RiskIndexesComputed prometheus.Counter
	RiskIndexScore      prometheus.Histogram

	// API metrics
	RequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BundlesBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_bundles_built_total",
			Help: "Signal bundles generated, by platform",
		}, []string{"platform"}),
		SignalsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_signals_emitted_total",
			Help: "Signals emitted by platform and category",
		}, []string{"platform", "category"}),
		RiskIndexesComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "exposure_risk_indexes_computed_total",
			Help: "Predictive risk indexes computed",
		}),
		RiskIndexScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exposure_risk_index_score",
			Help:    "Distribution of computed risk index scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exposure_http_requests_total",
			Help: "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}

// Handler returns the /metrics HTTP handler for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
