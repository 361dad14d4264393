package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Prometheus Metrics Definition
var (
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_ingest_queue_depth",
		Help: "Current number of events waiting in the ingest queue.",
	})
	queueCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_ingest_queue_capacity",
		Help: "Fixed capacity of the ingest queue.",
	})
	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streampulse_events_processed_total",
		Help: "Total number of events folded into the accumulators.",
	})
	batchesFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streampulse_batches_flushed_total",
		Help: "Total number of batches aggregated.",
	})
	clockAnomalies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_clock_anomalies_total",
		Help: "Total number of negative latencies clamped to zero.",
	})
	distinctEstimate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_distinct_keys_estimate",
		Help: "Approximate number of distinct keys seen since start.",
	})
	valueMean = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_value_mean",
		Help: "Running mean of event values since start.",
	})
	valueVariance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streampulse_value_variance",
		Help: "Running sample variance of event values since start.",
	})
	latencyQuantileMs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streampulse_latency_window_quantile_ms",
			Help: "Latency percentile in ms over the bounded latency window.",
		},
		[]string{"quantile"},
	)
)

// MetricsServer exposes the Prometheus registry over HTTP.
type MetricsServer struct {
	server *http.Server
	logger *zap.Logger
}

// NewMetricsServer builds a /metrics listener on the given address.
func NewMetricsServer(addr string, logger *zap.Logger) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &MetricsServer{
		server: &http.Server{Addr: addr, Handler: mux},
		logger: logger,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (m *MetricsServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		m.logger.Info("Metrics server listening", zap.String("addr", m.server.Addr))
		errCh <- m.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			m.logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
