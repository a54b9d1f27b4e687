package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mailscope/internal/mail"
)

const namespace = "mailscope"

// Metrics holds the indexer collectors on a private registry. A nil *Metrics
// accepts every call and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	blocks         prometheus.Counter
	skippedSlots   prometheus.Counter
	transactions   *prometheus.CounterVec
	payloads       *prometheus.CounterVec
	rows           *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	lastSlot       prometheus.Gauge
	rpcDuration    *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_processed_total",
			Help:      "Blocks decoded",
		}),
		skippedSlots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_skipped_total",
			Help:      "Slots without a block",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions seen by status",
		}, []string{"status"}),
		payloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_total",
			Help:      "Program payloads by outcome",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_emitted_total",
			Help:      "Rows emitted by table",
		}, []string{"table"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Payloads that matched a tag but failed to decode",
		}, []string{"record_type", "source"}),
		lastSlot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_processed_slot",
			Help:      "Highest slot decoded",
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
	}
	m.registry.MustRegister(
		m.blocks, m.skippedSlots, m.transactions, m.payloads, m.rows,
		m.decodeFailures, m.lastSlot, m.rpcDuration,
	)
	return m
}

// Registry exposes the underlying registry for handlers and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveBlock records the outcome of one processed block.
func (m *Metrics) ObserveBlock(result mail.BlockResult) {
	if m == nil {
		return
	}
	m.blocks.Inc()
	m.lastSlot.Set(float64(result.Slot))

	s := result.Stats
	m.transactions.WithLabelValues("ok").Add(float64(s.Transactions - s.FailedTransactions))
	m.transactions.WithLabelValues("failed").Add(float64(s.FailedTransactions))
	m.payloads.WithLabelValues("decoded").Add(float64(s.Decoded))
	m.payloads.WithLabelValues("skipped").Add(float64(s.Skipped))
	m.payloads.WithLabelValues("failed").Add(float64(s.Failed))

	for _, row := range result.Rows {
		m.rows.WithLabelValues(row.Table).Inc()
	}
	for _, f := range result.Failures {
		m.decodeFailures.WithLabelValues(string(f.RecordType), string(f.Source)).Inc()
	}
}

// ObserveSkippedSlot counts a slot that has no block.
func (m *Metrics) ObserveSkippedSlot() {
	if m == nil {
		return
	}
	m.skippedSlots.Inc()
}

// ObserveRPC matches chain.Observer.
func (m *Metrics) ObserveRPC(method string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.rpcDuration.WithLabelValues(method, outcome).Observe(elapsed.Seconds())
}

// Serve exposes /metrics and /healthz on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, m *Metrics, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server start", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
