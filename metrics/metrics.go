// Package metrics exposes Prometheus collectors for commits and action
// executions. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Commit outcomes.
const (
	StatusCommitted = "committed"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

// Poll results.
const (
	PollPending   = "pending"
	PollSuccess   = "success"
	PollRejected  = "rejected"
	PollTransient = "transient"
)

type Metrics struct {
	commitsTotal      *prometheus.CounterVec
	commitDuration    prometheus.Histogram
	checkpointHeight  prometheus.Gauge
	executionsTotal   *prometheus.CounterVec
	rowsTotal         *prometheus.CounterVec
	pollsTotal        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "kwilsquid_commits_total", Help: "Commit attempts by outcome"},
			[]string{"status"},
		),
		commitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "kwilsquid_commit_duration_seconds", Help: "Commit latency", Buckets: prometheus.DefBuckets},
		),
		checkpointHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "kwilsquid_checkpoint_height", Help: "Height of the last persisted checkpoint"},
		),
		executionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "kwilsquid_action_executions_total", Help: "Action executions by outcome"},
			[]string{"action", "status"},
		),
		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "kwilsquid_action_rows_total", Help: "Rows confirmed by the remote database"},
			[]string{"action"},
		),
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "kwilsquid_tx_polls_total", Help: "Transaction status queries by result"},
			[]string{"action", "result"},
		),
		executionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "kwilsquid_action_duration_seconds", Help: "Broadcast to confirmation latency", Buckets: prometheus.DefBuckets},
			[]string{"action"},
		),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.commitsTotal, m.commitDuration, m.checkpointHeight,
		m.executionsTotal, m.rowsTotal, m.pollsTotal, m.executionDuration,
	}
}

// ObserveCommit records one commit attempt.
func (m *Metrics) ObserveCommit(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.commitsTotal.WithLabelValues(status).Inc()
	m.commitDuration.Observe(d.Seconds())
}

// SetCheckpoint records the persisted height.
func (m *Metrics) SetCheckpoint(height int64) {
	if m == nil {
		return
	}
	m.checkpointHeight.Set(float64(height))
}

// ObserveExecution records one action execution of rows inputs.
func (m *Metrics) ObserveExecution(action, status string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.executionsTotal.WithLabelValues(action, status).Inc()
	m.executionDuration.WithLabelValues(action).Observe(d.Seconds())
	if status == StatusCommitted {
		m.rowsTotal.WithLabelValues(action).Add(float64(rows))
	}
}

// ObservePoll records one transaction status query.
func (m *Metrics) ObservePoll(action, result string) {
	if m == nil {
		return
	}
	m.pollsTotal.WithLabelValues(action, result).Inc()
}
