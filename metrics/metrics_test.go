package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveCommit(StatusCommitted, 20*time.Millisecond)
	m.ObserveCommit(StatusFailed, time.Millisecond)
	m.SetCheckpoint(42)
	m.ObserveExecution("add_records", StatusCommitted, 1000, time.Second)
	m.ObserveExecution("add_records", StatusRejected, 5, time.Second)
	m.ObservePoll("add_records", PollPending)
	m.ObservePoll("add_records", PollPending)
	m.ObservePoll("add_records", PollSuccess)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commitsTotal.WithLabelValues(StatusCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commitsTotal.WithLabelValues(StatusFailed)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.checkpointHeight))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.rowsTotal.WithLabelValues("add_records")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pollsTotal.WithLabelValues("add_records", PollPending)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.commitDuration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommit(StatusCommitted, time.Second)
		m.SetCheckpoint(1)
		m.ObserveExecution("a", StatusCommitted, 1, time.Second)
		m.ObservePoll("a", PollSuccess)
	})
}
