package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_PrivateRegistries(t *testing.T) {
	// Two collectors with the same namespace must not collide when each has its
	// own registry.
	first := NewCollector("samarth", prometheus.NewRegistry())
	second := NewCollector("samarth", prometheus.NewRegistry())

	first.RecordAnswer("result_ready")
	second.RecordAnswer("model_error")

	assert.Equal(t, 1.0, testutil.ToFloat64(first.AnswersTotal.WithLabelValues("result_ready")))
	assert.Equal(t, 0.0, testutil.ToFloat64(first.AnswersTotal.WithLabelValues("model_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.AnswersTotal.WithLabelValues("model_error")))
}

func TestCollector_Recorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("samarth", reg)

	c.RecordFetchError("network")
	c.RecordFetchError("network")
	c.RecordModelRequest("error")
	c.RecordDBError("query_error")
	c.RecordAPIRequest("/api/ask", "POST", "200")
	c.CacheHitsTotal.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.FetchErrorsTotal.WithLabelValues("network")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ModelRequestsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBErrorsTotal.WithLabelValues("query_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.APIRequestsTotal.WithLabelValues("/api/ask", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHitsTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestTimer_ObserveDuration(t *testing.T) {
	c := NewNopCollector()
	timer := c.NewTimer(c.ModelDuration)
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, int64(d), int64(0))

	// nil observer is tolerated
	assert.GreaterOrEqual(t, int64((&Timer{}).ObserveDuration()), int64(0))
}
