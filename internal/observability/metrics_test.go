package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAPI("GET", "/healthz", "200", time.Millisecond)
		m.IncPrediction("positive")
		m.IncEncoderFallback("work_type")
		m.SetModelLoaded(true)
		m.ObserveGeneration("advice", "ok", time.Second)
		m.ApiInflightInc()
		m.ApiInflightDec()
	})
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.IncPrediction("positive")
	m.IncPrediction("positive")
	m.IncEncoderFallback("work_type")
	m.SetModelLoaded(true)
	m.ObserveGeneration("fact", "upstream_error", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelLoaded))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `strokeguard_encoder_fallbacks_total{column="work_type"} 1`)
	assert.Contains(t, body, `strokeguard_generation_requests_total{kind="fact",outcome="upstream_error"} 1`)
}
