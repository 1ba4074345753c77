package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func TestObserveOperation(t *testing.T) {
	m := New(fixedCounter(0))

	m.ObserveOperation("create", ResultOK)
	m.ObserveOperation("create", ResultOK)
	m.ObserveOperation("create", ResultDuplicate)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", ResultDuplicate)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("list", ResultOK)
		m.ObserveRequest(http.MethodGet, "/persons", "200", time.Millisecond)
	})
}

func TestHandlerExposesRecordsGauge(t *testing.T) {
	m := New(fixedCounter(52))
	m.ObserveRequest(http.MethodGet, "/persons", "200", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "persons_registry_records 52")
	assert.Contains(t, body, `persons_http_requests_total{method="GET",route="/persons",status="200"} 1`)
}
