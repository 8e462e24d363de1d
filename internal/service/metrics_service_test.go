package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceBackendCalls(t *testing.T) {
	m := NewMetricsService()

	m.ObserveBackendCall("fetch users", http.StatusOK, 10*time.Millisecond)
	m.ObserveBackendCall("fetch users", 0, time.Millisecond)
	m.ObserveBackendCall("fetch users", 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendTotal.WithLabelValues("fetch users", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendTotal.WithLabelValues("fetch users", "transport_error")))
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/users-list", http.StatusOK, time.Millisecond)
	m.RecordNotification()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/users-list",status="200"} 1`)
	assert.Contains(t, body, "console_notifications_total 1")
	assert.Contains(t, body, "goroutines_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveBackendCall("delete user", http.StatusOK, time.Millisecond)
		m.RecordNotification()
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
