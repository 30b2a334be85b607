package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/v1/core/addresses", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/core/addresses", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/core/addresses", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordWrite(t *testing.T) {
	m := New()
	m.RecordWrite("venues", "create")
	m.RecordWrite("venues", "create")
	m.RecordWrite("venues", "delete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.writes.WithLabelValues("venues", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("venues", "delete")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordWrite("seasons", "update")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sportsclub_store_entity_writes_total{op="update",table="seasons"} 1`)
}
