package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProvider(t *testing.T) {
	m := New()

	m.ObserveProvider("skyscrapper", "searchAirport", OutcomeOK, time.Now())
	m.ObserveProvider("skyscrapper", "searchAirport", OutcomeNotFound, time.Now())
	m.ObserveProvider("skyscrapper", "searchAirport", OutcomeOK, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("skyscrapper", "searchAirport", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("skyscrapper", "searchAirport", OutcomeNotFound)))
}

func TestObserveProviderNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveProvider("chat", "completion", OutcomeError, time.Now())
	})
}

func TestHandlerExposesInstruments(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flightchat_http_requests_total")
}
