package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestLoginsCounter(t *testing.T) {
	before := testutil.ToFloat64(LoginsTotal.WithLabelValues(LoginSuccess))
	LoginsTotal.WithLabelValues(LoginSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LoginsTotal.WithLabelValues(LoginSuccess)))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	Init()
	SignupsTotal.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenant_portal_signups_total")
}
