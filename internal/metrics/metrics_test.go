package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empregol-backend/internal/status"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ApplicationCreated()
	m.ApplicationCreated()
	m.StatusChanged(status.Interview)
	m.SavedJobToggled(true)
	m.SavedJobToggled(false)
	m.SavedJobToggled(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("entrevista")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("aprovado")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SavedJobToggles.WithLabelValues("saved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SavedJobToggles.WithLabelValues("unsaved")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ApplicationCreated()
		m.StatusChanged(status.Approved)
		m.SavedJobToggled(true)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.StatusChanged(status.Rejected)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `empregol_application_status_changes_total{status="recusada"} 1`)
	assert.Contains(t, body, `empregol_application_status_changes_total{status="enviada"} 0`)
	assert.Contains(t, body, "go_goroutines")
}
