package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.CommitFinished("success")
	r.CommitFinished("success")
	r.CommitFinished("stale_selection")
	r.OrphansReconciled(3)
	r.OrphansReconciled(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.commits.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commits.WithLabelValues("stale_selection")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.reconciled))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `booking_commits_total{outcome="success"} 2`)
	assert.Contains(t, string(body), "booking_orphans_reconciled_total 3")
}
