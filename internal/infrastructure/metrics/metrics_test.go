package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/domain/settlement"
)

func TestMetrics_ObserveSettlement(t *testing.T) {
	m := New("coop_test")

	res := &settlement.Result{
		OrderNumber: "ORD-1",
		Lines: []settlement.LineResult{
			{LineID: 1, Decremented: 1, OutOfStock: true},
			{LineID: 2, StockUpdateError: settlement.ProductNotFoundWarning},
			{ErrorCode: "PERSISTENCE_FAILURE", Error: "db down"},
		},
	}
	m.ObserveSettlement(res, 20*time.Millisecond)
	m.ObserveReplay()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersSettled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderLines.WithLabelValues(OutcomeSettled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderLines.WithLabelValues(OutcomeWarning)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderLines.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutOfStock))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Replays))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("coop_test")
	m.RecordHTTPRequest(http.MethodGet, "/api/v1/ledger", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coop_test_http_requests_total")
}
