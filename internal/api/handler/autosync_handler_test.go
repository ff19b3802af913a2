package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/reconciler"
)

// Intervals are hour-scale so no cycle ever fires during a test; the
// monitor's ledger and order dependencies are never touched.
func newTestMonitorForHandler(t *testing.T) *reconciler.Monitor {
	t.Helper()
	monitor := reconciler.NewMonitor(testHandlerLogger(), nil, nil,
		&config.ReconcilerConfig{DefaultInterval: time.Hour, OrderBatchSize: 100},
		&config.LedgerConfig{Timezone: "UTC", BaseCurrency: "USD", OpeningBalance: "0"})
	t.Cleanup(monitor.StopAll)
	return monitor
}

func postAutoSync(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAutoSyncHandler_StartStopStatus(t *testing.T) {
	logger := testHandlerLogger()

	t.Run("StartReportsRunning", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.POST("/auto-sync/start", handler.Start)

		rr := postAutoSync(t, router, "/auto-sync/start", StartAutoSyncRequest{ClientID: 1, IntervalSeconds: 7200})

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[AutoSyncStatusResponse](t, rr.Body.Bytes())
		assert.True(t, responseBody.IsRunning)
		assert.Equal(t, 7200, responseBody.IntervalSeconds)
		assert.NotEmpty(t, responseBody.StartedAt)
		assert.Empty(t, responseBody.LastCheck)
		assert.Zero(t, responseBody.IssuesFound)
	})

	t.Run("SecondStartIsNoOp", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.POST("/auto-sync/start", handler.Start)

		first := decodeData[AutoSyncStatusResponse](t,
			postAutoSync(t, router, "/auto-sync/start", StartAutoSyncRequest{ClientID: 1, IntervalSeconds: 7200}).Body.Bytes())
		second := decodeData[AutoSyncStatusResponse](t,
			postAutoSync(t, router, "/auto-sync/start", StartAutoSyncRequest{ClientID: 1, IntervalSeconds: 30}).Body.Bytes())

		assert.Equal(t, first.StartedAt, second.StartedAt)
		assert.Equal(t, 7200, second.IntervalSeconds)
	})

	t.Run("OmittedIntervalUsesDefault", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.POST("/auto-sync/start", handler.Start)

		rr := postAutoSync(t, router, "/auto-sync/start", StartAutoSyncRequest{ClientID: 1})

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[AutoSyncStatusResponse](t, rr.Body.Bytes())
		assert.Equal(t, 3600, responseBody.IntervalSeconds)
	})

	t.Run("StopHaltsTheLoop", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.POST("/auto-sync/start", handler.Start)
		router.POST("/auto-sync/stop", handler.Stop)

		postAutoSync(t, router, "/auto-sync/start", StartAutoSyncRequest{ClientID: 1, IntervalSeconds: 7200})
		rr := postAutoSync(t, router, "/auto-sync/stop", StopAutoSyncRequest{ClientID: 1})

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[AutoSyncStatusResponse](t, rr.Body.Bytes())
		assert.False(t, responseBody.IsRunning)
	})

	t.Run("StatusOfUnknownTenant", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.GET("/auto-sync/status", handler.Status)

		req, _ := http.NewRequest(http.MethodGet, "/auto-sync/status?client_id=42", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[AutoSyncStatusResponse](t, rr.Body.Bytes())
		assert.Equal(t, int64(42), responseBody.ClientID)
		assert.False(t, responseBody.IsRunning)
		assert.Empty(t, responseBody.StartedAt)
	})

	t.Run("MissingClientID", func(t *testing.T) {
		handler := NewAutoSyncHandler(logger, newTestMonitorForHandler(t))
		router := setupTestRouter()
		router.GET("/auto-sync/status", handler.Status)

		req, _ := http.NewRequest(http.MethodGet, "/auto-sync/status", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
