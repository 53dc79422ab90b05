package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/logs"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/storage/jsonfile"
)

func newTestLogsHandler(t *testing.T) *LogsHandler {
	t.Helper()
	logger := arbor.NewNoOpLogger()
	storage := jsonfile.NewLogStorage(filepath.Join(t.TempDir(), "logs.json"), logger)
	clock := func() time.Time { return time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local) }
	return NewLogsHandler(logs.NewService(storage, clock, logger), logger)
}

func TestLogsHandler_CollectListStats(t *testing.T) {
	h := newTestLogsHandler(t)

	body := `[
		{"message": "Database failed: timeout", "type": "ERROR", "timestamp": "2025-01-01T10:00:00Z", "responseTime": 300},
		{"message": "User logged in", "level": "info", "timestamp": "2025-01-01T11:00:00Z"},
		{"level": "warn"}
	]`
	rec := httptest.NewRecorder()
	h.CollectHandler(rec, httptest.NewRequest(http.MethodPost, "/api/logs/collect", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var collect struct {
		Success    bool `json:"success"`
		SavedCount int  `json:"savedCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collect))
	assert.True(t, collect.Success)
	assert.Equal(t, 2, collect.SavedCount, "records without a message are dropped")

	rec = httptest.NewRecorder()
	h.ListHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/list?logType=error&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.LogPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 10, page.Limit)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "Database failed: timeout", page.Logs[0].Message)

	rec = httptest.NewRecorder()
	h.StatsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.LogStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalLogs)
	assert.Equal(t, int64(300), stats.ResponseTime.Average)
}

func TestLogsHandler_Upload(t *testing.T) {
	h := newTestLogsHandler(t)

	content := "[2025-01-01 10:00:00] ERROR: Connection failed, took 1200ms\n" +
		"[2025-01-01 10:00:01] WARN: Slow query\n\n" +
		"[2025-01-01 10:00:02] INFO: started\n"
	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartRequest(t, "/api/logs/upload", "file", "app.log", []byte(content), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.SavedCount)
	assert.Equal(t, 1, result.Counts[models.LogTypeError])
	assert.Equal(t, 1, result.Counts[models.LogTypeWarning])
}

func TestLogsHandler_UploadErrors(t *testing.T) {
	h := newTestLogsHandler(t)

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartRequest(t, "/api/logs/upload", "file", "empty.log", []byte("  \n\t\n"), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UploadHandler(rec, multipartRequest(t, "/api/logs/upload", "", "", nil, map[string]string{"other": "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "파일이 필요합니다.", decodeError(t, rec).Error)
}

func TestLogsHandler_Export(t *testing.T) {
	h := newTestLogsHandler(t)

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "empty export is 404")

	rec = httptest.NewRecorder()
	h.CollectHandler(rec, httptest.NewRequest(http.MethodPost, "/api/logs/collect",
		strings.NewReader(`{"message": "He said \"hi\"", "timestamp": "2025-01-01T10:00:00Z"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"logs-")
	assert.Contains(t, rec.Body.String(), `"He said ""hi"""`)
}

func TestLogsHandler_InvalidFilterAndClear(t *testing.T) {
	h := newTestLogsHandler(t)

	rec := httptest.NewRecorder()
	h.ListHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/list?startDate=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid startDate", decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	h.StatsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/logs/stats?logType=fatal", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ClearHandler(rec, httptest.NewRequest(http.MethodPost, "/api/logs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ClearHandler(rec, httptest.NewRequest(http.MethodDelete, "/api/logs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
