package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/logs"
	"github.com/ternarybob/officeflow/internal/models"
)

// LogsHandler serves log ingestion, listing, statistics and export
type LogsHandler struct {
	service LogService
	logger  arbor.ILogger
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(service LogService, logger arbor.ILogger) *LogsHandler {
	return &LogsHandler{
		service: service,
		logger:  logger,
	}
}

// CollectHandler handles POST /api/logs/collect - a single record or an array of records
func (h *LogsHandler) CollectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inputs, err := logs.DecodeCollectPayload(body)
	if err != nil {
		WriteServiceError(w, h.logger, err, "로그 수집 중 오류가 발생했습니다.")
		return
	}

	saved, err := h.service.Collect(r.Context(), inputs)
	if err != nil {
		WriteServiceError(w, h.logger, err, "로그 수집 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    fmt.Sprintf("%d개의 로그 항목이 수집되었습니다.", saved),
		"savedCount": saved,
	})
}

// UploadHandler handles POST /api/logs/upload - multipart "file" of raw log lines
func (h *LogsHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fileName, data, err := ReadUploadedFile(w, r, "file")
	if err != nil {
		WriteServiceError(w, h.logger, err, "로그 업로드 중 오류가 발생했습니다.")
		return
	}

	result, err := h.service.Upload(r.Context(), fileName, data)
	if err != nil {
		WriteServiceError(w, h.logger, err, "로그 업로드 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// ListHandler handles GET /api/logs/list - filtered, newest first, limit (default 100) / offset
func (h *LogsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	limit, offset := GetLimitOffset(r, logs.DefaultListLimit)

	page, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		WriteServiceError(w, h.logger, err, "로그 조회 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// StatsHandler handles GET /api/logs/stats
func (h *LogsHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, h.logger, err, "통계 조회 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// ExportHandler handles GET /api/logs/export - CSV download, 404 when nothing matches
func (h *LogsHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportCSV(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, h.logger, err, "CSV 내보내기 중 오류가 발생했습니다.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachmentHeader(fmt.Sprintf("logs-%d.csv", time.Now().UnixMilli())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write CSV export")
	}
}

// ClearHandler handles DELETE /api/logs
func (h *LogsHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.service.Clear(r.Context()); err != nil {
		WriteServiceError(w, h.logger, err, "로그 삭제 중 오류가 발생했습니다.")
		return
	}

	h.logger.Info().Msg("All logs cleared")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "로그가 삭제되었습니다.",
	})
}

func (h *LogsHandler) parseFilter(w http.ResponseWriter, r *http.Request) (models.LogFilter, bool) {
	q := r.URL.Query()
	filter, err := logs.ParseFilter(q.Get("startDate"), q.Get("endDate"), q.Get("logType"), q.Get("keyword"))
	if err != nil {
		WriteServiceError(w, h.logger, err, "잘못된 필터입니다.")
		return filter, false
	}
	return filter, true
}
