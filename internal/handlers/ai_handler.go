package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
)

// AIHandler serves document summaries, operations reports and summary PDF export
type AIHandler struct {
	service SummaryService
	logger  arbor.ILogger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(service SummaryService, logger arbor.ILogger) *AIHandler {
	return &AIHandler{
		service: service,
		logger:  logger,
	}
}

// SummarizeHandler handles POST /api/ai/summarize - multipart "file" plus "summaryType"
func (h *AIHandler) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fileName, data, err := ReadUploadedFile(w, r, "file")
	if err != nil {
		WriteServiceError(w, h.logger, err, "AI 요약 생성 중 오류가 발생했습니다.")
		return
	}

	result, err := h.service.Summarize(r.Context(), fileName, data, r.FormValue("summaryType"))
	if err != nil {
		WriteServiceError(w, h.logger, err, "AI 요약 생성 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// GenerateReportHandler handles POST /api/ai/generate-report {startDate, endDate}
func (h *AIHandler) GenerateReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, h.logger, err, "운영 리포트 생성 중 오류가 발생했습니다.")
		return
	}

	report, err := h.service.GenerateReport(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		WriteServiceError(w, h.logger, err, "운영 리포트 생성 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// SavePDFHandler handles POST /api/ai/save-pdf {summary, title} and returns the PDF
func (h *AIHandler) SavePDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Summary string `json:"summary"`
		Title   string `json:"title"`
	}
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, h.logger, err, "PDF 저장 중 오류가 발생했습니다.")
		return
	}

	data, err := h.service.SavePDF(req.Summary, req.Title)
	if err != nil {
		WriteServiceError(w, h.logger, err, "PDF 저장 중 오류가 발생했습니다.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachmentHeader("summary.pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write summary PDF")
	}
}
