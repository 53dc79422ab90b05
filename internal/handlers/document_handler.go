package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/services/documents"
)

const documentsPrefix = "/api/documents/"

// DocumentHandler serves template PDF generation and history
type DocumentHandler struct {
	service DocumentService
	logger  arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service DocumentService, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateHandler handles POST /api/documents/generate - multipart "file" plus "template"
func (h *DocumentHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fileName, data, err := ReadUploadedFile(w, r, "file")
	if err != nil {
		WriteServiceError(w, h.logger, err, "PDF 생성 중 오류가 발생했습니다.")
		return
	}

	record, err := h.service.Generate(r.Context(), &documents.GenerateRequest{
		TemplateID: strings.TrimSpace(r.FormValue("template")),
		FileName:   fileName,
		Data:       data,
		CreatedBy:  strings.TrimSpace(r.FormValue("createdBy")),
	})
	if err != nil {
		WriteServiceError(w, h.logger, err, "PDF 생성 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "PDF가 생성되었습니다.",
		"pdfUrl":   record.PDFURL,
		"document": record,
	})
}

// HistoryHandler handles GET /api/documents/history?templateId=
func (h *DocumentHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	history, err := h.service.History(r.Context(), r.URL.Query().Get("templateId"))
	if err != nil {
		WriteServiceError(w, h.logger, err, "문서 이력 조회 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, history)
}

// TemplatesHandler handles GET /api/documents/templates
func (h *DocumentHandler) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.service.Templates())
}

// PDFHandler handles GET /api/documents/{id}/pdf
func (h *DocumentHandler) PDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	segments := PathSegments(r, documentsPrefix)
	if len(segments) != 2 || segments[1] != "pdf" {
		WriteError(w, http.StatusNotFound, "Not Found")
		return
	}

	record, data, err := h.service.OpenPDF(r.Context(), segments[0])
	if err != nil {
		WriteServiceError(w, h.logger, err, "PDF 조회 중 오류가 발생했습니다.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachmentHeader(record.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn().Err(err).Str("id", record.ID).Msg("Failed to write PDF response")
	}
}
