package server

import (
	"net/http"
	"strings"
)

const (
	remindersPrefix = "/api/reminders/"
	documentsPrefix = "/api/documents/"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route - live stream of newly stored log entries
	mux.HandleFunc("/ws/logs", s.app.LogStream.HandleWebSocket)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// API routes - Logs
	mux.HandleFunc("/api/logs/collect", s.app.LogsHandler.CollectHandler) // POST - JSON body (single or array)
	mux.HandleFunc("/api/logs/upload", s.app.LogsHandler.UploadHandler)   // POST - multipart "file"
	mux.HandleFunc("/api/logs/list", s.app.LogsHandler.ListHandler)       // GET - filter + limit/offset
	mux.HandleFunc("/api/logs/stats", s.app.LogsHandler.StatsHandler)     // GET - aggregates
	mux.HandleFunc("/api/logs/export", s.app.LogsHandler.ExportHandler)   // GET - CSV download
	mux.HandleFunc("/api/logs", s.app.LogsHandler.ClearHandler)           // DELETE - clear all logs

	// API routes - Reminders
	mux.HandleFunc("/api/reminders", s.handleRemindersRoute)                 // GET (list), POST (create)
	mux.HandleFunc("/api/reminders/send", s.app.ReminderHandler.SendHandler) // POST - ad-hoc send
	mux.HandleFunc(remindersPrefix, s.handleReminderRoutes)                  // GET/PATCH/PUT/DELETE /{id}, POST /{id}/send

	// API routes - Documents
	mux.HandleFunc("/api/documents/generate", s.app.DocumentHandler.GenerateHandler)   // POST - multipart file + template
	mux.HandleFunc("/api/documents/history", s.app.DocumentHandler.HistoryHandler)     // GET
	mux.HandleFunc("/api/documents/templates", s.app.DocumentHandler.TemplatesHandler) // GET
	mux.HandleFunc(documentsPrefix, s.app.DocumentHandler.PDFHandler)                  // GET /{id}/pdf

	// API routes - AI
	mux.HandleFunc("/api/ai/summarize", s.app.AIHandler.SummarizeHandler)            // POST - multipart file + summaryType
	mux.HandleFunc("/api/ai/generate-report", s.app.AIHandler.GenerateReportHandler) // POST - {startDate, endDate}
	mux.HandleFunc("/api/ai/save-pdf", s.app.AIHandler.SavePDFHandler)               // POST - {summary, title}

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleRemindersRoute routes /api/reminders requests (list and create)
func (s *Server) handleRemindersRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.ReminderHandler.ListHandler, s.app.ReminderHandler.CreateHandler)
}

// handleReminderRoutes routes /api/reminders/{id} and /api/reminders/{id}/send
func (s *Server) handleReminderRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, remindersPrefix), "/")
	if rest == "" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	segments := strings.Split(rest, "/")
	switch {
	case len(segments) == 1:
		RouteResourceItem(w, r,
			s.app.ReminderHandler.GetHandler,
			s.app.ReminderHandler.UpdateHandler,
			s.app.ReminderHandler.DeleteHandler,
		)
	case len(segments) == 2 && segments[1] == "send":
		s.app.ReminderHandler.SendNowHandler(w, r)
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}
