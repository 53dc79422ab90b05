package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/services/reminders"
)

const remindersPrefix = "/api/reminders/"

// ReminderHandler serves reminder CRUD and immediate delivery
type ReminderHandler struct {
	service ReminderService
	logger  arbor.ILogger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(service ReminderService, logger arbor.ILogger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		logger:  logger,
	}
}

// ListHandler handles GET /api/reminders
func (h *ReminderHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, err := h.service.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 목록 조회 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// CreateHandler handles POST /api/reminders
func (h *ReminderHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req reminders.CreateReminderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, h.logger, err, "알림 등록 중 오류가 발생했습니다.")
		return
	}

	reminder, err := h.service.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 등록 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "알림이 등록되었습니다.",
		"id":       reminder.ID,
		"reminder": reminder,
	})
}

// GetHandler handles GET /api/reminders/{id}
func (h *ReminderHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reminderID(w, r)
	if !ok {
		return
	}

	reminder, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 조회 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, reminder)
}

// UpdateHandler handles PATCH/PUT /api/reminders/{id} - only supplied fields change
func (h *ReminderHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reminderID(w, r)
	if !ok {
		return
	}

	var req reminders.UpdateReminderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, h.logger, err, "알림 수정 중 오류가 발생했습니다.")
		return
	}

	reminder, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 수정 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "알림이 수정되었습니다.",
		"reminder": reminder,
	})
}

// DeleteHandler handles DELETE /api/reminders/{id}
func (h *ReminderHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reminderID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err, "알림 삭제 중 오류가 발생했습니다.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "알림이 삭제되었습니다.",
	})
}

// SendHandler handles POST /api/reminders/send - ad-hoc delivery, nothing is stored
func (h *ReminderHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req reminders.SendRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteServiceError(w, h.logger, err, "알림 전송 중 오류가 발생했습니다.")
		return
	}

	result, err := h.service.SendAdhoc(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 전송 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// SendNowHandler handles POST /api/reminders/{id}/send through the scheduler's dispatch path
func (h *ReminderHandler) SendNowHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	id, ok := h.reminderID(w, r)
	if !ok {
		return
	}

	result, err := h.service.SendNow(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err, "알림 전송 중 오류가 발생했습니다.")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *ReminderHandler) reminderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	segments := PathSegments(r, remindersPrefix)
	if len(segments) == 0 || segments[0] == "" {
		WriteError(w, http.StatusBadRequest, "Reminder ID is required")
		return "", false
	}
	return segments[0], true
}
