package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/services/reminders"
)

// MockReminderService is a mock implementation of ReminderService
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) Create(ctx context.Context, req *reminders.CreateReminderRequest) (*models.Reminder, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Reminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReminderService) List(ctx context.Context) ([]*models.Reminder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderService) Get(ctx context.Context, id string) (*models.Reminder, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Reminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReminderService) Update(ctx context.Context, id string, req *reminders.UpdateReminderRequest) (*models.Reminder, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Reminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReminderService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReminderService) SendNow(ctx context.Context, id string) (models.DeliveryResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.DeliveryResult), args.Error(1)
}

func (m *MockReminderService) SendAdhoc(ctx context.Context, req *reminders.SendRequest) (models.DeliveryResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.DeliveryResult), args.Error(1)
}

func TestReminderHandler_Create(t *testing.T) {
	svc := &MockReminderService{}
	h := NewReminderHandler(svc, arbor.NewNoOpLogger())

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *reminders.CreateReminderRequest) bool {
		return req.Title == "Standup" && req.Channel == "slack"
	})).Return(&models.Reminder{ID: "r-1", Title: "Standup"}, nil)

	body := `{"title":"Standup","message":"10am","scheduledAt":"2025-01-01T10:00","channel":"slack","slackWebhook":"https://hooks.slack.com/x"}`
	rec := httptest.NewRecorder()
	h.CreateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/reminders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "r-1", resp["id"])
	svc.AssertExpectations(t)
}

func TestReminderHandler_CreateErrors(t *testing.T) {
	svc := &MockReminderService{}
	h := NewReminderHandler(svc, arbor.NewNoOpLogger())

	rec := httptest.NewRecorder()
	h.CreateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/reminders", strings.NewReader(`{"title":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, interfaces.NewValidationErrorf("invalid reminder", "title is required"))

	rec = httptest.NewRecorder()
	h.CreateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/reminders", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "invalid reminder", resp.Error)
	assert.Equal(t, "title is required", resp.Details)
}

func TestReminderHandler_ItemRoutes(t *testing.T) {
	svc := &MockReminderService{}
	h := NewReminderHandler(svc, arbor.NewNoOpLogger())

	svc.On("Get", mock.Anything, "missing").Return(nil, fmt.Errorf("get: %w", interfaces.ErrReminderNotFound))
	svc.On("Get", mock.Anything, "r-1").Return(&models.Reminder{ID: "r-1"}, nil)
	svc.On("Delete", mock.Anything, "r-1").Return(nil)
	svc.On("Update", mock.Anything, "r-1", mock.MatchedBy(func(req *reminders.UpdateReminderRequest) bool {
		return req.Title != nil && *req.Title == "New" && req.Message == nil
	})).Return(&models.Reminder{ID: "r-1", Title: "New"}, nil)

	rec := httptest.NewRecorder()
	h.GetHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reminders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reminders/r-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateHandler(rec, httptest.NewRequest(http.MethodPatch, "/api/reminders/r-1", strings.NewReader(`{"title":"New"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteHandler(rec, httptest.NewRequest(http.MethodDelete, "/api/reminders/r-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reminders/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestReminderHandler_Send(t *testing.T) {
	svc := &MockReminderService{}
	h := NewReminderHandler(svc, arbor.NewNoOpLogger())

	partial := models.DeliveryResult{
		Success: true,
		Results: map[string]models.ChannelResult{
			"slack": {Success: true},
			"email": {Success: false, Error: "SMTP 설정이 필요합니다."},
		},
	}
	svc.On("SendAdhoc", mock.Anything, mock.Anything).Return(partial, nil)
	svc.On("SendNow", mock.Anything, "r-9").Return(models.DeliveryResult{}, interfaces.ErrReminderNotFound)

	rec := httptest.NewRecorder()
	h.SendHandler(rec, httptest.NewRequest(http.MethodPost, "/api/reminders/send",
		strings.NewReader(`{"channel":"both","title":"t","message":"m","slackWebhook":"https://hooks.slack.com/x","email":"a@b.co"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.DeliveryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "SMTP 설정이 필요합니다.", result.Results["email"].Error)

	rec = httptest.NewRecorder()
	h.SendNowHandler(rec, httptest.NewRequest(http.MethodPost, "/api/reminders/r-9/send", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.SendNowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reminders/r-9/send", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
