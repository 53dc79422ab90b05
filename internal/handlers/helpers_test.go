package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

// multipartRequest builds a multipart POST with one file field plus extra form values
func multipartRequest(t *testing.T, target, field, fileName string, content []byte, values map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", interfaces.NewValidationErrorf("invalid reminder", "title is required"), http.StatusBadRequest, "invalid reminder"},
		{"wrapped validation", fmt.Errorf("create: %w", interfaces.NewValidationError("bad date")), http.StatusBadRequest, "bad date"},
		{"no parsable lines", fmt.Errorf("a.log: %w", interfaces.ErrNoParsableLines), http.StatusBadRequest, "파싱 가능한 로그가 없습니다."},
		{"reminder missing", fmt.Errorf("get x: %w", interfaces.ErrReminderNotFound), http.StatusNotFound, "알림을 찾을 수 없습니다."},
		{"document missing", interfaces.ErrDocumentNotFound, http.StatusNotFound, "문서를 찾을 수 없습니다."},
		{"nothing to export", interfaces.ErrNoLogsToExport, http.StatusNotFound, "내보낼 로그가 없습니다."},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, arbor.NewNoOpLogger(), tt.err, "fallback")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestGetLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 100, 0},
		{"limit=20&offset=40", 20, 40},
		{"limit=abc&offset=-5", 100, 0},
		{"limit=0", 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/logs/list?"+tt.query, nil)
			limit, offset := GetLimitOffset(req, 100)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestPathSegments(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/abc/send", nil)
	assert.Equal(t, []string{"abc", "send"}, PathSegments(req, remindersPrefix))

	req = httptest.NewRequest(http.MethodGet, "/api/reminders/", nil)
	assert.Nil(t, PathSegments(req, remindersPrefix))
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	ok := RequireMethod(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.MethodPost)
	assert.False(t, ok)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
