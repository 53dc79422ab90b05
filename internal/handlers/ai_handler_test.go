package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/services/summary"
)

// MockSummaryService is a mock implementation of SummaryService
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summarize(ctx context.Context, fileName string, data []byte, summaryType string) (*summary.Result, error) {
	args := m.Called(ctx, fileName, data, summaryType)
	if r := args.Get(0); r != nil {
		return r.(*summary.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSummaryService) GenerateReport(ctx context.Context, startDate, endDate string) (*summary.Report, error) {
	args := m.Called(ctx, startDate, endDate)
	if r := args.Get(0); r != nil {
		return r.(*summary.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSummaryService) SavePDF(s, title string) ([]byte, error) {
	args := m.Called(s, title)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAIHandler_Summarize(t *testing.T) {
	svc := &MockSummaryService{}
	h := NewAIHandler(svc, arbor.NewNoOpLogger())

	svc.On("Summarize", mock.Anything, "notes.md", []byte("# Notes"), "keypoints").
		Return(&summary.Result{Success: true, Summary: "- one", SummaryType: summary.TypeKeyPoints, TestMode: true}, nil)

	rec := httptest.NewRecorder()
	h.SummarizeHandler(rec, multipartRequest(t, "/api/ai/summarize", "file", "notes.md", []byte("# Notes"),
		map[string]string{"summaryType": "keypoints"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp summary.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.TestMode)
	assert.Equal(t, "- one", resp.Summary)
}

func TestAIHandler_SummarizeRequiresFile(t *testing.T) {
	h := NewAIHandler(&MockSummaryService{}, arbor.NewNoOpLogger())

	rec := httptest.NewRecorder()
	h.SummarizeHandler(rec, multipartRequest(t, "/api/ai/summarize", "", "", nil, map[string]string{"summaryType": "full"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "파일이 필요합니다.", decodeError(t, rec).Error)
}

func TestAIHandler_GenerateReport(t *testing.T) {
	svc := &MockSummaryService{}
	h := NewAIHandler(svc, arbor.NewNoOpLogger())

	svc.On("GenerateReport", mock.Anything, "2025-01-01", "2025-01-31").
		Return(&summary.Report{Success: true, Report: "# 운영 리포트"}, nil)
	svc.On("GenerateReport", mock.Anything, "", "").
		Return(nil, interfaces.NewValidationError("startDate와 endDate가 필요합니다."))

	rec := httptest.NewRecorder()
	h.GenerateReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/ai/generate-report",
		strings.NewReader(`{"startDate":"2025-01-01","endDate":"2025-01-31"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "운영 리포트")

	rec = httptest.NewRecorder()
	h.GenerateReportHandler(rec, httptest.NewRequest(http.MethodPost, "/api/ai/generate-report", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_SavePDF(t *testing.T) {
	svc := &MockSummaryService{}
	h := NewAIHandler(svc, arbor.NewNoOpLogger())

	svc.On("SavePDF", "# 요약", "회의록").Return([]byte("%PDF-1.3"), nil)
	svc.On("SavePDF", "", "").Return(nil, interfaces.NewValidationError("요약 내용이 필요합니다."))

	rec := httptest.NewRecorder()
	h.SavePDFHandler(rec, httptest.NewRequest(http.MethodPost, "/api/ai/save-pdf",
		strings.NewReader(`{"summary":"# 요약","title":"회의록"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = httptest.NewRecorder()
	h.SavePDFHandler(rec, httptest.NewRequest(http.MethodPost, "/api/ai/save-pdf", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "요약 내용이 필요합니다.", decodeError(t, rec).Error)
}
