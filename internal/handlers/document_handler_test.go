package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/services/documents"
)

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Generate(ctx context.Context, req *documents.GenerateRequest) (*models.DocumentRecord, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.DocumentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) History(ctx context.Context, templateID string) ([]*models.DocumentRecord, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]*models.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) OpenPDF(ctx context.Context, id string) (*models.DocumentRecord, []byte, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.DocumentRecord), args.Get(1).([]byte), args.Error(2)
	}
	return nil, nil, args.Error(2)
}

func (m *MockDocumentService) Templates() []*documents.Template {
	return documents.NewRegistry().List()
}

func TestDocumentHandler_Generate(t *testing.T) {
	svc := &MockDocumentService{}
	h := NewDocumentHandler(svc, arbor.NewNoOpLogger())

	svc.On("Generate", mock.Anything, mock.MatchedBy(func(req *documents.GenerateRequest) bool {
		return req.TemplateID == "order" && req.FileName == "rows.csv" && string(req.Data) == "item,quantity\nPaper,10\n"
	})).Return(&models.DocumentRecord{ID: "d-1", Status: models.DocumentSuccess, PDFURL: "/api/documents/d-1/pdf"}, nil)

	rec := httptest.NewRecorder()
	h.GenerateHandler(rec, multipartRequest(t, "/api/documents/generate", "file", "rows.csv",
		[]byte("item,quantity\nPaper,10\n"), map[string]string{"template": "order"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/api/documents/d-1/pdf", resp["pdfUrl"])
	svc.AssertExpectations(t)
}

func TestDocumentHandler_GenerateFailure(t *testing.T) {
	svc := &MockDocumentService{}
	h := NewDocumentHandler(svc, arbor.NewNoOpLogger())

	svc.On("Generate", mock.Anything, mock.Anything).
		Return(&models.DocumentRecord{ID: "d-2", Status: models.DocumentFailed}, errors.New("font missing"))

	rec := httptest.NewRecorder()
	h.GenerateHandler(rec, multipartRequest(t, "/api/documents/generate", "file", "rows.csv", []byte("a\n1\n"), map[string]string{"template": "report"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "PDF 생성 중 오류가 발생했습니다.", resp.Error)
	assert.Equal(t, "font missing", resp.Details)
}

func TestDocumentHandler_PDFAndHistory(t *testing.T) {
	svc := &MockDocumentService{}
	h := NewDocumentHandler(svc, arbor.NewNoOpLogger())

	svc.On("OpenPDF", mock.Anything, "d-1").Return(&models.DocumentRecord{ID: "d-1"}, []byte("%PDF-1.3"), nil)
	svc.On("OpenPDF", mock.Anything, "gone").Return(nil, nil, interfaces.ErrDocumentNotFound)
	svc.On("History", mock.Anything, "order").Return([]*models.DocumentRecord{{ID: "d-1", TemplateID: "order"}}, nil)

	rec := httptest.NewRecorder()
	h.PDFHandler(rec, httptest.NewRequest(http.MethodGet, "/api/documents/d-1/pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="d-1.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = httptest.NewRecorder()
	h.PDFHandler(rec, httptest.NewRequest(http.MethodGet, "/api/documents/gone/pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.PDFHandler(rec, httptest.NewRequest(http.MethodGet, "/api/documents/d-1/raw", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.HistoryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/documents/history?templateId=order", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.DocumentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	rec = httptest.NewRecorder()
	h.TemplatesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/documents/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order"`)
}
