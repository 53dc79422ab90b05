package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// GenerateRequest is one uploaded data file plus the chosen template
type GenerateRequest struct {
	TemplateID string `validate:"required"`
	FileName   string `validate:"required"`
	Data       []byte `validate:"required"`
	CreatedBy  string
}

// Service turns uploaded rows into template PDFs and records generation history
type Service struct {
	renderer  interfaces.PDFService
	history   interfaces.DocumentHistoryStorage
	templates *Registry
	outputDir string
	createdBy string
	validate  *validator.Validate
	now       func() time.Time
	logger    arbor.ILogger
}

// NewService creates a new document service
func NewService(
	renderer interfaces.PDFService,
	history interfaces.DocumentHistoryStorage,
	templates *Registry,
	config *common.DocumentsConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		renderer:  renderer,
		history:   history,
		templates: templates,
		outputDir: config.OutputDir,
		createdBy: config.CreatedBy,
		validate:  validator.New(),
		now:       time.Now,
		logger:    logger,
	}
}

// PDFURL is the download path of a generated document
func PDFURL(id string) string {
	return "/api/documents/" + id + "/pdf"
}

// Templates lists the available templates
func (s *Service) Templates() []*Template {
	return s.templates.List()
}

// Generate parses the upload, renders the PDF and records the outcome.
// The history entry is written as processing first and then updated to
// success or failed; a failed record is returned together with the error.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*models.DocumentRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, interfaces.NewValidationErrorf("파일과 템플릿이 필요합니다.", "%v", err)
	}

	tmpl, ok := s.templates.Get(req.TemplateID)
	if !ok {
		return nil, interfaces.NewValidationErrorf("unknown template", "%q", req.TemplateID)
	}

	table, err := ParseRows(req.Data, DetectFormat(req.FileName, req.Data))
	if err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = s.createdBy
	}

	record := &models.DocumentRecord{
		ID:         common.NewDocumentID(),
		Template:   tmpl.Name,
		TemplateID: tmpl.ID,
		FileName:   req.FileName,
		CreatedAt:  s.now(),
		CreatedBy:  createdBy,
		Status:     models.DocumentProcessing,
	}
	if err := s.history.AddRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.logger.Info().
		Str("id", record.ID).
		Str("template", tmpl.ID).
		Int("rows", len(table.Rows)).
		Msg("Generating document")

	if err := s.render(tmpl, table, record); err != nil {
		record.Status = models.DocumentFailed
		record.Error = err.Error()
		if uerr := s.history.UpdateRecord(ctx, record); uerr != nil {
			s.logger.Error().Err(uerr).Str("id", record.ID).Msg("Failed to record document failure")
		}
		s.logger.Error().Err(err).Str("id", record.ID).Msg("Document generation failed")
		return record, err
	}

	record.Status = models.DocumentSuccess
	record.PDFURL = PDFURL(record.ID)
	if err := s.history.UpdateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update document record: %w", err)
	}

	s.logger.Info().Str("id", record.ID).Str("pdf_url", record.PDFURL).Msg("Document generated")
	return record, nil
}

func (s *Service) render(tmpl *Template, table *Table, record *models.DocumentRecord) error {
	doc := BuildDocument(tmpl, table, record.FileName, record.CreatedAt)

	pdfBytes, err := s.renderer.RenderDocument(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(s.pdfPath(record.ID), pdfBytes, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (s *Service) pdfPath(id string) string {
	return filepath.Join(s.outputDir, id+".pdf")
}

// History returns generation history newest first, optionally filtered by template id
func (s *Service) History(ctx context.Context, templateID string) ([]*models.DocumentRecord, error) {
	return s.history.ListRecords(ctx, strings.TrimSpace(templateID))
}

// OpenPDF returns the record and its generated file contents
func (s *Service) OpenPDF(ctx context.Context, id string) (*models.DocumentRecord, []byte, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, nil, interfaces.ErrDocumentNotFound
	}

	record, err := s.history.GetRecord(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record.Status != models.DocumentSuccess {
		return nil, nil, fmt.Errorf("document %s is %s: %w", id, record.Status, interfaces.ErrDocumentNotFound)
	}

	data, err := os.ReadFile(s.pdfPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("pdf file missing for %s: %w", id, interfaces.ErrDocumentNotFound)
		}
		return nil, nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return record, data, nil
}
