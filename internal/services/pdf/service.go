package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

const (
	pageMargin   = 15.0
	contentWidth = 210.0 - 2*pageMargin
	bodySize     = 10.0
	lineHeight   = 5.5
)

// Service implements interfaces.PDFService
type Service struct {
	fontDir string
	creator string
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service. fontDir may be empty.
func NewService(fontDir string, logger arbor.ILogger) *Service {
	return &Service{
		fontDir: fontDir,
		creator: "OfficeFlow",
		logger:  logger,
	}
}

// RenderDocument renders a structured content tree to PDF bytes
func (s *Service) RenderDocument(doc *models.ContentDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	s.logger.Debug().
		Str("title", doc.Title).
		Int("blocks", len(doc.Blocks)).
		Msg("Rendering document to PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	fonts := loadFonts(pdf, s.fontDir, s.logger)

	pdf.SetTitle(doc.Title, fonts.utf8)
	pdf.SetCreator(s.creator, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fonts.family, "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	w := &writer{pdf: pdf, fonts: fonts}
	w.setFont("", bodySize)

	blocks := doc.Blocks
	if doc.Title != "" && !startsWithTitle(blocks, doc.Title) {
		w.heading(doc.Title, 1)
	}

	for _, block := range blocks {
		switch block.Kind {
		case models.BlockHeading:
			w.heading(block.Text, block.Level)
		case models.BlockParagraph:
			w.paragraph(block.Text)
		case models.BlockListItem:
			w.listItem(block.Text, block.Level)
		case models.BlockTable:
			w.table(block.Rows)
		default:
			s.logger.Warn().Str("kind", string(block.Kind)).Msg("Skipping unknown content block")
		}
	}

	if err := pdf.Error(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated successfully")
	return buf.Bytes(), nil
}

// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
func (s *Service) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Converting markdown to PDF")

	doc := MarkdownToDocument(markdown)
	doc.Title = title
	return s.RenderDocument(doc)
}

func startsWithTitle(blocks []models.ContentBlock, title string) bool {
	return len(blocks) > 0 &&
		blocks[0].Kind == models.BlockHeading &&
		strings.TrimSpace(blocks[0].Text) == strings.TrimSpace(title)
}

// writer lays out content blocks on the current page
type writer struct {
	pdf   *fpdf.Fpdf
	fonts fontSet
}

func (w *writer) setFont(style string, size float64) {
	w.pdf.SetFont(w.fonts.family, style, size)
}

func (w *writer) heading(text string, level int) {
	size := 12.0
	switch level {
	case 1:
		size = 16
	case 2:
		size = 13
	case 3:
		size = 11.5
	}

	w.pdf.Ln(3)
	w.setFont("B", size)
	w.pdf.MultiCell(0, size*0.5, w.fonts.text(text), "", "L", false)
	if level == 1 {
		y := w.pdf.GetY() + 1
		w.pdf.SetDrawColor(180, 180, 180)
		w.pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
		w.pdf.SetDrawColor(0, 0, 0)
		w.pdf.Ln(3)
	} else {
		w.pdf.Ln(1.5)
	}
	w.setFont("", bodySize)
}

func (w *writer) paragraph(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.setFont("", bodySize)
	w.pdf.MultiCell(0, lineHeight, w.fonts.text(text), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) listItem(text string, depth int) {
	if depth < 1 {
		depth = 1
	}
	indent := 4.0 * float64(depth)
	w.setFont("", bodySize)

	w.pdf.SetX(pageMargin + indent)
	w.pdf.CellFormat(4, lineHeight, w.fonts.text("-"), "", 0, "L", false, 0, "")
	w.pdf.MultiCell(contentWidth-indent-4, lineHeight, w.fonts.text(text), "", "L", false)
	w.pdf.Ln(0.5)
}
