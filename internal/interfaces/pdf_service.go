// -----------------------------------------------------------------------
// PDF Interfaces - document rendering and text extraction
// -----------------------------------------------------------------------

package interfaces

import (
	"github.com/ternarybob/officeflow/internal/models"
)

// PDFService renders documents to PDF bytes
type PDFService interface {
	// RenderDocument renders a structured content tree
	RenderDocument(doc *models.ContentDocument) ([]byte, error)

	// ConvertMarkdownToPDF renders markdown (headings, paragraphs, lists, tables)
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}

// PDFExtractor extracts plain text from PDF bytes
type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}
