package models

import "time"

// DocumentStatus tracks generation of a template PDF
type DocumentStatus string

const (
	DocumentSuccess    DocumentStatus = "success"
	DocumentProcessing DocumentStatus = "processing"
	DocumentFailed     DocumentStatus = "failed"
)

// DocumentRecord is one entry of the document generation history
type DocumentRecord struct {
	ID         string         `json:"id"`
	Template   string         `json:"template"` // display name, e.g. "발주서"
	TemplateID string         `json:"templateId" badgerhold:"index"`
	FileName   string         `json:"fileName"`
	CreatedAt  time.Time      `json:"createdAt"`
	CreatedBy  string         `json:"createdBy"`
	Status     DocumentStatus `json:"status"`
	PDFURL     string         `json:"pdfUrl,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// BlockKind identifies a node of the renderable content tree
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockListItem  BlockKind = "list_item"
	BlockTable     BlockKind = "table"
)

// ContentBlock is a single renderable node.
// Level applies to headings (1-3); Rows applies to tables, first row is the header.
type ContentBlock struct {
	Kind  BlockKind  `json:"kind" yaml:"kind"`
	Text  string     `json:"text,omitempty" yaml:"text,omitempty"`
	Level int        `json:"level,omitempty" yaml:"level,omitempty"`
	Rows  [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// ContentDocument is the structured input to the document renderer
type ContentDocument struct {
	Title  string         `json:"title"`
	Blocks []ContentBlock `json:"blocks"`
}
