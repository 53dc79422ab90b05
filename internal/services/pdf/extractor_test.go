package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/models"
)

func TestContentStreamText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "single Tj",
			stream: "BT /F1 12 Tf 31.19 794.57 Td (Hello World) Tj ET",
			want:   "Hello World",
		},
		{
			name:   "lines split on positioning",
			stream: "BT 10 10 Td (First) Tj 0 -12 Td (Second) Tj ET",
			want:   "First\nSecond",
		},
		{
			name:   "TJ array with kerning",
			stream: "BT [(Hel) -20 (lo)] TJ ET",
			want:   "Hello",
		},
		{
			name:   "escapes and nested parens",
			stream: `BT (a \(b\) \101 (c)) Tj ET`,
			want:   "a (b) A (c)",
		},
		{
			name:   "graphics only",
			stream: "q 1 0 0 1 0 0 cm 0 0 m 10 10 l S Q",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentStreamText(tt.stream))
		})
	}
}

func TestExtractText_RoundTrip(t *testing.T) {
	pdfBytes, err := NewService("", arbor.NewNoOpLogger()).RenderDocument(&models.ContentDocument{
		Title:  "Quarterly",
		Blocks: []models.ContentBlock{{Kind: models.BlockParagraph, Text: "Revenue grew"}},
	})
	require.NoError(t, err)

	text, err := NewExtractor(arbor.NewNoOpLogger()).ExtractText(pdfBytes)
	require.NoError(t, err)
	assert.Contains(t, text, "Quarterly")
	assert.Contains(t, text, "Revenue grew")
}

func TestExtractText_NotAPDF(t *testing.T) {
	_, err := NewExtractor(arbor.NewNoOpLogger()).ExtractText([]byte("plain text"))
	assert.Error(t, err)
}
