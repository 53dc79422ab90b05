package documents

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/officeflow/internal/models"
)

// BuildDocument lays the rows out according to the template.
// Template columns missing from the data are dropped; when none match, every
// data column is shown under its own name.
func BuildDocument(tmpl *Template, table *Table, sourceName string, now time.Time) *models.ContentDocument {
	doc := &models.ContentDocument{Title: tmpl.Title}

	doc.Blocks = append(doc.Blocks, models.ContentBlock{
		Kind: models.BlockParagraph,
		Text: fmt.Sprintf("작성일: %s", now.Format("2006-01-02")),
	})
	if sourceName != "" {
		doc.Blocks = append(doc.Blocks, models.ContentBlock{
			Kind: models.BlockParagraph,
			Text: fmt.Sprintf("원본 파일: %s", sourceName),
		})
	}
	for _, line := range tmpl.Intro {
		doc.Blocks = append(doc.Blocks, models.ContentBlock{Kind: models.BlockParagraph, Text: line})
	}

	columns := resolveColumns(tmpl, table)

	switch tmpl.Layout {
	case LayoutChecklist:
		doc.Blocks = append(doc.Blocks, models.ContentBlock{Kind: models.BlockHeading, Text: "항목", Level: 2})
		for _, row := range table.Rows {
			doc.Blocks = append(doc.Blocks, models.ContentBlock{
				Kind:  models.BlockListItem,
				Text:  checklistLine(row, columns),
				Level: 1,
			})
		}
	default:
		rows := make([][]string, 0, len(table.Rows)+1)
		header := make([]string, len(columns))
		for i, c := range columns {
			header[i] = c.Label
		}
		rows = append(rows, header)
		for _, row := range table.Rows {
			cells := make([]string, len(columns))
			for i, c := range columns {
				cells[i] = row[c.Key]
			}
			rows = append(rows, cells)
		}
		doc.Blocks = append(doc.Blocks, models.ContentBlock{Kind: models.BlockTable, Rows: rows})
	}

	doc.Blocks = append(doc.Blocks, models.ContentBlock{Kind: models.BlockHeading, Text: "요약", Level: 2})
	doc.Blocks = append(doc.Blocks, models.ContentBlock{
		Kind:  models.BlockListItem,
		Text:  fmt.Sprintf("총 %d건", len(table.Rows)),
		Level: 1,
	})
	for _, key := range tmpl.SumColumns {
		total, ok := sumColumn(table, key)
		if !ok {
			continue
		}
		doc.Blocks = append(doc.Blocks, models.ContentBlock{
			Kind:  models.BlockListItem,
			Text:  fmt.Sprintf("%s 합계: %s", labelFor(tmpl, key), FormatNumber(total)),
			Level: 1,
		})
	}

	for _, line := range tmpl.Footer {
		doc.Blocks = append(doc.Blocks, models.ContentBlock{Kind: models.BlockParagraph, Text: line})
	}

	return doc
}

func resolveColumns(tmpl *Template, table *Table) []Column {
	present := make(map[string]bool, len(table.Headers))
	for _, h := range table.Headers {
		present[h] = true
	}

	var columns []Column
	for _, c := range tmpl.Columns {
		if present[c.Key] {
			columns = append(columns, c)
		}
	}
	if len(columns) > 0 {
		return columns
	}

	columns = make([]Column, 0, len(table.Headers))
	for _, h := range table.Headers {
		columns = append(columns, Column{Key: h, Label: h})
	}
	return columns
}

func labelFor(tmpl *Template, key string) string {
	for _, c := range tmpl.Columns {
		if c.Key == key && c.Label != "" {
			return c.Label
		}
	}
	return key
}

func checklistLine(row map[string]string, columns []Column) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if v := strings.TrimSpace(row[c.Key]); v != "" {
			parts = append(parts, v)
		}
	}
	return "[ ] " + strings.Join(parts, " - ")
}

// sumColumn totals the numeric cells of a column; ok is false when the
// column is absent or holds no numbers.
func sumColumn(table *Table, key string) (float64, bool) {
	total := 0.0
	found := false
	for _, row := range table.Rows {
		raw, ok := row[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""), 64)
		if err != nil {
			continue
		}
		total += v
		found = true
	}
	return total, found
}

// FormatNumber renders v with thousands separators, dropping a zero fraction
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + frac
}
