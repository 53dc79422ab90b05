package pdf

import (
	"strings"
)

const (
	tableFontSize   = 8.5
	tableLineHeight = 4.2
	tableMaxLines   = 8
	tableMinCol     = 14.0
)

// table draws rows with the first row as a shaded header.
// Ragged rows are padded to the widest row.
func (w *writer) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, numCols)
		for j := range row {
			cells[i][j] = w.fonts.text(strings.TrimSpace(row[j]))
		}
	}

	widths := w.columnWidths(cells, numCols)
	_, pageHeight := w.pdf.GetPageSize()
	bottom := pageHeight - pageMargin

	w.pdf.Ln(1)
	for i, row := range cells {
		header := i == 0
		style := ""
		if header {
			style = "B"
		}
		w.setFont(style, tableFontSize)

		lines := 1
		wrapped := make([][]string, numCols)
		for j, cell := range row {
			wrapped[j] = w.wrap(cell, widths[j]-2)
			if len(wrapped[j]) > lines {
				lines = len(wrapped[j])
			}
		}
		if lines > tableMaxLines {
			lines = tableMaxLines
		}
		rowHeight := float64(lines)*tableLineHeight + 2

		y := w.pdf.GetY()
		if y+rowHeight > bottom {
			w.pdf.AddPage()
			y = w.pdf.GetY()
		}

		x := pageMargin
		for j := range row {
			if header {
				w.pdf.SetFillColor(230, 230, 230)
				w.pdf.Rect(x, y, widths[j], rowHeight, "FD")
			} else {
				w.pdf.Rect(x, y, widths[j], rowHeight, "D")
			}

			cellLines := wrapped[j]
			if len(cellLines) > lines {
				cellLines = append(cellLines[:lines-1:lines-1], cellLines[lines-1]+"...")
			}
			for k, line := range cellLines {
				w.pdf.SetXY(x+1, y+1+float64(k)*tableLineHeight)
				w.pdf.CellFormat(widths[j]-2, tableLineHeight, line, "", 0, "L", false, 0, "")
			}
			x += widths[j]
		}

		w.pdf.SetXY(pageMargin, y+rowHeight)
	}

	w.pdf.SetFillColor(255, 255, 255)
	w.pdf.Ln(3)
	w.setFont("", bodySize)
}

// columnWidths sizes columns to their widest cell, clamps each to a third of
// the page and scales the set to the content width.
func (w *writer) columnWidths(rows [][]string, numCols int) []float64 {
	widths := make([]float64, numCols)

	for i, row := range rows {
		style := ""
		if i == 0 {
			style = "B"
		}
		w.setFont(style, tableFontSize)
		for j, cell := range row {
			if cw := w.pdf.GetStringWidth(cell) + 4; cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	maxCol := contentWidth / 3
	if numCols <= 2 {
		maxCol = contentWidth / float64(numCols)
	}

	total := 0.0
	for j := range widths {
		if widths[j] < tableMinCol {
			widths[j] = tableMinCol
		}
		if widths[j] > maxCol {
			widths[j] = maxCol
		}
		total += widths[j]
	}

	scale := contentWidth / total
	for j := range widths {
		widths[j] *= scale
	}
	return widths
}

// wrap splits text into lines no wider than width using the current font.
// Words wider than a line are broken by rune.
func (w *writer) wrap(text string, width float64) []string {
	if text == "" || width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if w.pdf.GetStringWidth(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = ""
			for _, r := range word {
				next := current + string(r)
				if current != "" && w.pdf.GetStringWidth(next) > width {
					lines = append(lines, current)
					next = string(r)
				}
				current = next
			}
		}
		lines = append(lines, current)
	}
	return lines
}
