// -----------------------------------------------------------------------
// PDF Extractor - plain text from uploaded PDF bytes
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

var pageFilePattern = regexp.MustCompile(`page_(\d+)`)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText returns the text shown on every page, pages separated by blank lines
func (e *Extractor) ExtractText(data []byte) (string, error) {
	workDir, err := os.MkdirTemp("", "officeflow-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(inFile, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(inFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	outDir := filepath.Join(workDir, "content")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create content dir: %w", err)
	}

	if err := api.ExtractContentFile(inFile, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted content: %w", err)
	}

	type page struct {
		number int
		text   string
	}
	pages := make([]page, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		match := pageFilePattern.FindStringSubmatch(file.Name())
		if match == nil {
			continue
		}
		number, _ := strconv.Atoi(match[1])
		raw, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			e.logger.Warn().Err(err).Str("file", file.Name()).Msg("Failed to read extracted page")
			continue
		}
		pages = append(pages, page{number: number, text: ContentStreamText(string(raw))})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].number < pages[j].number })

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if t := strings.TrimSpace(p.text); t != "" {
			parts = append(parts, t)
		}
	}

	e.logger.Debug().
		Int("page_count", pdfCtx.PageCount).
		Int("pages_with_text", len(parts)).
		Msg("Extracted PDF text")

	return strings.Join(parts, "\n\n"), nil
}

// ContentStreamText pulls the string operands of text-showing operators out of
// a decoded page content stream. Text positioning operators start a new line.
func ContentStreamText(stream string) string {
	var (
		sb   strings.Builder
		line strings.Builder
	)

	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(s)
		}
		line.Reset()
	}

	for i := 0; i < len(stream); i++ {
		c := stream[i]
		switch {
		case c == '(':
			s, next := readLiteralString(stream, i)
			line.WriteString(s)
			i = next
		case c == '%':
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case isOperatorStart(stream, i):
			op := readToken(stream, i)
			switch op {
			case "ET", "T*", "Td", "TD", "'", "\"":
				flush()
			}
			i += len(op) - 1
		}
	}
	flush()

	return sb.String()
}

// readLiteralString parses a PDF literal string starting at stream[start] == '('.
// It returns the decoded value and the index of the closing parenthesis.
func readLiteralString(stream string, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	for i := start; i < len(stream); i++ {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 >= len(stream) {
				return sb.String(), i
			}
			i++
			switch e := stream[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					end := i
					for end < len(stream) && end < i+3 && stream[end] >= '0' && stream[end] <= '7' {
						end++
					}
					v, _ := strconv.ParseUint(stream[i:end], 8, 8)
					sb.WriteByte(byte(v))
					i = end - 1
				} else {
					sb.WriteByte(e)
				}
			}
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), len(stream)
}

func isOperatorStart(stream string, i int) bool {
	if i > 0 {
		prev := stream[i-1]
		if prev != ' ' && prev != '\n' && prev != '\r' && prev != '\t' && prev != ')' && prev != ']' {
			return false
		}
	}
	c := stream[i]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '\'' || c == '"'
}

func readToken(stream string, i int) string {
	end := i + 1
	for end < len(stream) {
		c := stream[end]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '(' || c == '[' || c == '/' || c == '<' {
			break
		}
		end++
	}
	return stream[i:end]
}
