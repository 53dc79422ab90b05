package summary

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

const utf8BOM = "\ufeff"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// extractText turns an uploaded document into plain or markdown text
func (s *Service) extractText(fileName string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err := s.extractor.ExtractText(data)
		if err != nil {
			return "", interfaces.NewValidationErrorf("PDF에서 텍스트를 추출할 수 없습니다.", "%v", err)
		}
		return text, nil

	case ".html", ".htm":
		return s.htmlToMarkdown(string(data)), nil

	case ".txt", ".md", ".markdown", ".log", ".csv", ".json":
		if !utf8.Valid(data) {
			return "", interfaces.NewValidationError("텍스트 파일은 UTF-8이어야 합니다.")
		}
		return string(data), nil
	}

	// Unknown extension: sniff the content
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return s.extractText(fileName+".pdf", data)
	case utf8.Valid(data):
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype html") || strings.HasPrefix(strings.ToLower(trimmed), "<html") {
			return s.htmlToMarkdown(trimmed), nil
		}
		return string(data), nil
	default:
		return "", interfaces.NewValidationErrorf("지원하지 않는 파일 형식입니다.", "%s: expected txt, md, html or pdf", fileName)
	}
}

func (s *Service) htmlToMarkdown(html string) string {
	converted, err := s.converter.ConvertString(html)
	if err != nil || strings.TrimSpace(converted) == "" {
		s.logger.Warn().Err(err).Int("html_length", len(html)).Msg("HTML to markdown conversion failed, stripping tags")
		return strings.TrimSpace(tagPattern.ReplaceAllString(html, " "))
	}
	return converted
}

// truncateRunes cuts s to at most n runes, marking the cut
func truncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:n]) + fmt.Sprintf("\n\n[... %d자 생략]", len(runes)-n), true
}

func newConverter() *md.Converter {
	return md.NewConverter("", true, nil)
}
