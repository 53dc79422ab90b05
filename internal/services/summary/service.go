package summary

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/logs"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/services/llm"
)

// Type selects the shape of the generated summary
type Type string

const (
	TypeSummary   Type = "summary"
	TypeKeyPoints Type = "keypoints"
	TypeFull      Type = "full"
)

// maxInputRunes bounds the document text sent to the provider
const maxInputRunes = 60000

var systemPrompts = map[Type]string{
	TypeSummary: "당신은 문서 요약 전문가입니다. 주어진 문서를 한국어로 3~5문단 분량으로 요약하세요. " +
		"결과는 '# 문서 요약' 제목으로 시작하는 markdown으로 작성하세요.",
	TypeKeyPoints: "당신은 문서 요약 전문가입니다. 주어진 문서의 핵심 포인트를 한국어 글머리표 5~10개로 정리하세요. " +
		"결과는 '# 핵심 포인트' 제목으로 시작하는 markdown으로 작성하세요.",
	TypeFull: "당신은 문서 분석 전문가입니다. 주어진 문서를 한국어로 분석하여 '# 문서 분석' 제목 아래 " +
		"개요, 핵심 포인트, 상세 요약, 결론 절을 갖춘 markdown 보고서를 작성하세요.",
}

const reportSystemPrompt = "당신은 시스템 운영 분석가입니다. 주어진 운영 통계를 바탕으로 주요 이슈와 권장 사항을 " +
	"한국어 markdown 글머리표로 간결하게 작성하세요. 제목은 쓰지 마세요."

// ParseType validates a summary type; empty means summary
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypeSummary, nil
	case TypeSummary, TypeKeyPoints, TypeFull:
		return t, nil
	default:
		return "", interfaces.NewValidationErrorf("invalid summaryType", "%q must be one of summary, keypoints, full", s)
	}
}

// Result is the outcome of a summarize call
type Result struct {
	Success     bool   `json:"success"`
	Summary     string `json:"summary"`
	SummaryType Type   `json:"summaryType"`
	Provider    string `json:"provider"`
	TestMode    bool   `json:"testMode"`
	InputChars  int    `json:"inputChars"`
	Truncated   bool   `json:"truncated,omitempty"`
}

// Report is an operations report over a date range
type Report struct {
	Success  bool             `json:"success"`
	Report   string           `json:"report"`
	Stats    *models.LogStats `json:"stats"`
	Provider string           `json:"provider"`
	TestMode bool             `json:"testMode"`
}

// StatsSource computes log statistics over a filter
type StatsSource interface {
	Stats(ctx context.Context, filter models.LogFilter) (*models.LogStats, error)
}

// Service summarizes uploaded documents and builds operations reports
type Service struct {
	llm          interfaces.LLMService
	fallback     interfaces.LLMService
	autoFallback bool
	extractor    interfaces.PDFExtractor
	renderer     interfaces.PDFService
	stats        StatsSource
	converter    *md.Converter
	logger       arbor.ILogger
}

// NewService creates a summary service. When autoTestModeOnQuota is set,
// provider quota and rate-limit errors are answered by the test-mode response.
func NewService(
	llmService interfaces.LLMService,
	extractor interfaces.PDFExtractor,
	renderer interfaces.PDFService,
	stats StatsSource,
	autoTestModeOnQuota bool,
	logger arbor.ILogger,
) *Service {
	return &Service{
		llm:          llmService,
		fallback:     llm.NewTestModeService(),
		autoFallback: autoTestModeOnQuota,
		extractor:    extractor,
		renderer:     renderer,
		stats:        stats,
		converter:    newConverter(),
		logger:       logger,
	}
}

// Summarize extracts the text of an uploaded txt, md, html or pdf file and summarizes it
func (s *Service) Summarize(ctx context.Context, fileName string, data []byte, summaryType string) (*Result, error) {
	if len(data) == 0 {
		return nil, interfaces.NewValidationError("파일이 필요합니다.")
	}
	kind, err := ParseType(summaryType)
	if err != nil {
		return nil, err
	}

	text, err := s.extractText(fileName, data)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, interfaces.NewValidationError("문서에서 텍스트를 찾을 수 없습니다.")
	}

	inputChars := len([]rune(text))
	prompt, truncated := truncateRunes(text, maxInputRunes)

	s.logger.Info().
		Str("file", fileName).
		Str("summary_type", string(kind)).
		Int("input_chars", inputChars).
		Bool("truncated", truncated).
		Str("provider", s.llm.Name()).
		Msg("Summarizing document")

	out, provider, testMode, err := s.generate(ctx, systemPrompts[kind], prompt)
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:     true,
		Summary:     out,
		SummaryType: kind,
		Provider:    provider,
		TestMode:    testMode,
		InputChars:  inputChars,
		Truncated:   truncated,
	}, nil
}

// generate calls the provider, switching to the test-mode response on quota errors when enabled
func (s *Service) generate(ctx context.Context, systemPrompt, prompt string) (string, string, bool, error) {
	out, err := s.llm.Generate(ctx, systemPrompt, prompt)
	if err == nil {
		return out, s.llm.Name(), llm.IsTestMode(s.llm), nil
	}

	if s.autoFallback && llm.IsRateLimitError(err) {
		s.logger.Warn().
			Err(err).
			Str("provider", s.llm.Name()).
			Msg("Provider quota exhausted, answering in test mode")
		out, ferr := s.fallback.Generate(ctx, systemPrompt, prompt)
		if ferr != nil {
			return "", "", false, ferr
		}
		return out, s.fallback.Name(), true, nil
	}

	s.logger.Error().Err(err).Str("provider", s.llm.Name()).Msg("Summary generation failed")
	return "", "", false, fmt.Errorf("AI 요약 생성 중 오류가 발생했습니다: %w", err)
}

// GenerateReport builds an operations report from log statistics between two dates.
// The provider adds an analysis section when one is configured; its failure leaves
// the statistics report intact.
func (s *Service) GenerateReport(ctx context.Context, startDate, endDate string) (*Report, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return nil, interfaces.NewValidationError("startDate와 endDate가 필요합니다.")
	}
	filter, err := logs.ParseFilter(startDate, endDate, "", "")
	if err != nil {
		return nil, err
	}
	if filter.EndDate.Before(*filter.StartDate) {
		return nil, interfaces.NewValidationErrorf("invalid date range", "endDate %s is before startDate %s", endDate, startDate)
	}

	stats, err := s.stats.Stats(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := BuildOperationsReport(startDate, endDate, stats)
	result := &Report{
		Success:  true,
		Stats:    stats,
		Provider: s.llm.Name(),
		TestMode: llm.IsTestMode(s.llm),
	}

	if result.TestMode || stats.TotalLogs == 0 {
		result.Report = report
		return result, nil
	}

	analysis, provider, testMode, err := s.generate(ctx, reportSystemPrompt, report)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Report analysis unavailable, returning statistics only")
		result.Report = report
	case testMode:
		result.Provider, result.TestMode = provider, true
		result.Report = report
	default:
		result.Report = report + "\n## AI 분석\n\n" + strings.TrimSpace(analysis) + "\n"
	}
	return result, nil
}

// SavePDF renders a markdown summary as a PDF
func (s *Service) SavePDF(summary, title string) ([]byte, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, interfaces.NewValidationError("요약 내용이 필요합니다.")
	}
	if strings.TrimSpace(title) == "" {
		title = "AI 문서 요약"
	}
	data, err := s.renderer.ConvertMarkdownToPDF(summary, title)
	if err != nil {
		s.logger.Error().Err(err).Msg("Summary PDF rendering failed")
		return nil, fmt.Errorf("PDF 저장 중 오류가 발생했습니다: %w", err)
	}
	return data, nil
}
