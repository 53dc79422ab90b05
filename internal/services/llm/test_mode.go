package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// TestModeName is reported by the deterministic fallback service
const TestModeName = "test-mode"

// TestModeService answers every prompt with a fixed markdown response.
// It is used when no provider credential is configured and as the quota fallback.
type TestModeService struct{}

// NewTestModeService creates the deterministic fallback service
func NewTestModeService() *TestModeService {
	return &TestModeService{}
}

// Name identifies the fallback
func (s *TestModeService) Name() string {
	return TestModeName
}

// Generate returns the same response for the same prompt
func (s *TestModeService) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := 0
	for _, line := range strings.Split(prompt, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}

	var sb strings.Builder
	sb.WriteString("# 문서 요약 (테스트 모드)\n\n")
	sb.WriteString("이 문서는 업무 자동화 시스템에 대한 내용을 다루고 있습니다.\n\n")
	sb.WriteString("## 핵심 포인트\n")
	sb.WriteString("1. 문서 자동화를 통한 업무 효율성 향상\n")
	sb.WriteString("2. 로그 분석을 통한 시스템 모니터링\n")
	sb.WriteString("3. 알림 시스템을 통한 작업 관리\n")
	sb.WriteString("4. AI 기반 문서 요약 및 분석\n\n")
	sb.WriteString("## 요약\n")
	sb.WriteString("본 시스템은 다양한 업무 프로세스를 자동화하여 생산성을 높이는 것을 목표로 합니다.\n\n")
	fmt.Fprintf(&sb, "> 입력 %d자, %d줄을 받았습니다. AI 제공자가 설정되지 않아 테스트 응답을 반환합니다.\n",
		utf8.RuneCountInString(prompt), lines)
	return sb.String(), nil
}

// IsTestMode reports whether svc is the deterministic fallback
func IsTestMode(svc interface{ Name() string }) bool {
	return svc != nil && svc.Name() == TestModeName
}
