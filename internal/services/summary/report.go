package summary

import (
	"fmt"
	"strings"

	"github.com/ternarybob/officeflow/internal/models"
)

const (
	errorRateWarn    = 5.0
	slowResponseWarn = 1000 // ms
)

// BuildOperationsReport renders log statistics as a markdown operations report
func BuildOperationsReport(startDate, endDate string, stats *models.LogStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 운영 리포트\n기간: %s ~ %s\n\n", startDate, endDate)

	if stats == nil || stats.TotalLogs == 0 {
		sb.WriteString("## 시스템 상태\n- 해당 기간에 수집된 로그가 없습니다.\n")
		return sb.String()
	}

	var errors, warnings, info int
	for _, p := range stats.TimeSeries {
		errors += p.Errors
		warnings += p.Warnings
		info += p.Info
	}
	errorRate := percent(errors, stats.TotalLogs)

	sb.WriteString("## 시스템 상태\n")
	fmt.Fprintf(&sb, "- 전체 로그: %d건\n", stats.TotalLogs)
	fmt.Fprintf(&sb, "- 에러: %d건, 경고: %d건, 정보: %d건\n", errors, warnings, info)
	fmt.Fprintf(&sb, "- 에러율: %.1f%%\n", errorRate)
	rt := stats.ResponseTime
	if rt.Max > 0 {
		fmt.Fprintf(&sb, "- 평균 응답시간: %dms (최소 %dms, 최대 %dms)\n", rt.Average, rt.Min, rt.Max)
	}

	sb.WriteString("\n## 주요 이슈\n")
	if len(stats.ErrorTypes) == 0 {
		sb.WriteString("- 에러가 없습니다.\n")
	}
	for i, et := range stats.ErrorTypes {
		fmt.Fprintf(&sb, "%d. %s (%d건)\n", i+1, et.Type, et.Count)
	}

	sb.WriteString("\n## 일별 추이\n\n")
	sb.WriteString("| 날짜 | 에러 | 경고 | 정보 |\n|---|---|---|---|\n")
	for _, p := range stats.TimeSeries {
		fmt.Fprintf(&sb, "| %s | %d | %d | %d |\n", p.Date, p.Errors, p.Warnings, p.Info)
	}

	sb.WriteString("\n## 권장 사항\n")
	var advice []string
	if errorRate >= errorRateWarn {
		advice = append(advice, fmt.Sprintf("에러율이 %.1f%%로 높습니다. 상위 에러 유형의 원인을 우선 분석하세요.", errorRate))
	}
	if rt.Average >= slowResponseWarn {
		advice = append(advice, "평균 응답시간이 1초 이상입니다. 캐시 전략과 데이터베이스 쿼리를 점검하세요.")
	}
	if warnings > errors && warnings > 0 {
		advice = append(advice, "경고가 에러보다 많습니다. 경고가 에러로 악화되기 전에 점검하세요.")
	}
	if len(advice) == 0 {
		advice = append(advice, "특이 사항이 없습니다. 현재 운영 상태를 유지하세요.")
	}
	for _, a := range advice {
		fmt.Fprintf(&sb, "- %s\n", a)
	}

	return sb.String()
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
