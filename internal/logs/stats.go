package logs

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/officeflow/internal/models"
)

const (
	unknownErrorType  = "Unknown Error"
	maxErrorTypeLabel = 30
	maxErrorTypes     = 10
	dateLayout        = "2006-01-02"
)

var errorLabelPattern = regexp.MustCompile(`(?i)(?:error|exception|failed|failure)\s*[:\-]?\s*([^:\n]+)`)

// ComputeStats aggregates a filtered entry set. now anchors the synthesized
// "today" series used when no entry has a usable timestamp.
func ComputeStats(entries []*models.LogEntry, now time.Time) *models.LogStats {
	return &models.LogStats{
		TotalLogs:    len(entries),
		ErrorTypes:   errorTypeHistogram(entries),
		TimeSeries:   timeSeries(entries, now),
		ResponseTime: responseTimeSummary(entries),
	}
}

// ErrorTypeLabel returns the histogram bucket for an error entry
func ErrorTypeLabel(e *models.LogEntry) string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	if m := errorLabelPattern.FindStringSubmatch(e.Message); m != nil {
		label := strings.TrimSpace(m[1])
		if runes := []rune(label); len(runes) > maxErrorTypeLabel {
			label = string(runes[:maxErrorTypeLabel])
		}
		if label != "" {
			return label
		}
	}
	return unknownErrorType
}

func errorTypeHistogram(entries []*models.LogEntry) []models.ErrorTypeCount {
	index := make(map[string]int)
	buckets := []models.ErrorTypeCount{}

	for _, e := range entries {
		if e.Type != models.LogTypeError {
			continue
		}
		label := ErrorTypeLabel(e)
		if i, ok := index[label]; ok {
			buckets[i].Count++
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, models.ErrorTypeCount{Type: label, Count: 1})
	}

	// Stable so equal counts keep first-seen order
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	if len(buckets) > maxErrorTypes {
		buckets = buckets[:maxErrorTypes]
	}
	return buckets
}

func timeSeries(entries []*models.LogEntry, now time.Time) []models.TimeSeriesPoint {
	byDate := make(map[string]*models.TimeSeriesPoint)

	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		date := e.Timestamp.In(now.Location()).Format(dateLayout)
		point, ok := byDate[date]
		if !ok {
			point = &models.TimeSeriesPoint{Date: date}
			byDate[date] = point
		}
		countInto(point, e.Type)
	}

	series := make([]models.TimeSeriesPoint, 0, len(byDate)+2)
	for _, p := range byDate {
		series = append(series, *p)
	}
	// YYYY-MM-DD sorts chronologically as a string
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	switch {
	case len(series) == 1 && len(entries) > 0:
		day, _ := time.ParseInLocation(dateLayout, series[0].Date, now.Location())
		series = []models.TimeSeriesPoint{
			{Date: day.AddDate(0, 0, -1).Format(dateLayout)},
			series[0],
			{Date: day.AddDate(0, 0, 1).Format(dateLayout)},
		}
	case len(series) == 0 && len(entries) > 0:
		today := models.TimeSeriesPoint{Date: now.Format(dateLayout)}
		for _, e := range entries {
			countInto(&today, e.Type)
		}
		series = []models.TimeSeriesPoint{
			{Date: now.AddDate(0, 0, -1).Format(dateLayout)},
			today,
			{Date: now.AddDate(0, 0, 1).Format(dateLayout)},
		}
	}

	return series
}

func countInto(point *models.TimeSeriesPoint, t models.LogType) {
	switch t {
	case models.LogTypeError:
		point.Errors++
	case models.LogTypeWarning:
		point.Warnings++
	default:
		point.Info++
	}
}

func responseTimeSummary(entries []*models.LogEntry) models.ResponseTimeSummary {
	var summary models.ResponseTimeSummary
	var sum int64
	count := 0

	for _, e := range entries {
		if e.ResponseTime == nil {
			continue
		}
		rt := *e.ResponseTime
		if count == 0 || rt > summary.Max {
			summary.Max = rt
		}
		if count == 0 || rt < summary.Min {
			summary.Min = rt
		}
		sum += rt
		count++
	}

	if count > 0 {
		summary.Average = int64(math.Round(float64(sum) / float64(count)))
	}
	return summary
}
