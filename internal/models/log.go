package models

import (
	"strings"
	"time"
)

// LogType is the derived severity class of a log entry.
// It is never taken verbatim from user input; see logs.ClassifyLevel.
type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeWarning LogType = "warning"
	LogTypeInfo    LogType = "info"
	LogTypeDebug   LogType = "debug"
)

// IsValid reports whether t is one of the four known types
func (t LogType) IsValid() bool {
	switch t {
	case LogTypeError, LogTypeWarning, LogTypeInfo, LogTypeDebug:
		return true
	}
	return false
}

// LogEntry is one normalized, classified application event.
// Entries are immutable after ingestion.
type LogEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp" badgerhold:"index"`
	Type         LogType   `json:"type" badgerhold:"index"`
	Level        string    `json:"level"`
	Message      string    `json:"message"`
	Details      string    `json:"details,omitempty"`
	File         string    `json:"file,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ResponseTime *int64    `json:"responseTime,omitempty"` // milliseconds
}

// LogFilter selects entries for listing, statistics and export.
// Zero values mean "no constraint".
type LogFilter struct {
	StartDate *time.Time // inclusive, compared against the entry timestamp
	EndDate   *time.Time // inclusive through 23:59:59.999 local time of that day
	Type      LogType
	Keyword   string // case-insensitive substring of message, details or errorCode
}

// EndOfDay returns 23:59:59.999 on t's calendar date in t's location
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Matches reports whether e passes every constraint of the filter
func (f LogFilter) Matches(e *LogEntry) bool {
	if f.StartDate != nil && e.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Timestamp.After(EndOfDay(*f.EndDate)) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(e.Message), kw) &&
			!strings.Contains(strings.ToLower(e.Details), kw) &&
			!strings.Contains(strings.ToLower(e.ErrorCode), kw) {
			return false
		}
	}
	return true
}

// ErrorTypeCount is one bucket of the error-type histogram
type ErrorTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TimeSeriesPoint holds daily counts; Info includes debug entries
type TimeSeriesPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD, local calendar date
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Info     int    `json:"info"`
}

// ResponseTimeSummary aggregates responseTime across entries that carry one
type ResponseTimeSummary struct {
	Average int64 `json:"average"`
	Max     int64 `json:"max"`
	Min     int64 `json:"min"`
}

// LogStats is the output of the statistics engine
type LogStats struct {
	TotalLogs    int                 `json:"totalLogs"`
	ErrorTypes   []ErrorTypeCount    `json:"errorTypes"`
	TimeSeries   []TimeSeriesPoint   `json:"timeSeries"`
	ResponseTime ResponseTimeSummary `json:"responseTime"`
}

// LogPage is one page of a filtered, newest-first listing
type LogPage struct {
	Logs    []LogListItem `json:"logs"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"hasMore"`
}

// LogListItem decorates an entry with local display fields
type LogListItem struct {
	*LogEntry
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM:SS
}

// UploadResult reports how a raw log file was ingested
type UploadResult struct {
	Success    bool            `json:"success"`
	TotalLines int             `json:"totalLines"`
	SavedCount int             `json:"savedCount"`
	Counts     map[LogType]int `json:"counts"`
}
