package logs

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/officeflow/internal/models"
)

// Line formats, tried in order
var (
	// [2025-01-01 10:00:00] ERROR: message
	bracketedLine = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}[^\]]*)\]\s+(\w+):\s*(.*)$`)
	// 2025-01-01T10:00:00Z - ERROR - message
	dashedLine = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}\S*)\s+-\s+(\w+)\s+-\s+(.*)$`)
	// ERROR: message
	levelOnlyLine = regexp.MustCompile(`^(\w+):\s*(.*)$`)
)

// Auxiliary extraction
var (
	httpErrorCode   = regexp.MustCompile(`\b([45]\d{2})\b`)
	namedErrorCode  = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*_ERROR|ERR_[A-Z0-9_]+|[A-Z][a-z]+Error)\b`)
	responseTimeFwd = regexp.MustCompile(`(?i)(?:took|time|duration|elapsed)[:\s]+(\d+)\s*ms`)
	responseTimeRev = regexp.MustCompile(`(?i)(\d+)\s*ms\s*(?:response|time|took)`)
)

// timestampLayouts cover the ISO-like grammar accepted inside log lines
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
}

// ParseLine turns one raw line into a log entry.
// Empty lines yield ok=false. A zero Timestamp means the line carried none.
func ParseLine(line string) (*models.LogEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}

	entry := &models.LogEntry{}

	if m := bracketedLine.FindStringSubmatch(line); m != nil {
		entry.Timestamp = parseTimestamp(m[1])
		entry.Level = m[2]
		entry.Message = m[3]
		entry.Type = ClassifyLevel(entry.Level)
	} else if m := dashedLine.FindStringSubmatch(line); m != nil {
		entry.Timestamp = parseTimestamp(m[1])
		entry.Level = m[2]
		entry.Message = m[3]
		entry.Type = ClassifyLevel(entry.Level)
	} else if m := levelOnlyLine.FindStringSubmatch(line); m != nil {
		entry.Level = m[1]
		entry.Message = m[2]
		entry.Type = ClassifyLevel(entry.Level)
	} else {
		entry.Message = line
		entry.Type = ClassifyMessage(line)
		entry.Level = LevelLabel(entry.Type)
	}

	if entry.Message == "" {
		entry.Message = line
	}

	entry.ErrorCode = ExtractErrorCode(entry.Message)
	entry.ResponseTime = ExtractResponseTime(entry.Message)

	return entry, true
}

// ParseLines parses every line of text. Unparseable lines are skipped.
// Entries without a timestamp are stamped now, now+1s, now+2s... in line order.
func ParseLines(text string, now time.Time) []*models.LogEntry {
	return parseLines(SplitLines(text), now)
}

// SplitLines splits text on newlines with no per-line length limit.
// A trailing newline does not produce an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func parseLines(lines []string, now time.Time) []*models.LogEntry {
	var entries []*models.LogEntry
	var missing []bool

	for _, line := range lines {
		entry, ok := ParseLine(line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
		missing = append(missing, entry.Timestamp.IsZero())
	}

	AssignMissingTimestamps(entries, missing, now)
	return entries
}

// AssignMissingTimestamps stamps entries flagged in missing with now plus their
// sequence index among the timestamp-less entries, in whole seconds.
// Entries with an explicit timestamp are left untouched.
func AssignMissingTimestamps(entries []*models.LogEntry, missing []bool, now time.Time) {
	seq := 0
	for i, entry := range entries {
		if !missing[i] {
			continue
		}
		entry.Timestamp = now.Add(time.Duration(seq) * time.Second)
		seq++
	}
}

// ExtractErrorCode returns the first 4xx/5xx token, else a symbolic error name, else ""
func ExtractErrorCode(message string) string {
	if m := httpErrorCode.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := namedErrorCode.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

// ExtractResponseTime returns the millisecond duration mentioned in message, or nil
func ExtractResponseTime(message string) *int64 {
	m := responseTimeFwd.FindStringSubmatch(message)
	if m == nil {
		m = responseTimeRev.FindStringSubmatch(message)
	}
	if m == nil {
		return nil
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseTimestamp accepts the bracketed/dashed timestamp forms; zone-less values are local time.
// An unparseable value returns the zero time so the caller treats it as absent.
func parseTimestamp(s string) time.Time {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
