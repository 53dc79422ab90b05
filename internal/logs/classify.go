package logs

import (
	"strings"

	"github.com/ternarybob/officeflow/internal/models"
)

// messageErrorKeywords and messageWarnKeywords drive the unstructured-line fallback
var (
	messageErrorKeywords = []string{"error", "exception", "failed", "failure", "fatal", "critical"}
	messageWarnKeywords  = []string{"warn"} // also matches "warning"
)

// ClassifyLevel maps a free-text level label to a type.
// Matching is case-insensitive substring: "ERRORCODE" and "FATAL_CRASH" are errors, "WARN2" is a warning.
func ClassifyLevel(level string) models.LogType {
	upper := strings.ToUpper(level)
	switch {
	case strings.Contains(upper, "ERR"), // covers ERROR
		strings.Contains(upper, "FATAL"),
		strings.Contains(upper, "CRITICAL"):
		return models.LogTypeError
	case strings.Contains(upper, "WARN"):
		return models.LogTypeWarning
	case strings.Contains(upper, "DEBUG"):
		return models.LogTypeDebug
	default:
		return models.LogTypeInfo
	}
}

// ClassifyTypeHint maps an explicit type hint by exact (case-insensitive) match
func ClassifyTypeHint(hint string) models.LogType {
	switch strings.ToUpper(strings.TrimSpace(hint)) {
	case "ERROR", "ERR", "FATAL", "CRITICAL":
		return models.LogTypeError
	case "WARN", "WARNING":
		return models.LogTypeWarning
	case "DEBUG":
		return models.LogTypeDebug
	default:
		return models.LogTypeInfo
	}
}

// ClassifyMessage scans an unstructured message for severity keywords
func ClassifyMessage(message string) models.LogType {
	lower := strings.ToLower(message)
	for _, kw := range messageErrorKeywords {
		if strings.Contains(lower, kw) {
			return models.LogTypeError
		}
	}
	for _, kw := range messageWarnKeywords {
		if strings.Contains(lower, kw) {
			return models.LogTypeWarning
		}
	}
	return models.LogTypeInfo
}

// Classify resolves the type with precedence: type hint, then level hint, then message keywords
func Classify(typeHint, levelHint, message string) models.LogType {
	switch {
	case strings.TrimSpace(typeHint) != "":
		return ClassifyTypeHint(typeHint)
	case strings.TrimSpace(levelHint) != "":
		return ClassifyLevel(levelHint)
	default:
		return ClassifyMessage(message)
	}
}

// LevelLabel is the display label used when the input carried no level
func LevelLabel(t models.LogType) string {
	switch t {
	case models.LogTypeError:
		return "ERROR"
	case models.LogTypeWarning:
		return "WARNING"
	case models.LogTypeDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}
