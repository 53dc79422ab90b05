package logs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// CollectInput is one pre-structured record submitted to the collect API.
// Loosely typed fields accept both JSON strings and numbers.
type CollectInput struct {
	Message      string          `json:"message"`
	Timestamp    json.RawMessage `json:"timestamp,omitempty"`
	Type         string          `json:"type,omitempty"`
	Level        string          `json:"level,omitempty"`
	ErrorCode    json.RawMessage `json:"errorCode,omitempty"`
	ResponseTime json.RawMessage `json:"responseTime,omitempty"`
	Details      string          `json:"details,omitempty"`
	Stack        string          `json:"stack,omitempty"`
	Exception    string          `json:"exception,omitempty"`
	File         string          `json:"file,omitempty"`
	Source       string          `json:"source,omitempty"`
}

// DecodeCollectPayload accepts a single JSON object or an array of objects
func DecodeCollectPayload(data []byte) ([]CollectInput, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, interfaces.NewValidationError("request body is empty")
	}

	if trimmed[0] == '[' {
		var inputs []CollectInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
		}
		return inputs, nil
	}

	var input CollectInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, interfaces.NewValidationErrorf("invalid JSON", "%v", err)
	}
	return []CollectInput{input}, nil
}

// Normalize converts an input to an entry. ok is false when message is missing.
// A zero Timestamp in the result means the input carried no usable timestamp.
func (in CollectInput) Normalize() (*models.LogEntry, bool) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, false
	}

	entry := &models.LogEntry{
		Message:   in.Message,
		Timestamp: rawTimestamp(in.Timestamp),
		Type:      Classify(in.Type, in.Level, in.Message),
		Details:   firstNonEmpty(in.Details, in.Stack, in.Exception),
		File:      firstNonEmpty(in.File, in.Source),
	}

	entry.Level = in.Level
	if entry.Level == "" {
		entry.Level = LevelLabel(entry.Type)
	}

	if code := rawString(in.ErrorCode); code != "" {
		entry.ErrorCode = code
	} else {
		entry.ErrorCode = ExtractErrorCode(in.Message)
	}

	if rt, ok := rawInt(in.ResponseTime); ok {
		entry.ResponseTime = &rt
	} else {
		entry.ResponseTime = ExtractResponseTime(in.Message)
	}

	return entry, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// rawString reads a JSON string or number as text
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// rawInt reads a JSON number or numeric string as an integer.
// Fractional values are truncated; "1200ms" parses its leading digits.
func rawInt(raw json.RawMessage) (int64, bool) {
	s := rawString(raw)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// rawTimestamp reads an RFC3339 / ISO-like string or epoch milliseconds.
// Anything unparseable yields the zero time.
func rawTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t := parseTimestamp(s); !t.IsZero() {
			return t
		}
		if t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local); err == nil {
			return t
		}
		return time.Time{}
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(int64(ms))
	}
	return time.Time{}
}
