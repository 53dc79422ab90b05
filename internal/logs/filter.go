package logs

import (
	"strings"
	"time"

	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// ParseFilter builds a filter from query-string values.
// Dates are YYYY-MM-DD in local time (RFC3339 is also accepted); logType "" or "all" means any type.
func ParseFilter(startDate, endDate, logType, keyword string) (models.LogFilter, error) {
	var filter models.LogFilter

	if startDate != "" {
		t, err := parseFilterDate(startDate)
		if err != nil {
			return filter, interfaces.NewValidationErrorf("invalid startDate", "%q is not a date (expected YYYY-MM-DD)", startDate)
		}
		filter.StartDate = &t
	}

	if endDate != "" {
		t, err := parseFilterDate(endDate)
		if err != nil {
			return filter, interfaces.NewValidationErrorf("invalid endDate", "%q is not a date (expected YYYY-MM-DD)", endDate)
		}
		filter.EndDate = &t
	}

	switch lt := strings.ToLower(strings.TrimSpace(logType)); lt {
	case "", "all":
	default:
		if !models.LogType(lt).IsValid() {
			return filter, interfaces.NewValidationErrorf("invalid logType", "%q must be one of error, warning, info, debug", logType)
		}
		filter.Type = models.LogType(lt)
	}

	filter.Keyword = strings.TrimSpace(keyword)
	return filter, nil
}

func parseFilterDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
