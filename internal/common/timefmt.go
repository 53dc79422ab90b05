package common

import (
	"fmt"
	"time"
)

// FormatKoreanDateTime renders t the way ko-KR locale date strings read,
// e.g. "2025. 1. 5. 오후 3:04:05". Used in notification bodies.
func FormatKoreanDateTime(t time.Time) string {
	meridiem := "오전"
	hour := t.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d. %d. %d. %s %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, hour, t.Minute(), t.Second())
}
