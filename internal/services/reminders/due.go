package reminders

import (
	"time"

	"github.com/ternarybob/officeflow/internal/models"
)

const day = 24 * time.Hour

// IsDue reports whether the reminder should be dispatched at now.
//
// Failed reminders are never due. One-off reminders fire once when pending and
// scheduledAt has passed. Repeating reminders fire on scheduledAt until the
// first send, then once the repeat interval since lastSentAt has elapsed:
// whole days for daily/weekly, a later calendar month for monthly.
func IsDue(r *models.Reminder, now time.Time) bool {
	if r.Status == models.StatusFailed {
		return false
	}

	scheduledPassed := !r.ScheduledAt.After(now)

	switch r.Repeat {
	case models.RepeatNone, "":
		return r.Status == models.StatusPending && scheduledPassed

	case models.RepeatDaily:
		if r.LastSentAt == nil {
			return scheduledPassed
		}
		return wholeDaysSince(*r.LastSentAt, now) >= 1

	case models.RepeatWeekly:
		if r.LastSentAt == nil {
			return scheduledPassed
		}
		return wholeDaysSince(*r.LastSentAt, now) >= 7

	case models.RepeatMonthly:
		if r.LastSentAt == nil {
			return scheduledPassed
		}
		last := r.LastSentAt.In(now.Location())
		if now.Year() != last.Year() {
			return now.Year() > last.Year()
		}
		return now.Month() > last.Month()
	}

	return false
}

func wholeDaysSince(t, now time.Time) int64 {
	return int64(now.Sub(t) / day)
}

// ApplyDeliveryOutcome transitions the reminder after a delivery attempt.
// lastSentAt is always set. A successful repeating reminder has scheduledAt
// advanced one period from its previous value and goes back to pending.
func ApplyDeliveryOutcome(r *models.Reminder, success bool, now time.Time) {
	sentAt := now
	r.LastSentAt = &sentAt
	r.UpdatedAt = now

	if !success {
		r.Status = models.StatusFailed
		return
	}

	r.Status = models.StatusSent
	if r.Repeat == models.RepeatNone || r.Repeat == "" {
		return
	}

	r.ScheduledAt = NextOccurrence(r.ScheduledAt, r.Repeat)
	r.Status = models.StatusPending
}

// NextOccurrence advances t by one repeat period.
// Monthly uses calendar months, so Jan 31 rolls into early March as time.AddDate does.
func NextOccurrence(t time.Time, repeat models.ReminderRepeat) time.Time {
	switch repeat {
	case models.RepeatDaily:
		return t.AddDate(0, 0, 1)
	case models.RepeatWeekly:
		return t.AddDate(0, 0, 7)
	case models.RepeatMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}
