package reminders

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// CreateReminderRequest is the registration payload
type CreateReminderRequest struct {
	Title        string `json:"title" validate:"required"`
	Message      string `json:"message" validate:"required"`
	ScheduledAt  string `json:"scheduledAt" validate:"required"`
	Channel      string `json:"channel" validate:"required,oneof=slack email both"`
	Repeat       string `json:"repeat" validate:"omitempty,oneof=none daily weekly monthly"`
	SlackWebhook string `json:"slackWebhook" validate:"required_if=Channel slack,required_if=Channel both,omitempty,url"`
	Email        string `json:"email" validate:"required_if=Channel email,required_if=Channel both,omitempty,email"`
}

// UpdateReminderRequest is a partial update; nil fields are left unchanged
type UpdateReminderRequest struct {
	Title        *string `json:"title"`
	Message      *string `json:"message"`
	ScheduledAt  *string `json:"scheduledAt"`
	Channel      *string `json:"channel"`
	Repeat       *string `json:"repeat"`
	SlackWebhook *string `json:"slackWebhook"`
	Email        *string `json:"email"`
	Status       *string `json:"status"`
}

// SendRequest is an ad-hoc, non-persisted delivery
type SendRequest struct {
	Channel      string `json:"channel" validate:"required,oneof=slack email both"`
	Title        string `json:"title" validate:"required"`
	Message      string `json:"message" validate:"required"`
	SlackWebhook string `json:"slackWebhook" validate:"omitempty,url"`
	Email        string `json:"email" validate:"omitempty,email"`
	ScheduledAt  string `json:"scheduledAt"`
}

// scheduledAtLayouts accepts RFC3339 plus the zone-less forms browsers submit (local time)
var scheduledAtLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseScheduledAt parses an ISO-like date; zone-less values are local time
func ParseScheduledAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range scheduledAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, interfaces.NewValidationErrorf("invalid scheduledAt", "%q is not a parseable date", s)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError converts validator output into a single human-readable ValidationError
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return interfaces.NewValidationErrorf("invalid request", "%v", err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "required_if":
			messages = append(messages, fmt.Sprintf("%s is required for the selected channel", fe.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", fe.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return &interfaces.ValidationError{
		Message: "invalid reminder",
		Details: strings.Join(messages, "; "),
	}
}

// checkChannelTargets enforces that every selected channel has a delivery target
func checkChannelTargets(r *models.Reminder) error {
	if r.UsesSlack() && strings.TrimSpace(r.SlackWebhook) == "" {
		return interfaces.NewValidationErrorf("invalid reminder", "slackWebhook is required for channel %q", r.Channel)
	}
	if r.UsesEmail() && strings.TrimSpace(r.Email) == "" {
		return interfaces.NewValidationErrorf("invalid reminder", "email is required for channel %q", r.Channel)
	}
	return nil
}
