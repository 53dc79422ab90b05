package delivery

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

var errSMTPNotConfigured = errors.New("SMTP 설정이 필요합니다.")

const (
	ChannelKeySlack = "slack"
	ChannelKeyEmail = "email"
)

// Service fans a reminder out to Slack and email concurrently
type Service struct {
	slack  interfaces.SlackSender
	email  interfaces.EmailSender
	logger arbor.ILogger
}

// NewService creates a new delivery service
func NewService(slack interfaces.SlackSender, email interfaces.EmailSender, logger arbor.ILogger) *Service {
	return &Service{
		slack:  slack,
		email:  email,
		logger: logger,
	}
}

// Deliver attempts every channel the reminder selects that also has a target.
// Only attempted channels appear in Results; Success is true when any attempt succeeded.
func (s *Service) Deliver(ctx context.Context, reminder *models.Reminder) models.DeliveryResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]models.ChannelResult)
	)

	record := func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			results[key] = models.ChannelResult{Success: false, Error: err.Error()}
			return
		}
		results[key] = models.ChannelResult{Success: true}
	}

	if reminder.UsesSlack() && strings.TrimSpace(reminder.SlackWebhook) != "" {
		common.SafeGoGroup(&wg, s.logger, "deliver-slack", func() {
			record(ChannelKeySlack, s.slack.SendSlack(ctx, reminder.SlackWebhook, reminder.Title, reminder.Message, reminder.ScheduledAt))
		}, func(recovered interface{}) {
			record(ChannelKeySlack, fmt.Errorf("slack sender panic: %v", recovered))
		})
	}

	if reminder.UsesEmail() && strings.TrimSpace(reminder.Email) != "" {
		common.SafeGoGroup(&wg, s.logger, "deliver-email", func() {
			record(ChannelKeyEmail, s.sendEmail(ctx, reminder))
		}, func(recovered interface{}) {
			record(ChannelKeyEmail, fmt.Errorf("email sender panic: %v", recovered))
		})
	}

	wg.Wait()

	success := false
	for key, r := range results {
		if r.Success {
			success = true
			continue
		}
		s.logger.Warn().
			Str("id", reminder.ID).
			Str("channel", key).
			Str("error", r.Error).
			Msg("Reminder channel delivery failed")
	}

	return models.DeliveryResult{Success: success, Results: results}
}

func (s *Service) sendEmail(ctx context.Context, reminder *models.Reminder) error {
	if !s.email.IsConfigured() {
		return errSMTPNotConfigured
	}
	text, htmlBody := EmailBodies(reminder)
	return s.email.SendEmail(ctx, reminder.Email, reminder.Title, text, htmlBody)
}

// EmailBodies renders the plain-text and HTML bodies for a reminder email
func EmailBodies(reminder *models.Reminder) (string, string) {
	when := common.FormatKoreanDateTime(reminder.ScheduledAt)
	text := fmt.Sprintf("%s\n\n일시: %s", reminder.Message, when)
	htmlBody := fmt.Sprintf("<h2>%s</h2><p>%s</p><p><small>일시: %s</small></p>",
		html.EscapeString(reminder.Title),
		strings.ReplaceAll(html.EscapeString(reminder.Message), "\n", "<br>"),
		when)
	return text, htmlBody
}
